package market

import (
	"sync"
	"time"

	"main/internal/adapter"
)

// BookState is one symbol's polling state. Book is only replaced, never
// mutated in place: after the initial load a failed poll leaves the
// last good snapshot exactly as it was.
type BookState struct {
	Book            adapter.OrderBook
	HasBook         bool
	InitialLoadDone bool
	Degraded        bool
	LastErr         error
	UpdatedAt       time.Time
}

// Store holds per-symbol book state behind one lock. Mutations go
// through the narrow setters so callers cannot leave a symbol in a
// half-updated state.
type Store struct {
	mu     sync.RWMutex
	states map[adapter.Symbol]*BookState
}

func NewStore() *Store {
	states := make(map[adapter.Symbol]*BookState, len(adapter.Symbols()))
	for _, symbol := range adapter.Symbols() {
		states[symbol] = &BookState{}
	}
	return &Store{states: states}
}

func (s *Store) state(symbol adapter.Symbol) *BookState {
	state, ok := s.states[symbol]
	if !ok {
		state = &BookState{}
		s.states[symbol] = state
	}
	return state
}

// SetBook installs a live snapshot and clears the degraded flag.
func (s *Store) SetBook(symbol adapter.Symbol, book adapter.OrderBook) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state(symbol)
	state.Book = book
	state.HasBook = true
	state.InitialLoadDone = true
	state.Degraded = false
	state.LastErr = nil
	state.UpdatedAt = time.Now()
}

// SetSynthetic installs a synthetic snapshot for a symbol whose first
// load failed, marking it degraded.
func (s *Store) SetSynthetic(symbol adapter.Symbol, book adapter.OrderBook) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state(symbol)
	state.Book = book
	state.HasBook = true
	state.InitialLoadDone = true
	state.Degraded = true
	state.UpdatedAt = time.Now()
}

// Fail records a poll failure. It reports whether this was the symbol's
// first attempt, i.e. whether the caller should install a synthetic
// snapshot. After the initial load the held book is left untouched.
func (s *Store) Fail(symbol adapter.Symbol, err error) (firstAttempt bool) {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state(symbol)
	firstAttempt = !state.InitialLoadDone
	state.InitialLoadDone = true
	state.Degraded = true
	state.LastErr = err
	return firstAttempt
}

// Snapshot returns a deep copy of the symbol's state, safe to hold
// across later polls.
func (s *Store) Snapshot(symbol adapter.Symbol) BookState {
	if s == nil {
		return BookState{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[symbol]
	if !ok {
		return BookState{}
	}
	snapshot := *state
	snapshot.Book = state.Book.Clone()
	return snapshot
}
