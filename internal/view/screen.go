package view

import (
	"context"
	"sync"

	"github.com/yanun0323/logs"

	"main/internal/adapter"
	"main/internal/adapter/enum"
	"main/internal/bus"
	"main/internal/executions"
	"main/internal/fallback"
	"main/internal/market"
)

// Tab identifies one pane of the terminal surface.
type Tab uint8

const (
	_tab_beg Tab = iota
	TabBoard
	TabAllMarket
	TabPositions
	TabNews
	_tab_end
)

func (t Tab) IsAvailable() bool {
	return t > _tab_beg && t < _tab_end
}

func (t Tab) String() string {
	switch t {
	case TabBoard:
		return "BOARD"
	case TabAllMarket:
		return "ALL_MARKET"
	case TabPositions:
		return "POSITIONS"
	case TabNews:
		return "NEWS"
	default:
		return "UNKNOWN"
	}
}

// Banner is the degradation notice rendered above every pane.
type Banner struct {
	Synthetic bool
	Symbols   []adapter.Symbol
}

// Screen owns the user-facing view state: the selected symbol and the
// active tab. Background refresh loops run only while the screen runs;
// closing the screen stops them.
type Screen struct {
	store     *market.Store
	cache     *executions.Cache
	fb        *fallback.Controller
	refresher *executions.Refresher
	poller    *market.Poller
	hub       *bus.Hub

	mu       sync.RWMutex
	selected adapter.Symbol
	tab      Tab

	notices     <-chan bus.Notice
	unsubscribe func()

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScreen wires the view. The logged-out subscription is taken here,
// before any background loop runs, so a broadcast can never race the
// view's startup and get dropped.
func NewScreen(store *market.Store, cache *executions.Cache, fb *fallback.Controller, refresher *executions.Refresher, poller *market.Poller, hub *bus.Hub) *Screen {
	notices, unsubscribe := hub.Subscribe(bus.TopicUserLoggedOut)
	return &Screen{
		store:       store,
		cache:       cache,
		fb:          fb,
		refresher:   refresher,
		poller:      poller,
		hub:         hub,
		selected:    adapter.DefaultSymbol,
		tab:         TabBoard,
		notices:     notices,
		unsubscribe: unsubscribe,
	}
}

// Run starts the background loops and keeps them alive until the
// context ends or Close is called.
func (s *Screen) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.poller.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refresher.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.notices:
				logs.Info("user logged out, resetting view")
				s.reset()
			}
		}
	}()

	wg.Wait()
	close(done)
}

// Close stops the background loops and waits for them.
func (s *Screen) Close() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel == nil {
		s.unsubscribe()
		return
	}
	cancel()
	<-done
	s.unsubscribe()
}

func (s *Screen) reset() {
	s.mu.Lock()
	s.selected = adapter.DefaultSymbol
	s.tab = TabBoard
	s.mu.Unlock()

	s.refresher.Select(adapter.DefaultSymbol)
}

// Select switches the watched symbol. The execution ledger refreshes
// immediately instead of waiting out its ticker.
func (s *Screen) Select(symbol adapter.Symbol) {
	if !symbol.IsAvailable() {
		return
	}

	s.mu.Lock()
	s.selected = symbol
	s.mu.Unlock()

	s.refresher.Select(symbol)
}

// Selected returns the watched symbol.
func (s *Screen) Selected() adapter.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SwitchTab changes the active pane. Opening the all-market pane for
// the first time starts that ledger's refresh cycle.
func (s *Screen) SwitchTab(tab Tab) {
	if !tab.IsAvailable() {
		return
	}

	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()

	if tab == TabAllMarket {
		s.refresher.ActivateAllMarket()
	}
}

// Tab returns the active pane.
func (s *Screen) Tab() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// Book returns the selected symbol's book state.
func (s *Screen) Book() market.BookState {
	return s.store.Snapshot(s.Selected())
}

// Executions returns the cached execution page for the pane's ledger.
func (s *Screen) Executions(kind enum.LedgerKind) (executions.Entry, bool) {
	return s.cache.Read(kind, s.Selected())
}

// Banner reports the degradation notice state.
func (s *Screen) Banner() Banner {
	return Banner{
		Synthetic: s.fb.Global(),
		Symbols:   s.fb.DegradedSymbols(),
	}
}

// ForceRealData clears the degradation notice until the next failure.
func (s *Screen) ForceRealData() {
	s.fb.ForceRealData()
}
