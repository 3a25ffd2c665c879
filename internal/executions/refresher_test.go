package executions

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"main/internal/adapter"
	"main/internal/adapter/enum"
	"main/internal/fallback"
)

type scriptedHistory struct {
	mu       sync.Mutex
	failing  bool
	ownCalls map[adapter.Symbol]int
	allCalls map[adapter.Symbol]int
}

func newScriptedHistory() *scriptedHistory {
	return &scriptedHistory{
		ownCalls: make(map[adapter.Symbol]int),
		allCalls: make(map[adapter.Symbol]int),
	}
}

func (s *scriptedHistory) setFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func (s *scriptedHistory) page(prefix string, symbol adapter.Symbol, seq int) []adapter.ExecutionRecord {
	return []adapter.ExecutionRecord{{
		ExecID:       fmt.Sprintf("%s-%s-%d", prefix, symbol, seq),
		Symbol:       symbol,
		Side:         enum.OrderSideBuy,
		LastQty:      100,
		LastPx:       14_980_000,
		Status:       "FILLED",
		TransactTime: time.Now(),
	}}
}

func (s *scriptedHistory) OwnExecutions(_ context.Context, symbol adapter.Symbol, _, _ int) ([]adapter.ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errors.New("venue down")
	}
	s.ownCalls[symbol]++
	return s.page("own", symbol, s.ownCalls[symbol]), nil
}

func (s *scriptedHistory) AllExecutions(_ context.Context, symbol adapter.Symbol, _, _ int) ([]adapter.ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errors.New("venue down")
	}
	s.allCalls[symbol]++
	return s.page("all", symbol, s.allCalls[symbol]), nil
}

func (s *scriptedHistory) allCallCount(symbol adapter.Symbol) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allCalls[symbol]
}

func TestRefresherAllMarketStaysColdUntilActivated(t *testing.T) {
	source := newScriptedHistory()
	cache := NewCache(10)
	refresher := NewRefresher(source, cache, fallback.NewController(), time.Minute)

	refresher.Refresh(context.Background())
	refresher.Refresh(context.Background())

	_, ok := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	assert.True(t, ok)
	assert.False(t, cache.Populated(enum.LedgerKindAllMarket))
	assert.Zero(t, source.allCallCount(adapter.DefaultSymbol))

	refresher.ActivateAllMarket()
	refresher.Refresh(context.Background())

	_, ok = cache.Read(enum.LedgerKindAllMarket, adapter.DefaultSymbol)
	assert.True(t, ok)
	assert.Equal(t, 1, source.allCallCount(adapter.DefaultSymbol))
}

func TestRefresherSelectSwitchesSymbol(t *testing.T) {
	source := newScriptedHistory()
	cache := NewCache(10)
	refresher := NewRefresher(source, cache, fallback.NewController(), time.Minute)

	refresher.Refresh(context.Background())
	refresher.Select(adapter.SymbolBFXBTCJPY)
	refresher.Refresh(context.Background())

	entry, ok := cache.Read(enum.LedgerKindOwn, adapter.SymbolBFXBTCJPY)
	require.True(t, ok)
	require.Len(t, entry.Records, 1)
	assert.Equal(t, adapter.SymbolBFXBTCJPY, entry.Records[0].Symbol)

	// the previous symbol's page stays readable from cache
	_, ok = cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	assert.True(t, ok)
}

func TestRefresherFailureStoresSyntheticPage(t *testing.T) {
	source := newScriptedHistory()
	source.setFailing(true)
	cache := NewCache(10)
	fb := fallback.NewController()
	refresher := NewRefresher(source, cache, fb, time.Minute)

	refresher.Refresh(context.Background())

	entry, ok := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	require.True(t, ok)
	assert.True(t, entry.Synthetic)
	assert.NotEmpty(t, entry.Records)
	assert.True(t, fb.Degraded(adapter.DefaultSymbol))

	// recovery overwrites it with the live page
	source.setFailing(false)
	refresher.Refresh(context.Background())
	live, _ := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	assert.False(t, live.Synthetic)

	// a fresh failure replaces the page again, tagged synthetic
	source.setFailing(true)
	refresher.Refresh(context.Background())
	after, _ := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	assert.True(t, after.Synthetic)
	assert.NotEqual(t, live.Records, after.Records)
}

func TestCachePrependTrimsToPage(t *testing.T) {
	cache := NewCache(3)
	base := make([]adapter.ExecutionRecord, 0, 3)
	for i := 0; i < 3; i++ {
		base = append(base, adapter.ExecutionRecord{ExecID: fmt.Sprintf("exec-%d", i)})
	}
	cache.StorePage(enum.LedgerKindOwn, adapter.DefaultSymbol, base)

	cache.Prepend(enum.LedgerKindOwn, adapter.DefaultSymbol, adapter.ExecutionRecord{ExecID: "exec-new"})

	entry, ok := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	require.True(t, ok)
	require.Len(t, entry.Records, 3)
	assert.Equal(t, "exec-new", entry.Records[0].ExecID)
	assert.Equal(t, "exec-0", entry.Records[1].ExecID)
}

func TestCacheReadReturnsCopy(t *testing.T) {
	cache := NewCache(10)
	cache.StorePage(enum.LedgerKindOwn, adapter.DefaultSymbol, []adapter.ExecutionRecord{{ExecID: "exec-1"}})

	entry, ok := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	require.True(t, ok)
	entry.Records[0].ExecID = "mutated"

	again, _ := cache.Read(enum.LedgerKindOwn, adapter.DefaultSymbol)
	assert.Equal(t, "exec-1", again.Records[0].ExecID)
}
