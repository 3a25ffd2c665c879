package executions

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/adapter"
	"main/internal/adapter/enum"
	"main/internal/fallback"
)

const _defaultRefreshInterval = 30 * time.Second

// HistorySource fetches one page of execution history.
type HistorySource interface {
	OwnExecutions(ctx context.Context, symbol adapter.Symbol, page, size int) ([]adapter.ExecutionRecord, error)
	AllExecutions(ctx context.Context, symbol adapter.Symbol, page, size int) ([]adapter.ExecutionRecord, error)
}

// Refresher keeps the execution cache warm for the selected symbol.
// The own ledger refreshes on every cycle; the all-market ledger stays
// cold until the all-market view is first opened, then refreshes
// alongside it.
type Refresher struct {
	source   HistorySource
	cache    *Cache
	fb       *fallback.Controller
	interval time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	selected  adapter.Symbol
	allMarket bool

	kick chan struct{}
}

func NewRefresher(source HistorySource, cache *Cache, fb *fallback.Controller, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = _defaultRefreshInterval
	}
	return &Refresher{
		source:   source,
		cache:    cache,
		fb:       fb,
		interval: interval,
		now:      time.Now,
		selected: adapter.DefaultSymbol,
		kick:     make(chan struct{}, 1),
	}
}

// Select switches the tracked symbol and schedules an immediate
// refresh so switching never waits out the ticker.
func (r *Refresher) Select(symbol adapter.Symbol) {
	if r == nil || !symbol.IsAvailable() {
		return
	}

	r.mu.Lock()
	r.selected = symbol
	r.mu.Unlock()

	r.wake()
}

// Selected returns the tracked symbol.
func (r *Refresher) Selected() adapter.Symbol {
	if r == nil {
		return adapter.DefaultSymbol
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// ActivateAllMarket starts refreshing the all-market ledger. Until
// this is called that ledger is never fetched.
func (r *Refresher) ActivateAllMarket() {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.allMarket = true
	r.mu.Unlock()

	r.wake()
}

func (r *Refresher) wake() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Refresh runs one refresh cycle for the current selection.
func (r *Refresher) Refresh(ctx context.Context) {
	if r == nil {
		return
	}

	r.mu.RLock()
	symbol := r.selected
	allMarket := r.allMarket
	r.mu.RUnlock()

	r.refreshLedger(ctx, enum.LedgerKindOwn, symbol)
	if allMarket || r.cache.Populated(enum.LedgerKindAllMarket) {
		r.refreshLedger(ctx, enum.LedgerKindAllMarket, symbol)
	}
}

func (r *Refresher) refreshLedger(ctx context.Context, kind enum.LedgerKind, symbol adapter.Symbol) {
	fetch := r.source.OwnExecutions
	if kind == enum.LedgerKindAllMarket {
		fetch = r.source.AllExecutions
	}

	records, err := fetch(ctx, symbol, 0, r.cache.PageSize())
	if err != nil {
		logs.Warnf("refresh %s executions %s, err: %+v", kind, symbol, err)
		r.fb.MarkDegraded(symbol)
		r.cache.StoreSynthetic(kind, symbol, SyntheticPage(symbol, r.now()))
		return
	}
	r.cache.StorePage(kind, symbol, records)
}

// Run refreshes on a fixed cadence until the context ends. Selection
// changes and tab activations wake it early.
func (r *Refresher) Run(ctx context.Context) {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		case <-r.kick:
			r.Refresh(ctx)
		}
	}
}
