package market

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/adapter"
	"main/internal/fallback"
)

const _defaultPollInterval = time.Second

// BookSource fetches one live order book snapshot.
type BookSource interface {
	OrderBook(ctx context.Context, symbol adapter.Symbol, depth int) (adapter.OrderBook, error)
}

// Poller keeps every symbol's book fresh on its own cadence. Symbols
// fail independently: one venue outage never stops the other symbols
// from updating.
type Poller struct {
	source   BookSource
	store    *Store
	fb       *fallback.Controller
	depth    int
	interval time.Duration
	now      func() time.Time
}

func NewPoller(source BookSource, store *Store, fb *fallback.Controller, depth int, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = _defaultPollInterval
	}
	return &Poller{
		source:   source,
		store:    store,
		fb:       fb,
		depth:    depth,
		interval: interval,
		now:      time.Now,
	}
}

// Poll fetches one snapshot for the symbol and settles the outcome
// into the store. A first-attempt failure installs a synthetic book so
// the symbol is never blank; later failures keep the last good
// snapshot and only flip the degraded flag.
func (p *Poller) Poll(ctx context.Context, symbol adapter.Symbol) error {
	book, err := p.source.OrderBook(ctx, symbol, p.depth)
	if err != nil {
		if p.store.Fail(symbol, err) {
			p.store.SetSynthetic(symbol, SyntheticBook(symbol, p.now()))
		}
		p.fb.MarkDegraded(symbol)
		return err
	}

	p.store.SetBook(symbol, book)
	p.fb.ClearDegraded(symbol)
	return nil
}

// PollAll polls every symbol concurrently and waits for all of them.
func (p *Poller) PollAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, symbol := range adapter.Symbols() {
		wg.Add(1)
		go func(symbol adapter.Symbol) {
			defer wg.Done()
			if err := p.Poll(ctx, symbol); err != nil {
				logs.Warnf("poll %s, err: %+v", symbol, err)
			}
		}(symbol)
	}
	wg.Wait()
}

// Run polls every symbol on its own ticker until the context ends. The
// first round fires immediately.
func (p *Poller) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, symbol := range adapter.Symbols() {
		wg.Add(1)
		go func(symbol adapter.Symbol) {
			defer wg.Done()
			p.run(ctx, symbol)
		}(symbol)
	}
	wg.Wait()
}

func (p *Poller) run(ctx context.Context, symbol adapter.Symbol) {
	if err := p.Poll(ctx, symbol); err != nil {
		logs.Warnf("poll %s, err: %+v", symbol, err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Poll(ctx, symbol); err != nil {
				logs.Warnf("poll %s, err: %+v", symbol, err)
			}
		}
	}
}
