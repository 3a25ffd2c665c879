package fallback

import (
	"sync"

	"github.com/yanun0323/logs"

	"main/internal/adapter"
)

// Controller tracks which symbols run on synthetic data. The global
// mode is derived, never stored: it is on exactly when at least one
// symbol is degraded and no operator override is active.
type Controller struct {
	mu       sync.RWMutex
	degraded map[adapter.Symbol]struct{}
	forced   bool
}

func NewController() *Controller {
	return &Controller{
		degraded: make(map[adapter.Symbol]struct{}),
	}
}

// MarkDegraded flags the symbol as running on synthetic data. A fresh
// degradation clears any operator override.
func (c *Controller) MarkDegraded(symbol adapter.Symbol) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.degraded[symbol]; !ok {
		logs.Warnf("symbol %s degraded to synthetic data", symbol)
	}
	c.degraded[symbol] = struct{}{}
	c.forced = false
}

// ClearDegraded flags the symbol as back on live data.
func (c *Controller) ClearDegraded(symbol adapter.Symbol) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.degraded[symbol]; ok {
		logs.Infof("symbol %s recovered to live data", symbol)
	}
	delete(c.degraded, symbol)
}

// ForceRealData suppresses the global synthetic mode until the next
// degradation, without touching per-symbol state.
func (c *Controller) ForceRealData() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.forced = true
}

// Degraded reports whether the symbol currently runs on synthetic data.
func (c *Controller) Degraded(symbol adapter.Symbol) bool {
	if c == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.degraded[symbol]
	return ok
}

// DegradedSymbols returns the degraded symbols in display order.
func (c *Controller) DegradedSymbols() []adapter.Symbol {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	symbols := make([]adapter.Symbol, 0, len(c.degraded))
	for _, symbol := range adapter.Symbols() {
		if _, ok := c.degraded[symbol]; ok {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

// Global reports whether the whole surface shows the synthetic-data
// notice.
func (c *Controller) Global() bool {
	if c == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return !c.forced && len(c.degraded) != 0
}
