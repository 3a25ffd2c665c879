package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/adapter"
)

// SummarySource fetches portfolio reports from the venue.
type SummarySource interface {
	PortfolioSummary(ctx context.Context) (adapter.PortfolioSummary, error)
	TradeHistory(ctx context.Context, limit int, symbol adapter.Symbol) ([]adapter.TradeHistoryItem, error)
	TradedVolume(ctx context.Context, symbol adapter.Symbol, from, to time.Time) (adapter.TradedVolume, error)
}

const _defaultTradeHistoryLimit = 50

// Service caches the portfolio view. A venue failure serves the last
// good report, or a canned placeholder before the first success, so
// the positions panel always renders.
type Service struct {
	source SummarySource

	mu         sync.RWMutex
	summary    adapter.PortfolioSummary
	hasSummary bool
	synthetic  bool
	trades     []adapter.TradeHistoryItem
	hasTrades  bool
}

func NewService(source SummarySource) *Service {
	return &Service{source: source}
}

// Summary returns the portfolio report, refreshing from the venue
// first. The second result reports whether the data is synthetic.
func (s *Service) Summary(ctx context.Context) (adapter.PortfolioSummary, bool) {
	if s == nil {
		return adapter.PortfolioSummary{}, false
	}

	summary, err := s.source.PortfolioSummary(ctx)
	if err != nil {
		logs.Warnf("fetch portfolio summary, err: %+v", err)
		return s.fallbackSummary()
	}

	s.mu.Lock()
	s.summary = summary
	s.hasSummary = true
	s.synthetic = false
	s.mu.Unlock()

	return summary, false
}

func (s *Service) fallbackSummary() (adapter.PortfolioSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasSummary {
		return s.summary, s.synthetic
	}

	s.summary = SyntheticSummary()
	s.hasSummary = true
	s.synthetic = true
	return s.summary, true
}

// TradeHistory returns recent settled trades, refreshing from the
// venue first. The second result reports whether the data is
// synthetic.
func (s *Service) TradeHistory(ctx context.Context, symbol adapter.Symbol) ([]adapter.TradeHistoryItem, bool) {
	if s == nil {
		return nil, false
	}

	trades, err := s.source.TradeHistory(ctx, _defaultTradeHistoryLimit, symbol)
	if err != nil {
		logs.Warnf("fetch trade history, err: %+v", err)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.hasTrades {
			copied := make([]adapter.TradeHistoryItem, len(s.trades))
			copy(copied, s.trades)
			return copied, false
		}
		return SyntheticTradeHistory(), true
	}

	s.mu.Lock()
	s.trades = trades
	s.hasTrades = true
	s.mu.Unlock()

	return trades, false
}

// TradedVolume reports the traded volume within the window straight
// from the venue; there is no placeholder for it.
func (s *Service) TradedVolume(ctx context.Context, symbol adapter.Symbol, from, to time.Time) (adapter.TradedVolume, error) {
	return s.source.TradedVolume(ctx, symbol, from, to)
}
