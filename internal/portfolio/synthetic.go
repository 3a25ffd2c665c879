package portfolio

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/decimal"

	"main/internal/adapter"
	"main/internal/adapter/enum"
)

// canned placeholder figures, shaped like a small but non-empty
// account so the positions panel renders something meaningful offline
const _syntheticSummaryJSON = `{
	"netQty": "0.150",
	"totalTradingVolume": "1.250",
	"tradeQty1": "0.100",
	"tradeQty2": "0.050"
}`

type syntheticFigures struct {
	NetQty             decimal.Decimal `json:"netQty"`
	TotalTradingVolume decimal.Decimal `json:"totalTradingVolume"`
	TradeQty1          decimal.Decimal `json:"tradeQty1"`
	TradeQty2          decimal.Decimal `json:"tradeQty2"`
}

func figures() syntheticFigures {
	var f syntheticFigures
	// the literal is fixed, decode cannot fail at runtime
	_ = sonic.ConfigFastest.Unmarshal([]byte(_syntheticSummaryJSON), &f)
	return f
}

// SyntheticSummary builds the placeholder portfolio report shown when
// the venue's positions endpoint has never answered.
func SyntheticSummary() adapter.PortfolioSummary {
	f := figures()
	return adapter.PortfolioSummary{
		Username:           "offline",
		TotalRealizedPnL:   125_000,
		TotalUnrealizedPnL: -15_000,
		TotalPnL:           110_000,
		TotalTradeCount:    2,
		TotalTradingVolume: f.TotalTradingVolume,
		Positions: []adapter.Position{{
			Symbol:          adapter.SymbolGBTCJPY,
			NetQty:          f.NetQty,
			AverageBuyPrice: 14_950_000,
			RealizedPnL:     125_000,
			UnrealizedPnL:   -15_000,
			TotalPnL:        110_000,
		}},
		SymbolTradeCounts: map[string]int{
			adapter.SymbolGBTCJPY.String(): 2,
		},
	}
}

// SyntheticTradeHistory builds the placeholder settled-trade list.
func SyntheticTradeHistory() []adapter.TradeHistoryItem {
	f := figures()
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return []adapter.TradeHistoryItem{
		{
			ID:          "trade-offline-1",
			Symbol:      adapter.SymbolGBTCJPY,
			Side:        enum.OrderSideBuy,
			Quantity:    f.TradeQty1,
			Price:       14_950_000,
			Timestamp:   base,
			RealizedPnL: 0,
		},
		{
			ID:          "trade-offline-2",
			Symbol:      adapter.SymbolGBTCJPY,
			Side:        enum.OrderSideSell,
			Quantity:    f.TradeQty2,
			Price:       14_980_000,
			Timestamp:   base.Add(time.Hour),
			RealizedPnL: 125_000,
		},
	}
}
