package executions

import (
	"time"

	"main/internal/adapter"
	"main/internal/adapter/enum"
)

// SyntheticPage builds a deterministic placeholder execution page shown
// while the venue's history endpoint is unreachable.
func SyntheticPage(symbol adapter.Symbol, now time.Time) []adapter.ExecutionRecord {
	return []adapter.ExecutionRecord{
		{
			ExecID:       "exec-offline-1",
			OrderID:      "order-offline-1",
			Symbol:       symbol,
			Side:         enum.OrderSideBuy,
			LastQty:      100,
			LastPx:       14_980_000,
			CumQty:       100,
			AvgPx:        14_980_000,
			Status:       "FILLED",
			TransactTime: now.Add(-time.Minute),
		},
		{
			ExecID:       "exec-offline-2",
			OrderID:      "order-offline-2",
			Symbol:       symbol,
			Side:         enum.OrderSideSell,
			LastQty:      50,
			LastPx:       14_981_000,
			CumQty:       50,
			AvgPx:        14_981_000,
			Status:       "FILLED",
			TransactTime: now.Add(-2 * time.Minute),
		},
	}
}
