package adapter

import (
	"time"

	"github.com/yanun0323/decimal"

	"main/internal/adapter/enum"
)

// Position is the net holding for one symbol.
type Position struct {
	Symbol          Symbol
	NetQty          decimal.Decimal
	AverageBuyPrice Price
	RealizedPnL     int64
	UnrealizedPnL   int64
	TotalPnL        int64
}

// PortfolioSummary aggregates account-wide trading results.
type PortfolioSummary struct {
	Username           string
	TotalRealizedPnL   int64
	TotalUnrealizedPnL int64
	TotalPnL           int64
	TotalTradeCount    int
	TotalTradingVolume decimal.Decimal
	Positions          []Position
	SymbolTradeCounts  map[string]int
}

// TradeHistoryItem is one settled trade in the positions view.
type TradeHistoryItem struct {
	ID          string
	Symbol      Symbol
	Side        enum.OrderSide
	Quantity    decimal.Decimal
	Price       Price
	Timestamp   time.Time
	RealizedPnL int64
}

// TradedVolume is a traded-volume window report for one symbol.
type TradedVolume struct {
	Symbol   Symbol
	Volume   decimal.Decimal
	FromTime time.Time
	ToTime   time.Time
}
