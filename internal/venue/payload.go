package venue

import (
	"time"

	"github.com/yanun0323/decimal"

	"main/internal/adapter"
	"main/internal/adapter/enum"
)

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type bookLevelPayload struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

type orderBookPayload struct {
	Symbol         string             `json:"symbol"`
	Bids           []bookLevelPayload `json:"bids"`
	Asks           []bookLevelPayload `json:"asks"`
	LastUpdateTime string             `json:"lastUpdateTime"`
}

func (p orderBookPayload) toBook() adapter.OrderBook {
	book := adapter.OrderBook{
		Symbol:    adapter.ParseSymbol(p.Symbol),
		Bids:      make([]adapter.BookLevel, 0, len(p.Bids)),
		Asks:      make([]adapter.BookLevel, 0, len(p.Asks)),
		UpdatedAt: parseWireTime(p.LastUpdateTime),
	}
	for _, level := range p.Bids {
		book.Bids = append(book.Bids, adapter.BookLevel{
			Price:    adapter.Price(level.Price),
			Quantity: adapter.Quantity(level.Quantity),
		})
	}
	for _, level := range p.Asks {
		book.Asks = append(book.Asks, adapter.BookLevel{
			Price:    adapter.Price(level.Price),
			Quantity: adapter.Quantity(level.Quantity),
		})
	}
	return book
}

type orderRequestPayload struct {
	Symbol   string `json:"symbol"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Side     string `json:"side"`
	OrdType  string `json:"ordType"`
	TIF      string `json:"tif"`
}

type orderResponsePayload struct {
	OrderID   string `json:"orderId"`
	ClOrdID   string `json:"clOrdID"`
	OrdStatus string `json:"ordStatus"`
	Message   string `json:"message"`
}

type executionPayload struct {
	ExecID       string `json:"execID"`
	OrderID      string `json:"orderId"`
	ClOrdID      string `json:"clOrdID"`
	Symbol       string `json:"symbol"`
	Side         string `json:"side"`
	LastQty      int64  `json:"lastQty"`
	LastPx       int64  `json:"lastPx"`
	LeavesQty    int64  `json:"leavesQty"`
	CumQty       int64  `json:"cumQty"`
	AvgPx        int64  `json:"avgPx"`
	OrdStatus    string `json:"ordStatus"`
	TransactTime string `json:"transactTime"`
}

func (p executionPayload) toRecord() adapter.ExecutionRecord {
	return adapter.ExecutionRecord{
		ExecID:        p.ExecID,
		OrderID:       p.OrderID,
		ClientOrderID: p.ClOrdID,
		Symbol:        adapter.ParseSymbol(p.Symbol),
		Side:          enum.ParseOrderSide(p.Side),
		LastQty:       adapter.Quantity(p.LastQty),
		LastPx:        adapter.Price(p.LastPx),
		LeavesQty:     adapter.Quantity(p.LeavesQty),
		CumQty:        adapter.Quantity(p.CumQty),
		AvgPx:         adapter.Price(p.AvgPx),
		Status:        p.OrdStatus,
		TransactTime:  parseWireTime(p.TransactTime),
	}
}

type executionHistoryResponse struct {
	Username      string             `json:"username"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalPages    int                `json:"totalPages"`
	TotalElements int                `json:"totalElements"`
	Executions    []executionPayload `json:"executions"`
}

func (p executionHistoryResponse) toRecords() []adapter.ExecutionRecord {
	records := make([]adapter.ExecutionRecord, 0, len(p.Executions))
	for _, execution := range p.Executions {
		records = append(records, execution.toRecord())
	}
	return records
}

type tradedVolumePayload struct {
	Symbol   string          `json:"symbol"`
	Volume   decimal.Decimal `json:"volume"`
	FromTime string          `json:"fromTime"`
	ToTime   string          `json:"toTime"`
}

type positionPayload struct {
	Symbol          string          `json:"symbol"`
	NetQty          decimal.Decimal `json:"netQty"`
	AverageBuyPrice int64           `json:"averageBuyPrice"`
	RealizedPnL     int64           `json:"realizedPnL"`
	UnrealizedPnL   int64           `json:"unrealizedPnL"`
	TotalPnL        int64           `json:"totalPnL"`
}

type portfolioSummaryPayload struct {
	Username           string            `json:"username"`
	TotalRealizedPnL   int64             `json:"totalRealizedPnL"`
	TotalUnrealizedPnL int64             `json:"totalUnrealizedPnL"`
	TotalPnL           int64             `json:"totalPnL"`
	TotalTradeCount    int               `json:"totalTradeCount"`
	TotalTradingVolume decimal.Decimal   `json:"totalTradingVolume"`
	Positions          []positionPayload `json:"positions"`
	SymbolTradeCounts  map[string]int    `json:"symbolTradeCounts"`
}

func (p portfolioSummaryPayload) toSummary() adapter.PortfolioSummary {
	summary := adapter.PortfolioSummary{
		Username:           p.Username,
		TotalRealizedPnL:   p.TotalRealizedPnL,
		TotalUnrealizedPnL: p.TotalUnrealizedPnL,
		TotalPnL:           p.TotalPnL,
		TotalTradeCount:    p.TotalTradeCount,
		TotalTradingVolume: p.TotalTradingVolume,
		Positions:          make([]adapter.Position, 0, len(p.Positions)),
		SymbolTradeCounts:  p.SymbolTradeCounts,
	}
	for _, position := range p.Positions {
		summary.Positions = append(summary.Positions, adapter.Position{
			Symbol:          adapter.ParseSymbol(position.Symbol),
			NetQty:          position.NetQty,
			AverageBuyPrice: adapter.Price(position.AverageBuyPrice),
			RealizedPnL:     position.RealizedPnL,
			UnrealizedPnL:   position.UnrealizedPnL,
			TotalPnL:        position.TotalPnL,
		})
	}
	return summary
}

type tradeHistoryItemPayload struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       int64           `json:"price"`
	Timestamp   string          `json:"timestamp"`
	RealizedPnL int64           `json:"realizedPnL"`
}

func (p tradeHistoryItemPayload) toItem() adapter.TradeHistoryItem {
	return adapter.TradeHistoryItem{
		ID:          p.ID,
		Symbol:      adapter.ParseSymbol(p.Symbol),
		Side:        enum.ParseOrderSide(p.Side),
		Quantity:    p.Quantity,
		Price:       adapter.Price(p.Price),
		Timestamp:   parseWireTime(p.Timestamp),
		RealizedPnL: p.RealizedPnL,
	}
}

type newsSummaryPayload struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

type newsTranslationPayload struct {
	Title     string  `json:"title"`
	TitleJP   string  `json:"title_jp"`
	Body      string  `json:"body"`
	Impact    float64 `json:"impact"`
	Timestamp string  `json:"timestamp"`
}

// parseWireTime parses the venue's RFC3339 timestamps, tolerating the
// field being absent or malformed.
func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
