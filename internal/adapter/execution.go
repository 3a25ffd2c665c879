package adapter

import (
	"time"

	"main/internal/adapter/enum"
)

// ExecutionRecord is one trade fill, partial or complete.
type ExecutionRecord struct {
	ExecID        string
	OrderID       string
	ClientOrderID string
	Symbol        Symbol
	Side          enum.OrderSide
	LastQty       Quantity
	LastPx        Price
	LeavesQty     Quantity
	CumQty        Quantity
	AvgPx         Price
	Status        string
	TransactTime  time.Time
}
