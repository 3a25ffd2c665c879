package adapter

import "main/internal/adapter/enum"

// MinOrderQuantity is the smallest quantity the venue accepts: 0.01 BTC.
const MinOrderQuantity Quantity = 10

// OrderTicket is a new-order request as entered by the user.
type OrderTicket struct {
	Symbol      Symbol
	Side        enum.OrderSide
	Type        enum.OrderType
	TimeInForce enum.OrderTimeInForce
	Price       Price
	Quantity    Quantity
}

// OrderAck is the venue's acknowledgment of a submitted order.
type OrderAck struct {
	OrderID       string
	ClientOrderID string
	Status        string
	Message       string
}
