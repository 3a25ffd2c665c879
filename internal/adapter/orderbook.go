package adapter

import (
	"strconv"
	"time"
)

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price    Price
	Quantity Quantity
}

// OrderBook is a snapshot of outstanding bid/ask levels for one symbol.
// Bids are sorted descending by price, asks ascending; both as reported
// by the venue.
type OrderBook struct {
	Symbol    Symbol
	Bids      []BookLevel
	Asks      []BookLevel
	UpdatedAt time.Time
}

// BestBid returns the top bid level.
func (b OrderBook) BestBid() (BookLevel, bool) {
	if len(b.Bids) == 0 {
		return BookLevel{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the top ask level.
func (b OrderBook) BestAsk() (BookLevel, bool) {
	if len(b.Asks) == 0 {
		return BookLevel{}, false
	}
	return b.Asks[0], true
}

// Clone returns a deep copy, so cached snapshots cannot be mutated
// through a reader.
func (b OrderBook) Clone() OrderBook {
	out := b
	if len(b.Bids) > 0 {
		out.Bids = make([]BookLevel, len(b.Bids))
		copy(out.Bids, b.Bids)
	}
	if len(b.Asks) > 0 {
		out.Asks = make([]BookLevel, len(b.Asks))
		copy(out.Asks, b.Asks)
	}
	return out
}

// Debug returns a human readable format string
func (b OrderBook) Debug() string {
	appendSide := func(buf []byte, rows []BookLevel) []byte {
		buf = append(buf, '[')
		for i := range rows {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '(')
			buf = rows[i].Price.AppendString(buf)
			buf = append(buf, ',')
			buf = rows[i].Quantity.AppendString(buf)
			buf = append(buf, ')')
		}
		buf = append(buf, ']')
		return buf
	}

	buf := make([]byte, 0, 256)
	buf = append(buf, "OrderBook{symbol="...)
	buf = append(buf, b.Symbol.String()...)
	buf = append(buf, " updated="...)
	buf = strconv.AppendInt(buf, b.UpdatedAt.UnixNano(), 10)
	buf = append(buf, " bids="...)
	buf = appendSide(buf, b.Bids)
	buf = append(buf, " asks="...)
	buf = appendSide(buf, b.Asks)
	buf = append(buf, '}')
	return string(buf)
}
