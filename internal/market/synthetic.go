package market

import (
	"time"

	"main/internal/adapter"
)

const (
	_syntheticDepth  = 10
	_syntheticSpread = 1_000
)

var _syntheticBasePrice = map[adapter.Symbol]adapter.Price{
	adapter.SymbolGBTCJPY:   14_980_000,
	adapter.SymbolGFXBTCJPY: 14_981_000,
	adapter.SymbolBBTCJPY:   14_979_000,
	adapter.SymbolBFXBTCJPY: 14_982_000,
}

// SyntheticBook builds a deterministic placeholder book around the
// symbol's reference price. Levels step one spread apart, with size
// growing away from the touch.
func SyntheticBook(symbol adapter.Symbol, now time.Time) adapter.OrderBook {
	base, ok := _syntheticBasePrice[symbol]
	if !ok {
		base = _syntheticBasePrice[adapter.SymbolGBTCJPY]
	}

	book := adapter.OrderBook{
		Symbol:    symbol,
		Bids:      make([]adapter.BookLevel, 0, _syntheticDepth),
		Asks:      make([]adapter.BookLevel, 0, _syntheticDepth),
		UpdatedAt: now,
	}
	for i := 0; i < _syntheticDepth; i++ {
		step := adapter.Price(i+1) * _syntheticSpread
		quantity := adapter.Quantity(100 * (i + 1))
		book.Bids = append(book.Bids, adapter.BookLevel{Price: base - step, Quantity: quantity})
		book.Asks = append(book.Asks, adapter.BookLevel{Price: base + step, Quantity: quantity})
	}
	return book
}
