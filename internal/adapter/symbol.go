package adapter

// Symbol is a tradable product identifier from the venue's fixed set.
type Symbol uint8

const (
	_symbol_beg Symbol = iota
	SymbolGBTCJPY
	SymbolGFXBTCJPY
	SymbolBBTCJPY
	SymbolBFXBTCJPY
	_symbol_end
)

// DefaultSymbol is the symbol shown before the user makes a selection.
const DefaultSymbol = SymbolGFXBTCJPY

func (s Symbol) IsAvailable() bool {
	return s > _symbol_beg && s < _symbol_end
}

func (s Symbol) String() string {
	switch s {
	case SymbolGBTCJPY:
		return "G_BTCJPY"
	case SymbolGFXBTCJPY:
		return "G_FX_BTCJPY"
	case SymbolBBTCJPY:
		return "B_BTCJPY"
	case SymbolBFXBTCJPY:
		return "B_FX_BTCJPY"
	default:
		return "UNKNOWN"
	}
}

// ParseSymbol maps a wire symbol string to its enum value.
func ParseSymbol(s string) Symbol {
	switch s {
	case "G_BTCJPY":
		return SymbolGBTCJPY
	case "G_FX_BTCJPY":
		return SymbolGFXBTCJPY
	case "B_BTCJPY":
		return SymbolBBTCJPY
	case "B_FX_BTCJPY":
		return SymbolBFXBTCJPY
	default:
		return _symbol_beg
	}
}

// Symbols returns every symbol the venue serves, in display order.
func Symbols() []Symbol {
	return []Symbol{
		SymbolGBTCJPY,
		SymbolGFXBTCJPY,
		SymbolBBTCJPY,
		SymbolBFXBTCJPY,
	}
}
