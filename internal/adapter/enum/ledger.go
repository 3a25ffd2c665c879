package enum

// LedgerKind own fills, all market fills
type LedgerKind uint8

const (
	_ledger_kind_beg LedgerKind = iota
	LedgerKindOwn
	LedgerKindAllMarket
	_ledger_kind_end
)

func (k LedgerKind) IsAvailable() bool {
	return k > _ledger_kind_beg && k < _ledger_kind_end
}

func (k LedgerKind) String() string {
	switch k {
	case LedgerKindOwn:
		return "own"
	case LedgerKindAllMarket:
		return "all-market"
	default:
		return "unknown"
	}
}
