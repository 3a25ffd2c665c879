package executions

import (
	"sync"
	"time"

	"main/internal/adapter"
	"main/internal/adapter/enum"
)

// Entry is one cached execution page.
type Entry struct {
	Records   []adapter.ExecutionRecord
	Synthetic bool
	FetchedAt time.Time
}

// Cache holds the newest execution page per ledger and symbol. Pages
// are trimmed to the configured size so a prepend can never grow the
// view past one page.
type Cache struct {
	mu       sync.RWMutex
	pageSize int
	ledgers  map[enum.LedgerKind]map[adapter.Symbol]*Entry
}

func NewCache(pageSize int) *Cache {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Cache{
		pageSize: pageSize,
		ledgers: map[enum.LedgerKind]map[adapter.Symbol]*Entry{
			enum.LedgerKindOwn:       make(map[adapter.Symbol]*Entry),
			enum.LedgerKindAllMarket: make(map[adapter.Symbol]*Entry),
		},
	}
}

// PageSize returns the page trim limit.
func (c *Cache) PageSize() int {
	return c.pageSize
}

func (c *Cache) entry(kind enum.LedgerKind, symbol adapter.Symbol) *Entry {
	symbols, ok := c.ledgers[kind]
	if !ok {
		symbols = make(map[adapter.Symbol]*Entry)
		c.ledgers[kind] = symbols
	}
	entry, ok := symbols[symbol]
	if !ok {
		entry = &Entry{}
		symbols[symbol] = entry
	}
	return entry
}

// Read returns a copy of the cached page, and whether one exists.
func (c *Cache) Read(kind enum.LedgerKind, symbol adapter.Symbol) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	symbols, ok := c.ledgers[kind]
	if !ok {
		return Entry{}, false
	}
	entry, ok := symbols[symbol]
	if !ok || entry.FetchedAt.IsZero() {
		return Entry{}, false
	}

	copied := Entry{
		Records:   make([]adapter.ExecutionRecord, len(entry.Records)),
		Synthetic: entry.Synthetic,
		FetchedAt: entry.FetchedAt,
	}
	copy(copied.Records, entry.Records)
	return copied, true
}

// Populated reports whether any symbol of the ledger has been fetched.
func (c *Cache) Populated(kind enum.LedgerKind) bool {
	if c == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.ledgers[kind] {
		if !entry.FetchedAt.IsZero() {
			return true
		}
	}
	return false
}

// StorePage replaces the cached page with a live fetch.
func (c *Cache) StorePage(kind enum.LedgerKind, symbol adapter.Symbol, records []adapter.ExecutionRecord) {
	c.store(kind, symbol, records, false)
}

// StoreSynthetic replaces the cached page with placeholder records.
func (c *Cache) StoreSynthetic(kind enum.LedgerKind, symbol adapter.Symbol, records []adapter.ExecutionRecord) {
	c.store(kind, symbol, records, true)
}

func (c *Cache) store(kind enum.LedgerKind, symbol adapter.Symbol, records []adapter.ExecutionRecord, synthetic bool) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(records) > c.pageSize {
		records = records[:c.pageSize]
	}
	entry := c.entry(kind, symbol)
	entry.Records = make([]adapter.ExecutionRecord, len(records))
	copy(entry.Records, records)
	entry.Synthetic = synthetic
	entry.FetchedAt = time.Now()
}

// Prepend pushes a record to the front of the page, trimming the tail.
func (c *Cache) Prepend(kind enum.LedgerKind, symbol adapter.Symbol, record adapter.ExecutionRecord) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entry(kind, symbol)
	records := make([]adapter.ExecutionRecord, 0, len(entry.Records)+1)
	records = append(records, record)
	records = append(records, entry.Records...)
	if len(records) > c.pageSize {
		records = records[:c.pageSize]
	}
	entry.Records = records
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}
}
