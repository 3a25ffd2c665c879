package journal

import (
	"context"
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/adapter"
)

// Origin values recorded with each row.
const (
	OriginLive      = "live"
	OriginSynthetic = "synthetic"
)

// ExecutionRow is the persisted form of one execution record.
type ExecutionRow struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	ExecID       string `gorm:"index"`
	OrderID      string
	Symbol       string `gorm:"index"`
	Side         string
	LastQty      int64
	LastPx       int64
	CumQty       int64
	AvgPx        int64
	Status       string
	Origin       string
	TransactTime time.Time
	RecordedAt   time.Time
}

func (ExecutionRow) TableName() string {
	return "execution_journal"
}

// Journal persists executions for post-session audit. A nil journal is
// a no-op so callers never need to branch on whether persistence is
// configured.
type Journal struct {
	db *gorm.DB
}

// New migrates the journal table and returns a ready journal.
func New(db *gorm.DB) (*Journal, error) {
	if err := db.AutoMigrate(&ExecutionRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate execution journal")
	}
	return &Journal{db: db}, nil
}

// Append writes one execution row.
func (j *Journal) Append(ctx context.Context, record adapter.ExecutionRecord, origin string) error {
	if j == nil {
		return nil
	}

	row := ExecutionRow{
		ExecID:       record.ExecID,
		OrderID:      record.OrderID,
		Symbol:       record.Symbol.String(),
		Side:         record.Side.String(),
		LastQty:      int64(record.LastQty),
		LastPx:       int64(record.LastPx),
		CumQty:       int64(record.CumQty),
		AvgPx:        int64(record.AvgPx),
		Status:       record.Status,
		Origin:       origin,
		TransactTime: record.TransactTime,
		RecordedAt:   time.Now(),
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(err, "append execution: %s", record.ExecID)
	}
	return nil
}

// Recent returns the newest rows, capped by limit.
func (j *Journal) Recent(ctx context.Context, limit int) ([]ExecutionRow, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	var rows []ExecutionRow
	if err := j.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query execution journal")
	}
	return rows, nil
}
