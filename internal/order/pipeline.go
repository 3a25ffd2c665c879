package order

import (
	"context"
	"strconv"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/adapter"
	"main/internal/adapter/enum"
	"main/internal/executions"
	"main/internal/fallback"
	"main/internal/journal"
	"main/pkg/exception"
)

const _refetchDelay = 500 * time.Millisecond

// OrderSource submits orders to the venue.
type OrderSource interface {
	PlaceOrder(ctx context.Context, ticket adapter.OrderTicket) (adapter.OrderAck, error)
}

// Recorder persists execution records for audit.
type Recorder interface {
	Append(ctx context.Context, record adapter.ExecutionRecord, origin string) error
}

// Pipeline validates and submits orders, then reconciles the own
// execution ledger: a live fill arrives via a delayed refetch, a
// degraded or failed submission is reflected immediately as a
// synthetic fill so the ledger never goes silent on the user.
type Pipeline struct {
	source   OrderSource
	cache    *executions.Cache
	fb       *fallback.Controller
	recorder Recorder

	refetch  func(ctx context.Context)
	schedule func(d time.Duration, fn func())
	now      func() time.Time
}

func NewPipeline(source OrderSource, cache *executions.Cache, fb *fallback.Controller, recorder Recorder, refetch func(ctx context.Context)) *Pipeline {
	return &Pipeline{
		source:   source,
		cache:    cache,
		fb:       fb,
		recorder: recorder,
		refetch:  refetch,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		now:      time.Now,
	}
}

// Submit validates the ticket and places it. Validation failures
// return synchronously without touching the network.
func (p *Pipeline) Submit(ctx context.Context, ticket adapter.OrderTicket) (adapter.OrderAck, error) {
	if err := validate(ticket); err != nil {
		return adapter.OrderAck{}, err
	}

	// Global honors the force-real override: a forced submission goes
	// to the venue even while symbols sit in the degraded set.
	if p.fb.Global() {
		return p.syntheticFill(ctx, ticket), nil
	}

	ack, err := p.source.PlaceOrder(ctx, ticket)
	if err != nil {
		if errors.Is(err, exception.ErrSessionUnauthorized) {
			return adapter.OrderAck{}, err
		}

		logs.Warnf("place order %s, err: %+v", ticket.Symbol, err)
		p.fb.MarkDegraded(ticket.Symbol)
		return p.syntheticFill(ctx, ticket), nil
	}

	if p.refetch != nil {
		p.schedule(_refetchDelay, func() { p.refetch(context.WithoutCancel(ctx)) })
	}
	return ack, nil
}

func validate(ticket adapter.OrderTicket) error {
	if !ticket.Symbol.IsAvailable() ||
		!ticket.Side.IsAvailable() ||
		!ticket.Type.IsAvailable() ||
		!ticket.TimeInForce.IsAvailable() {
		return errors.Wrapf(exception.ErrOrderInvalidRequest, "symbol: %s, side: %s, type: %s, tif: %s",
			ticket.Symbol, ticket.Side, ticket.Type, ticket.TimeInForce)
	}
	if ticket.Quantity < adapter.MinOrderQuantity {
		return errors.Wrapf(exception.ErrOrderQuantityTooSmall, "quantity: %s, min: %s",
			ticket.Quantity, adapter.MinOrderQuantity)
	}
	if ticket.Type == enum.OrderTypeLimit && ticket.Price <= 0 {
		return errors.Wrapf(exception.ErrOrderInvalidPrice, "price: %s", ticket.Price)
	}
	return nil
}

// syntheticFill fabricates a fully filled execution at the submitted
// price and pushes it onto the own ledger.
func (p *Pipeline) syntheticFill(ctx context.Context, ticket adapter.OrderTicket) adapter.OrderAck {
	now := p.now()
	seq := strconv.FormatInt(now.UnixNano(), 10)
	record := adapter.ExecutionRecord{
		ExecID:       "exec-" + seq,
		OrderID:      "order-" + seq,
		Symbol:       ticket.Symbol,
		Side:         ticket.Side,
		LastQty:      ticket.Quantity,
		LastPx:       ticket.Price,
		CumQty:       ticket.Quantity,
		AvgPx:        ticket.Price,
		Status:       "FILLED",
		TransactTime: now,
	}
	p.cache.Prepend(enum.LedgerKindOwn, ticket.Symbol, record)

	if p.recorder != nil {
		if err := p.recorder.Append(ctx, record, journal.OriginSynthetic); err != nil {
			logs.Warnf("journal synthetic fill, err: %+v", err)
		}
	}

	return adapter.OrderAck{
		OrderID: record.OrderID,
		Status:  record.Status,
		Message: "filled against synthetic data",
	}
}
