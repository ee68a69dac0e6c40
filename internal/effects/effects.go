// Package effects collects the fire-and-forget side effects of a ledger call
// (notification events, outbound payments) and dispatches them only after the
// enclosing unit of work has committed. A failed call never emits anything.
package effects

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/messaging"
)

// Outbox accumulates the effects scheduled during one call.
type Outbox struct {
	events   []domain.LedgerEvent
	payments []domain.PaymentInstruction
}

// AddEvent schedules a notification event.
func (o *Outbox) AddEvent(event domain.LedgerEvent) {
	o.events = append(o.events, event)
}

// AddPayment schedules an outbound payment.
func (o *Outbox) AddPayment(payment domain.PaymentInstruction) {
	o.payments = append(o.payments, payment)
}

// Events returns the scheduled notification events.
func (o *Outbox) Events() []domain.LedgerEvent {
	return o.events
}

// Payments returns the scheduled outbound payments.
func (o *Outbox) Payments() []domain.PaymentInstruction {
	return o.payments
}

// Empty reports whether the outbox holds no effects.
func (o *Outbox) Empty() bool {
	return len(o.events) == 0 && len(o.payments) == 0
}

// Sink receives a committed call's outbox.
//
//go:generate mockgen -source=effects.go -destination=../mocks/effects.go -package=mocks -mock_names=Sink=MockSink
type Sink interface {
	Dispatch(ctx context.Context, outbox *Outbox)
}

// Config holds dispatcher tuning.
type Config struct {
	PoolSize       int
	MaxElapsedTime time.Duration
}

// Dispatcher fans the outbox out to the notifier and payment sender on a
// worker pool, retrying transient publish failures with exponential backoff.
type Dispatcher struct {
	pool       pond.Pool
	notifier   messaging.Notifier
	payments   messaging.PaymentSender
	maxElapsed time.Duration
}

// NewDispatcher creates a dispatcher backed by a pond worker pool.
func NewDispatcher(cfg Config, notifier messaging.Notifier, payments messaging.PaymentSender) *Dispatcher {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}
	maxElapsed := cfg.MaxElapsedTime
	if maxElapsed == 0 {
		maxElapsed = 30 * time.Second
	}
	return &Dispatcher{
		pool:       pond.NewPool(poolSize),
		notifier:   notifier,
		payments:   payments,
		maxElapsed: maxElapsed,
	}
}

// Dispatch hands every effect in the outbox to the worker pool. IDs are
// assigned here so retries stay idempotent downstream. The caller's context
// is detached first: the outbox belongs to a committed call, so its effects
// must outlive the request that produced them.
func (d *Dispatcher) Dispatch(ctx context.Context, outbox *Outbox) {
	ctx = context.WithoutCancel(ctx)
	for _, event := range outbox.events {
		event := event
		event.ID = ulid.Make().String()
		d.pool.Submit(func() {
			if err := d.publishWithRetry(ctx, func() error {
				return d.notifier.PublishEvent(ctx, &event)
			}); err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)))
			}
		})
	}

	for _, payment := range outbox.payments {
		payment := payment
		payment.ID = ulid.Make().String()
		d.pool.Submit(func() {
			if err := d.publishWithRetry(ctx, func() error {
				return d.payments.SendPayment(ctx, &payment)
			}); err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("payment_id", payment.ID),
					zap.String("payee", payment.Payee.String()))
			}
		})
	}
}

func (d *Dispatcher) publishWithRetry(ctx context.Context, publish func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = d.maxElapsed
	return backoff.Retry(publish, backoff.WithContext(policy, ctx))
}

// StopAndWait drains the worker pool.
func (d *Dispatcher) StopAndWait() {
	d.pool.StopAndWait()
}
