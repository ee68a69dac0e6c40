// Package bridge consumes inbound settlement-asset payments from JetStream
// and feeds them to the marketplace buy path. It is the inbound half of the
// payment collaborator; the outbound half lives in providers/jetstream.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/goodslab/goods-ledger/internal/adapter"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/logger"
)

// Config holds the configuration for the settlement bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	// LedgerAccount scopes the consumed subject to payments addressed here
	LedgerAccount domain.Account
}

// Buyer settles an inbound payment against a live listing.
//
//go:generate mockgen -source=bridge.go -destination=../mocks/bridge.go -package=mocks -mock_names=Buyer=MockBuyer
type Buyer interface {
	Buy(ctx context.Context, payer, payee domain.Account, paid domain.Quantity, memo string) error
}

// Bridge defines the interface for the settlement bridge
type Bridge interface {
	// Run starts the settlement bridge
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	buyer  Buyer
	json   adapter.JSON
	config Config
}

// NewBridge creates a new settlement bridge
func NewBridge(cfg Config, natsJS adapter.NatsJetStream, buyer Buyer, jsonAdapter adapter.JSON) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:     nc,
		js:     js,
		buyer:  buyer,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts the settlement bridge
func (b *bridge) Run(ctx context.Context) error {
	subject := fmt.Sprintf("settlement.payments.%s", b.config.LedgerAccount)
	logger.Info("Starting settlement bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName),
		zap.String("subject", subject))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: subject,
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming settlement payments")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down settlement bridge")
			return ctx.Err()
		case msg := <-msgChan:
			b.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes a single inbound payment message. Payments that can
// never settle (malformed, dead listing, wrong amount) are terminated rather
// than redelivered; transient failures are redelivered up to MaxDeliver.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var payment domain.InboundPayment
	if err := b.json.Unmarshal(msg.Data(), &payment); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal inbound payment"))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	paid, err := domain.ParseQuantityWithPrecision(payment.Amount, domain.SettlementPrecision)
	if err != nil {
		logger.Error(err,
			zap.String("message", "Invalid payment amount"),
			zap.String("amount", payment.Amount))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	logger.InfoCtx(ctx, "Received settlement payment",
		zap.String("payer", payment.Payer.String()),
		zap.String("payee", payment.Payee.String()),
		zap.String("amount", paid.String()),
		zap.String("memo", payment.Memo))

	if err := b.buyer.Buy(ctx, payment.Payer, payment.Payee, paid, payment.Memo); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("memo", payment.Memo))
		if terminal(err) {
			if err := msg.Term(); err != nil {
				logger.Error(err, zap.String("message", "Failed to terminate message"))
			}
		} else {
			if err := msg.Nak(); err != nil {
				logger.Error(err, zap.String("message", "Failed to nak message"))
			}
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ack message"))
	}
}

// terminal reports whether a buy failure can never succeed on redelivery.
func terminal(err error) bool {
	for _, sentinel := range []error{
		domain.ErrInvalidSaleMemo,
		domain.ErrAccountNotFound,
		domain.ErrNotListed,
		domain.ErrSaleExpired,
		domain.ErrWrongPayment,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Close closes the NATS connection
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
