package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/goodslab/goods-ledger/internal/adapter"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

// PaymentsSubject is the subject outbound payment instructions are published on.
const PaymentsSubject = "ledger.payments.outbound"

type publisher struct {
	nc   adapter.NatsConn
	js   adapter.JetStream
	json adapter.JSON
}

// NewPublisher creates a NATS JetStream publisher serving both the notifier
// and the payment sender collaborator contracts.
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (*Publisher, error) {
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

	return &Publisher{publisher{
		nc:   nc,
		js:   js,
		json: jsonAdapter,
	}}, nil
}

// Publisher implements messaging.Notifier and messaging.PaymentSender over
// one JetStream connection.
type Publisher struct {
	publisher
}

var _ messaging.Notifier = (*Publisher)(nil)
var _ messaging.PaymentSender = (*Publisher)(nil)

// PublishEvent publishes a ledger event to NATS JetStream
func (p *Publisher) PublishEvent(ctx context.Context, event *domain.LedgerEvent) error {
	logger.Debug("Publishing ledger event", zap.Any("event", event))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("ledger.events.%s", event.Type)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// SendPayment publishes an outbound payment instruction to NATS JetStream
func (p *Publisher) SendPayment(ctx context.Context, payment *domain.PaymentInstruction) error {
	logger.Debug("Publishing outbound payment", zap.Any("payment", payment))

	data, err := p.json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	if _, err := p.js.Publish(ctx, PaymentsSubject, data); err != nil {
		return fmt.Errorf("failed to publish payment: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
