package messaging

import (
	"context"

	"github.com/goodslab/goods-ledger/internal/domain"
)

// Notifier publishes ledger notification events so external watchers can
// react to committed calls.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/messaging.go -package=mocks -mock_names=Notifier=MockNotifier,PaymentSender=MockPaymentSender
type Notifier interface {
	// PublishEvent publishes a ledger event to the message broker
	PublishEvent(ctx context.Context, event *domain.LedgerEvent) error
	// Close closes the connection
	Close()
}

// PaymentSender schedules outbound settlement-asset transfers to another
// ledger. Used only by the marketplace fee distribution.
type PaymentSender interface {
	// SendPayment publishes an outbound payment instruction
	SendPayment(ctx context.Context, payment *domain.PaymentInstruction) error
	// Close closes the connection
	Close()
}
