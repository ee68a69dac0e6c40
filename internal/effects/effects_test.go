package effects_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestOutbox(t *testing.T) {
	var outbox effects.Outbox
	assert.True(t, outbox.Empty())

	outbox.AddEvent(domain.LedgerEvent{Type: domain.EventTypeMint})
	outbox.AddPayment(domain.PaymentInstruction{Payee: "alice"})

	assert.False(t, outbox.Empty())
	assert.Len(t, outbox.Events(), 1)
	assert.Len(t, outbox.Payments(), 1)
}

func TestDispatcher_PublishesEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	payments := mocks.NewMockPaymentSender(ctrl)

	var mu sync.Mutex
	var eventIDs []string
	var paymentIDs []string

	notifier.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.LedgerEvent) error {
			mu.Lock()
			defer mu.Unlock()
			eventIDs = append(eventIDs, event.ID)
			return nil
		}).
		Times(2)
	payments.EXPECT().
		SendPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payment *domain.PaymentInstruction) error {
			mu.Lock()
			defer mu.Unlock()
			paymentIDs = append(paymentIDs, payment.ID)
			return nil
		})

	dispatcher := effects.NewDispatcher(effects.Config{}, notifier, payments)

	var outbox effects.Outbox
	outbox.AddEvent(domain.LedgerEvent{Type: domain.EventTypeMint})
	outbox.AddEvent(domain.LedgerEvent{Type: domain.EventTypeTransfer})
	outbox.AddPayment(domain.PaymentInstruction{Payee: "partnerone"})

	dispatcher.Dispatch(context.Background(), &outbox)
	dispatcher.StopAndWait()

	require.Len(t, eventIDs, 2)
	require.Len(t, paymentIDs, 1)
	assert.NotEmpty(t, eventIDs[0])
	assert.NotEmpty(t, eventIDs[1])
	assert.NotEqual(t, eventIDs[0], eventIDs[1])
	assert.NotEmpty(t, paymentIDs[0])
}

func TestDispatcher_RetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	payments := mocks.NewMockPaymentSender(ctrl)

	gomock.InOrder(
		notifier.EXPECT().
			PublishEvent(gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset")),
		notifier.EXPECT().
			PublishEvent(gomock.Any(), gomock.Any()).
			Return(nil),
	)

	dispatcher := effects.NewDispatcher(effects.Config{MaxElapsedTime: 5 * time.Second}, notifier, payments)

	var outbox effects.Outbox
	outbox.AddEvent(domain.LedgerEvent{Type: domain.EventTypeSale})

	dispatcher.Dispatch(context.Background(), &outbox)
	dispatcher.StopAndWait()
}

func TestDispatcher_SurvivesRequestCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	payments := mocks.NewMockPaymentSender(ctrl)

	// Both collaborators honor cancellation the way the JetStream publisher
	// does. They must still see live contexts after the request ends.
	notifier.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.LedgerEvent) error {
			assert.NoError(t, ctx.Err())
			return nil
		})
	payments.EXPECT().
		SendPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.PaymentInstruction) error {
			assert.NoError(t, ctx.Err())
			return nil
		})

	dispatcher := effects.NewDispatcher(effects.Config{MaxElapsedTime: 5 * time.Second}, notifier, payments)

	var outbox effects.Outbox
	outbox.AddEvent(domain.LedgerEvent{Type: domain.EventTypeSale})
	outbox.AddPayment(domain.PaymentInstruction{Payee: "partnerone"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher.Dispatch(ctx, &outbox)
	dispatcher.StopAndWait()
}

func TestDispatcher_GivesUpAfterMaxElapsedTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	payments := mocks.NewMockPaymentSender(ctrl)

	payments.EXPECT().
		SendPayment(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable")).
		MinTimes(1)

	dispatcher := effects.NewDispatcher(effects.Config{MaxElapsedTime: 100 * time.Millisecond}, notifier, payments)

	var outbox effects.Outbox
	outbox.AddPayment(domain.PaymentInstruction{Payee: "alice"})

	dispatcher.Dispatch(context.Background(), &outbox)
	dispatcher.StopAndWait()
}

func TestDispatcher_EmptyOutboxDispatchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	payments := mocks.NewMockPaymentSender(ctrl)

	dispatcher := effects.NewDispatcher(effects.Config{}, notifier, payments)
	dispatcher.Dispatch(context.Background(), &effects.Outbox{})
	dispatcher.StopAndWait()
}
