package bridge_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodslab/goods-ledger/internal/adapter"
	"github.com/goodslab/goods-ledger/internal/bridge"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testBridgeMocks contains all the mocks needed for testing the bridge
type testBridgeMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mocks.MockNatsJetStream
	natsConn  *mocks.MockNatsConn
	jetStream *mocks.MockJetStream
	buyer     *mocks.MockBuyer
}

func setupTestBridge(t *testing.T) *testBridgeMocks {
	ctrl := gomock.NewController(t)

	return &testBridgeMocks{
		ctrl:      ctrl,
		natsJS:    mocks.NewMockNatsJetStream(ctrl),
		natsConn:  mocks.NewMockNatsConn(ctrl),
		jetStream: mocks.NewMockJetStream(ctrl),
		buyer:     mocks.NewMockBuyer(ctrl),
	}
}

func testConfig() bridge.Config {
	return bridge.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "SETTLEMENT_PAYMENTS",
		ConsumerName:   "settlement-bridge",
		MaxReconnects:  10,
		ReconnectWait:  1 * time.Second,
		ConnectionName: "test-bridge",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     3,
		LedgerAccount:  "goodsledger",
	}
}

func TestBridge_NewBridge_Success(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	tm.natsJS.
		EXPECT().
		Connect(testConfig().URL, gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	b, err := bridge.NewBridge(testConfig(), tm.natsJS, tm.buyer, adapter.NewJSON())
	assert.NoError(t, err)
	assert.NotNil(t, b)
}

func TestBridge_NewBridge_ConnectError(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	tm.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	b, err := bridge.NewBridge(testConfig(), tm.natsJS, tm.buyer, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestBridge_Run_CreateConsumerError(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	config := testConfig()

	tm.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	b, err := bridge.NewBridge(config, tm.natsJS, tm.buyer, adapter.NewJSON())
	require.NoError(t, err)

	tm.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			config.StreamName,
			jetstream.ConsumerConfig{
				Durable:       config.ConsumerName,
				AckPolicy:     jetstream.AckExplicitPolicy,
				AckWait:       config.AckWaitTimeout,
				MaxDeliver:    config.MaxDeliver,
				FilterSubject: "settlement.payments.goodsledger",
			}).
		Return(nil, assert.AnError)

	err = b.Run(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

// runBridge starts the bridge with a consumer whose handler is captured, so
// tests can push messages as if they arrived from JetStream.
func runBridge(t *testing.T, tm *testBridgeMocks) (deliver adapter.MessageHandler, stop func()) {
	t.Helper()

	tm.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	b, err := bridge.NewBridge(testConfig(), tm.natsJS, tm.buyer, adapter.NewJSON())
	require.NoError(t, err)

	handlerCh := make(chan adapter.MessageHandler, 1)
	consumeCtx := mocks.NewMockConsumeContext(tm.ctrl)
	consumeCtx.EXPECT().Stop().AnyTimes()

	consumer := mocks.NewMockNatsConsumer(tm.ctrl)
	consumer.
		EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlerCh <- handler
			return consumeCtx, nil
		})

	tm.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(consumer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	handler := <-handlerCh
	stop = func() {
		cancel()
		err := <-done
		assert.ErrorIs(t, err, context.Canceled)
	}
	return handler, stop
}

// ackWaiter returns a gomock Do hook and a wait function that blocks until
// the hook fired.
func ackWaiter() (func() error, func(t *testing.T)) {
	ch := make(chan struct{})
	fire := func() error {
		close(ch)
		return nil
	}
	wait := func(t *testing.T) {
		t.Helper()
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("message was never resolved")
		}
	}
	return fire, wait
}

func TestBridge_Run_SettlesPayment(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	deliver, stop := runBridge(t, tm)
	defer stop()

	tm.buyer.
		EXPECT().
		Buy(gomock.Any(), domain.Account("alice"), domain.Account("goodsledger"),
			domain.Quantity{Amount: 50000, Precision: domain.SettlementPrecision}, "3,alice").
		Return(nil)

	fire, wait := ackWaiter()
	msg := mocks.NewMockJetStreamMessage(tm.ctrl)
	msg.EXPECT().Data().Return([]byte(`{"payer":"alice","payee":"goodsledger","amount":"5.0000","memo":"3,alice"}`)).AnyTimes()
	msg.EXPECT().Ack().DoAndReturn(fire)

	deliver(msg)
	wait(t)
}

func TestBridge_Run_TerminatesUnparsableMessage(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	deliver, stop := runBridge(t, tm)
	defer stop()

	fire, wait := ackWaiter()
	msg := mocks.NewMockJetStreamMessage(tm.ctrl)
	msg.EXPECT().Data().Return([]byte(`not json`)).AnyTimes()
	msg.EXPECT().Term().DoAndReturn(fire)

	deliver(msg)
	wait(t)
}

func TestBridge_Run_TerminatesInvalidAmount(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	deliver, stop := runBridge(t, tm)
	defer stop()

	fire, wait := ackWaiter()
	msg := mocks.NewMockJetStreamMessage(tm.ctrl)
	msg.EXPECT().Data().Return([]byte(`{"payer":"alice","payee":"goodsledger","amount":"-5","memo":"3,alice"}`)).AnyTimes()
	msg.EXPECT().Term().DoAndReturn(fire)

	deliver(msg)
	wait(t)
}

func TestBridge_Run_TerminalBuyErrorsAreNotRedelivered(t *testing.T) {
	terminalErrors := []error{
		domain.ErrInvalidSaleMemo,
		domain.ErrAccountNotFound,
		domain.ErrNotListed,
		domain.ErrSaleExpired,
		domain.ErrWrongPayment,
	}

	for _, terminalErr := range terminalErrors {
		t.Run(terminalErr.Error(), func(t *testing.T) {
			tm := setupTestBridge(t)
			defer tm.ctrl.Finish()

			deliver, stop := runBridge(t, tm)
			defer stop()

			tm.buyer.
				EXPECT().
				Buy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(terminalErr)

			fire, wait := ackWaiter()
			msg := mocks.NewMockJetStreamMessage(tm.ctrl)
			msg.EXPECT().Data().Return([]byte(`{"payer":"alice","payee":"goodsledger","amount":"5.0000","memo":"3,alice"}`)).AnyTimes()
			msg.EXPECT().Term().DoAndReturn(fire)

			deliver(msg)
			wait(t)
		})
	}
}

func TestBridge_Run_TransientBuyErrorIsRedelivered(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	deliver, stop := runBridge(t, tm)
	defer stop()

	tm.buyer.
		EXPECT().
		Buy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))

	fire, wait := ackWaiter()
	msg := mocks.NewMockJetStreamMessage(tm.ctrl)
	msg.EXPECT().Data().Return([]byte(`{"payer":"alice","payee":"goodsledger","amount":"5.0000","memo":"3,alice"}`)).AnyTimes()
	msg.EXPECT().Nak().DoAndReturn(fire)

	deliver(msg)
	wait(t)
}

func TestBridge_Close(t *testing.T) {
	tm := setupTestBridge(t)
	defer tm.ctrl.Finish()

	tm.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)
	tm.natsConn.EXPECT().Close()

	b, err := bridge.NewBridge(testConfig(), tm.natsJS, tm.buyer, adapter.NewJSON())
	require.NoError(t, err)

	b.Close()
}
