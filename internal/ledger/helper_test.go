package ledger_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/goodslab/goods-ledger/internal/accounts"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/ledger"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/mocks"
	"github.com/goodslab/goods-ledger/internal/store"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	issuer  = domain.Account("issuer")
	partner = domain.Account("partner")
	alice   = domain.Account("alice")
	bob     = domain.Account("bob")
)

// fixture wires the service against the in-memory store with a controllable
// clock and a sink that records every dispatched outbox.
type fixture struct {
	svc      *ledger.Service
	store    store.Store
	registry accounts.Registry
	now      time.Time
	outboxes []*effects.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		store: store.NewMemoryStore(),
		now:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	f.registry = accounts.NewStoreRegistry(f.store)

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().DoAndReturn(func() time.Time { return f.now }).AnyTimes()

	sink := mocks.NewMockSink(ctrl)
	sink.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, outbox *effects.Outbox) {
			f.outboxes = append(f.outboxes, outbox)
		}).
		AnyTimes()

	f.svc = ledger.NewService(f.store, f.registry, clock, sink)

	ctx := context.Background()
	require.NoError(t, f.svc.Setup(ctx, "EUR", "1.0"))
	for _, account := range []domain.Account{issuer, partner, alice, bob} {
		require.NoError(t, f.registry.Provision(ctx, account))
	}
	return f
}

// lastEvents returns the events of the most recently dispatched outbox.
func (f *fixture) lastEvents(t *testing.T) []domain.LedgerEvent {
	t.Helper()
	require.NotEmpty(t, f.outboxes)
	return f.outboxes[len(f.outboxes)-1].Events()
}

func nftParams() ledger.CreateTypeParams {
	return ledger.CreateTypeParams{
		Issuer:          issuer,
		RevenuePartner:  partner,
		Category:        "art",
		TokenName:       "sword",
		Burnable:        true,
		Sellable:        true,
		Transferable:    true,
		RevenueSplitBps: 500,
		MaxSupply:       domain.Quantity{Amount: 1000, Precision: 0},
	}
}

func ftParams() ledger.CreateTypeParams {
	return ledger.CreateTypeParams{
		Issuer:          issuer,
		RevenuePartner:  partner,
		Category:        "currency",
		TokenName:       "gold",
		Fungible:        true,
		Burnable:        true,
		Transferable:    true,
		MaxSupply:       domain.Quantity{Amount: 1_000_000, Precision: 2},
	}
}
