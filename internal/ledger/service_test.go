package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/ledger"
)

func TestService_Setup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cfg, err := f.store.GetConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "EUR", cfg.Symbol)
	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, ledger.DefaultMinListPrice, cfg.MinListPriceAmount)

	// Counters and the price floor survive a repeated call.
	_, err = f.svc.CreateType(ctx, issuer, nftParams())
	require.NoError(t, err)
	before, err := f.store.GetConfig(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Setup(ctx, "USD", "1.1"))
	after, err := f.store.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", after.Symbol)
	assert.Equal(t, "1.1", after.Version)
	assert.Equal(t, before.NextTypeID, after.NextTypeID)
	assert.Equal(t, before.NextItemID, after.NextItemID)
	assert.Equal(t, before.MinListPriceAmount, after.MinListPriceAmount)
}

func TestService_Setup_InvalidSymbol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, symbol := range []string{"", "eur", "TOOLONGX", "EU1"} {
		assert.ErrorIs(t, f.svc.Setup(ctx, symbol, "1.0"), domain.ErrInvalidSymbol)
	}
}
