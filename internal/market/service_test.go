package market_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodslab/goods-ledger/internal/domain"
)

func TestService_ListForSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 500, 3)

	listing, err := f.market.ListForSale(ctx, seller, ids, 0, settlement(50000))
	require.NoError(t, err)
	assert.Equal(t, ids[0], listing.BatchID)
	assert.Equal(t, seller.String(), listing.Seller)
	assert.Equal(t, uint64(50000), listing.PriceAmount)
	assert.Nil(t, listing.ExpiresAt)

	// Ownership stays with the seller; only lock rows appear.
	for _, id := range ids {
		item, err := f.store.GetItem(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, seller.String(), item.Owner)
		lock, err := f.store.GetLock(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, lock)
	}
}

func TestService_ListForSale_WithExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 0, 1)

	listing, err := f.market.ListForSale(ctx, seller, ids, 7, settlement(50000))
	require.NoError(t, err)
	require.NotNil(t, listing.ExpiresAt)
	assert.Equal(t, f.now.Add(7*24*time.Hour), *listing.ExpiresAt)
}

func TestService_ListForSale_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 500, 2)

	tests := []struct {
		name          string
		run           func() error
		expectedError error
	}{
		{
			name: "empty batch",
			run: func() error {
				_, err := f.market.ListForSale(ctx, seller, nil, 0, settlement(50000))
				return err
			},
			expectedError: domain.ErrBatchTooLarge,
		},
		{
			name: "batch over the cap",
			run: func() error {
				_, err := f.market.ListForSale(ctx, seller, make([]uint64, domain.MaxBatchSize+1), 0, settlement(50000))
				return err
			},
			expectedError: domain.ErrBatchTooLarge,
		},
		{
			name: "price not at settlement precision",
			run: func() error {
				_, err := f.market.ListForSale(ctx, seller, ids, 0, domain.Quantity{Amount: 50000, Precision: 2})
				return err
			},
			expectedError: domain.ErrPrecisionMismatch,
		},
		{
			name: "price below the configured floor",
			run: func() error {
				_, err := f.market.ListForSale(ctx, seller, ids, 0, settlement(9999))
				return err
			},
			expectedError: domain.ErrBelowMinimumPrice,
		},
		{
			name: "unknown item",
			run: func() error {
				_, err := f.market.ListForSale(ctx, seller, []uint64{9999}, 0, settlement(50000))
				return err
			},
			expectedError: domain.ErrItemNotFound,
		},
		{
			name: "caller does not own the items",
			run: func() error {
				_, err := f.market.ListForSale(ctx, buyer, ids, 0, settlement(50000))
				return err
			},
			expectedError: domain.ErrNotOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.expectedError)
		})
	}
}

func TestService_ListForSale_NotSellable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.CreateType(ctx, issuer, nonSellableParams("relic"))
	require.NoError(t, err)
	require.NoError(t, f.ledger.Issue(ctx, issuer, seller, "art", "relic",
		domain.Quantity{Amount: 1, Precision: 0}, "", ""))
	items, err := f.store.GetItemsByOwner(ctx, seller.String())
	require.NoError(t, err)

	_, err = f.market.ListForSale(ctx, seller, []uint64{items[0].ID}, 0, settlement(50000))
	assert.ErrorIs(t, err, domain.ErrNotSellable)
}

func TestService_ListForSale_AlreadyListed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 500, 2)

	_, err := f.market.ListForSale(ctx, seller, ids[:1], 0, settlement(50000))
	require.NoError(t, err)

	// Overlapping batch hits the lock of the first listing.
	_, err = f.market.ListForSale(ctx, seller, ids, 0, settlement(60000))
	assert.ErrorIs(t, err, domain.ErrItemLocked)

	// A failed listing call leaves no stray locks behind.
	lock, err := f.store.GetLock(ctx, ids[1])
	require.NoError(t, err)
	assert.Nil(t, lock)
}

func TestService_CloseSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 500, 2)
	listing, err := f.market.ListForSale(ctx, seller, ids, 0, settlement(50000))
	require.NoError(t, err)

	// A live listing is seller-only.
	err = f.market.CloseSale(ctx, buyer, listing.BatchID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, f.market.CloseSale(ctx, seller, listing.BatchID))

	stored, err := f.store.GetListing(ctx, listing.BatchID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	for _, id := range ids {
		lock, err := f.store.GetLock(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, lock)
	}

	// Unlocked items transfer again.
	require.NoError(t, f.ledger.TransferNFT(ctx, seller, buyer, ids, ""))
}

func TestService_CloseSale_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 500, 1)
	listing, err := f.market.ListForSale(ctx, seller, ids, 1, settlement(50000))
	require.NoError(t, err)

	// Still live, so still seller-only.
	assert.ErrorIs(t, f.market.CloseSale(ctx, buyer, listing.BatchID), domain.ErrUnauthorized)

	// Once expired, anyone can reclaim it.
	f.now = f.now.Add(2 * 24 * time.Hour)
	require.NoError(t, f.market.CloseSale(ctx, buyer, listing.BatchID))
}

func TestService_CloseSale_NeverExpiringStaysSellerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := f.mintSellable(t, "sword", 500, 1)
	listing, err := f.market.ListForSale(ctx, seller, ids, 0, settlement(50000))
	require.NoError(t, err)

	f.now = f.now.Add(365 * 24 * time.Hour)
	assert.ErrorIs(t, f.market.CloseSale(ctx, buyer, listing.BatchID), domain.ErrUnauthorized)
	require.NoError(t, f.market.CloseSale(ctx, seller, listing.BatchID))
}

func TestService_CloseSale_NotListed(t *testing.T) {
	f := newFixture(t)

	err := f.market.CloseSale(context.Background(), seller, 9999)
	assert.ErrorIs(t, err, domain.ErrNotListed)
}
