package ledger_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodslab/goods-ledger/internal/domain"
)

func TestService_Issue_NFT(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateType(ctx, issuer, nftParams())
	require.NoError(t, err)

	err = f.svc.Issue(ctx, issuer, alice, "art", "sword",
		domain.Quantity{Amount: 3, Precision: 0}, "ipfs://sword", "first drop")
	require.NoError(t, err)

	items, err := f.store.GetItemsByOwner(ctx, alice.String())
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, uint64(i+1), item.SerialNumber)
		assert.Equal(t, alice.String(), item.Owner)
		require.NotNil(t, item.MetadataURI)
		assert.Equal(t, "ipfs://sword", *item.MetadataURI)
	}

	balance, err := f.store.GetBalance(ctx, alice.String(), items[0].TypeID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, uint64(3), balance.Amount)

	def, err := f.store.GetTypeDefinition(ctx, "art", "sword")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), def.CurrentSupplyAmount)
	assert.Equal(t, uint64(3), def.IssuedSupplyAmount)

	events := f.lastEvents(t)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeMint, events[0].Type)
	assert.Len(t, events[0].ItemIDs, 3)
	assert.Equal(t, alice, events[0].To)
}

func TestService_Issue_SerialsContinueAcrossCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateType(ctx, issuer, nftParams())
	require.NoError(t, err)

	require.NoError(t, f.svc.Issue(ctx, issuer, alice, "art", "sword",
		domain.Quantity{Amount: 2, Precision: 0}, "", ""))
	require.NoError(t, f.svc.Issue(ctx, issuer, bob, "art", "sword",
		domain.Quantity{Amount: 2, Precision: 0}, "", ""))

	items, err := f.store.GetItemsByOwner(ctx, bob.String())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(3), items[0].SerialNumber)
	assert.Equal(t, uint64(4), items[1].SerialNumber)
}

func TestService_Issue_FT(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateType(ctx, issuer, ftParams())
	require.NoError(t, err)

	err = f.svc.Issue(ctx, issuer, alice, "currency", "gold",
		domain.Quantity{Amount: 50_000, Precision: 2}, "", "")
	require.NoError(t, err)

	// No items are minted for fungible types.
	items, err := f.store.GetItemsByOwner(ctx, alice.String())
	require.NoError(t, err)
	assert.Empty(t, items)

	balances, err := f.store.GetBalancesByOwner(ctx, alice.String())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, uint64(50_000), balances[0].Amount)
	assert.Equal(t, uint8(2), balances[0].Precision)
}

func TestService_Issue_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateType(ctx, issuer, nftParams())
	require.NoError(t, err)
	_, err = f.svc.CreateType(ctx, issuer, ftParams())
	require.NoError(t, err)

	one := domain.Quantity{Amount: 1, Precision: 0}

	tests := []struct {
		name          string
		run           func() error
		expectedError error
	}{
		{
			name: "unknown type",
			run: func() error {
				return f.svc.Issue(ctx, issuer, alice, "art", "shield", one, "", "")
			},
			expectedError: domain.ErrTypeNotFound,
		},
		{
			name: "caller is not the issuer",
			run: func() error {
				return f.svc.Issue(ctx, alice, alice, "art", "sword", one, "", "")
			},
			expectedError: domain.ErrUnauthorized,
		},
		{
			name: "unknown recipient",
			run: func() error {
				return f.svc.Issue(ctx, issuer, "stranger", "art", "sword", one, "", "")
			},
			expectedError: domain.ErrAccountNotFound,
		},
		{
			name: "memo over the byte cap",
			run: func() error {
				return f.svc.Issue(ctx, issuer, alice, "art", "sword", one, "", strings.Repeat("x", 257))
			},
			expectedError: domain.ErrMemoTooLong,
		},
		{
			name: "fractional quantity for a non-fungible type",
			run: func() error {
				return f.svc.Issue(ctx, issuer, alice, "art", "sword",
					domain.Quantity{Amount: 150, Precision: 2}, "", "")
			},
			expectedError: domain.ErrPrecisionMismatch,
		},
		{
			name: "fungible precision mismatch",
			run: func() error {
				return f.svc.Issue(ctx, issuer, alice, "currency", "gold",
					domain.Quantity{Amount: 5, Precision: 0}, "", "")
			},
			expectedError: domain.ErrPrecisionMismatch,
		},
		{
			name: "mint batch over the cap",
			run: func() error {
				return f.svc.Issue(ctx, issuer, alice, "art", "sword",
					domain.Quantity{Amount: domain.MaxIssueBatch + 1, Precision: 0}, "", "")
			},
			expectedError: domain.ErrBatchTooLarge,
		},
		{
			name: "issuing past the supply cap",
			run: func() error {
				return f.svc.Issue(ctx, issuer, alice, "currency", "gold",
					domain.Quantity{Amount: 1_000_001, Precision: 2}, "", "")
			},
			expectedError: domain.ErrSupplyCapExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.expectedError)
		})
	}
}

func TestService_Issue_WindowClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := nftParams()
	params.MaxSupply = domain.Quantity{}
	params.IssueWindowDays = 1
	_, err := f.svc.CreateType(ctx, issuer, params)
	require.NoError(t, err)

	require.NoError(t, f.svc.Issue(ctx, issuer, alice, "art", "sword",
		domain.Quantity{Amount: 1, Precision: 0}, "", ""))

	f.now = f.now.Add(2 * 24 * time.Hour)
	err = f.svc.Issue(ctx, issuer, alice, "art", "sword",
		domain.Quantity{Amount: 1, Precision: 0}, "", "")
	assert.ErrorIs(t, err, domain.ErrIssueWindowClosed)
}
