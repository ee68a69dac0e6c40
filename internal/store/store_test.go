package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestDefinition creates a test token definition
func buildTestDefinition(typeID uint64, category, tokenName string) *schema.TokenDefinition {
	return &schema.TokenDefinition{
		TypeID:          typeID,
		Category:        category,
		TokenName:       tokenName,
		Issuer:          "gallerista",
		RevenuePartner:  "gallerista",
		RevenueSplitBps: 500,
		Fungible:        false,
		Burnable:        true,
		Sellable:        true,
		Transferable:    true,
		MaxSupplyAmount: 100,
		Precision:       0,
	}
}

// buildTestItem creates a test item owned by the given account
func buildTestItem(itemID, typeID, serial uint64, owner string) *schema.Item {
	return &schema.Item{
		ID:           itemID,
		SerialNumber: serial,
		Owner:        owner,
		Category:     "art",
		TokenName:    "painting",
		TypeID:       typeID,
	}
}

// buildTestBalance creates a test balance row
func buildTestBalance(owner string, typeID, amount uint64) *schema.Balance {
	return &schema.Balance{
		Owner:     owner,
		TypeID:    typeID,
		Category:  "art",
		TokenName: "painting",
		Amount:    amount,
		Precision: 0,
	}
}

// buildTestListing creates a test listing over the given item ids
func buildTestListing(batchID uint64, seller string, itemIDs []uint64) *schema.Listing {
	return &schema.Listing{
		BatchID:        batchID,
		ItemIDs:        datatypes.JSONSlice[uint64](itemIDs),
		Seller:         seller,
		PriceAmount:    250000,
		PricePrecision: 4,
	}
}

// write runs a mutation as one unit of work and fails the test on error
func write(t *testing.T, store Store, fn func(tx Tx) error) {
	t.Helper()
	require.NoError(t, store.WithinUnitOfWork(context.Background(), fn))
}

// =============================================================================
// Test: LedgerConfig
// =============================================================================

func testLedgerConfig(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing config reads as nil", func(t *testing.T) {
		cfg, err := store.GetConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("save then read round trips the singleton", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.SaveConfig(ctx, &schema.LedgerConfig{
				Symbol:             "EUR",
				Version:            "1.0",
				MinListPriceAmount: 10000,
			})
		})

		cfg, err := store.GetConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, schema.ConfigRowID, cfg.ID)
		assert.Equal(t, "EUR", cfg.Symbol)
		assert.Equal(t, "1.0", cfg.Version)
		assert.Equal(t, uint64(0), cfg.NextTypeID)
		assert.Equal(t, uint64(0), cfg.NextItemID)
		assert.Equal(t, uint64(10000), cfg.MinListPriceAmount)
	})

	t.Run("counters advance read-modify-write", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			cfg, err := tx.ConfigForUpdate(ctx)
			if err != nil {
				return err
			}
			cfg.NextTypeID++
			cfg.NextItemID += 3
			return tx.SaveConfig(ctx, cfg)
		})

		cfg, err := store.GetConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, uint64(1), cfg.NextTypeID)
		assert.Equal(t, uint64(3), cfg.NextItemID)
	})

	t.Run("re-save updates in place", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			cfg, err := tx.ConfigForUpdate(ctx)
			if err != nil {
				return err
			}
			cfg.Version = "1.1"
			return tx.SaveConfig(ctx, cfg)
		})

		cfg, err := store.GetConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "1.1", cfg.Version)
		assert.Equal(t, uint64(1), cfg.NextTypeID)
	})
}

// =============================================================================
// Test: TypeDefinitions
// =============================================================================

func testTypeDefinitions(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing definition reads as nil", func(t *testing.T) {
		def, err := store.GetTypeDefinition(ctx, "art", "missing")
		require.NoError(t, err)
		assert.Nil(t, def)

		def, err = store.GetTypeDefinitionByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, def)
	})

	t.Run("insert then read by name and by id", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			if err := tx.EnsureCategory(ctx, "art"); err != nil {
				return err
			}
			return tx.InsertTypeDefinition(ctx, buildTestDefinition(0, "art", "painting"))
		})

		def, err := store.GetTypeDefinition(ctx, "art", "painting")
		require.NoError(t, err)
		require.NotNil(t, def)
		assert.Equal(t, uint64(0), def.TypeID)
		assert.Equal(t, "gallerista", def.Issuer)
		assert.Equal(t, uint32(500), def.RevenueSplitBps)
		assert.True(t, def.Capped())

		byID, err := store.GetTypeDefinitionByID(ctx, 0)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "painting", byID.TokenName)
	})

	t.Run("ensure category is idempotent", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			if err := tx.EnsureCategory(ctx, "art"); err != nil {
				return err
			}
			return tx.EnsureCategory(ctx, "art")
		})
	})

	t.Run("same token name under another category is distinct", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			if err := tx.EnsureCategory(ctx, "virtual"); err != nil {
				return err
			}
			return tx.InsertTypeDefinition(ctx, buildTestDefinition(1, "virtual", "painting"))
		})

		def, err := store.GetTypeDefinition(ctx, "virtual", "painting")
		require.NoError(t, err)
		require.NotNil(t, def)
		assert.Equal(t, uint64(1), def.TypeID)
	})

	t.Run("update persists supply counters and freeze", func(t *testing.T) {
		def, err := store.GetTypeDefinition(ctx, "art", "painting")
		require.NoError(t, err)
		require.NotNil(t, def)

		def.CurrentSupplyAmount = 7
		def.IssuedSupplyAmount = 9
		def.MaxSupplyAmount = 9
		def.IssueWindowEnd = nil
		write(t, store, func(tx Tx) error {
			return tx.UpdateTypeDefinition(ctx, def)
		})

		got, err := store.GetTypeDefinitionByID(ctx, 0)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(7), got.CurrentSupplyAmount)
		assert.Equal(t, uint64(9), got.IssuedSupplyAmount)
		assert.Equal(t, uint64(9), got.MaxSupplyAmount)
		assert.Nil(t, got.IssueWindowEnd)
	})
}

// =============================================================================
// Test: Items
// =============================================================================

func testItems(t *testing.T, store Store) {
	ctx := context.Background()

	write(t, store, func(tx Tx) error {
		if err := tx.EnsureCategory(ctx, "art"); err != nil {
			return err
		}
		return tx.InsertTypeDefinition(ctx, buildTestDefinition(0, "art", "painting"))
	})

	t.Run("missing item reads as nil", func(t *testing.T) {
		item, err := store.GetItem(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("insert then read", func(t *testing.T) {
		uri := "ipfs://item-3"
		write(t, store, func(tx Tx) error {
			item := buildTestItem(3, 0, 1, "alice")
			item.MetadataURI = &uri
			return tx.InsertItem(ctx, item)
		})

		item, err := store.GetItem(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, uint64(1), item.SerialNumber)
		assert.Equal(t, "alice", item.Owner)
		require.NotNil(t, item.MetadataURI)
		assert.Equal(t, uri, *item.MetadataURI)
	})

	t.Run("owner reads come back ordered by id", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			if err := tx.InsertItem(ctx, buildTestItem(7, 0, 3, "alice")); err != nil {
				return err
			}
			return tx.InsertItem(ctx, buildTestItem(5, 0, 2, "alice"))
		})

		items, err := store.GetItemsByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, uint64(3), items[0].ID)
		assert.Equal(t, uint64(5), items[1].ID)
		assert.Equal(t, uint64(7), items[2].ID)
	})

	t.Run("owner update moves the item between owner scopes", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.UpdateItemOwner(ctx, 5, "bob")
		})

		item, err := store.GetItem(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "bob", item.Owner)

		items, err := store.GetItemsByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.DeleteItem(ctx, 3)
		})

		item, err := store.GetItem(ctx, 3)
		require.NoError(t, err)
		assert.Nil(t, item)
	})
}

// =============================================================================
// Test: Balances
// =============================================================================

func testBalances(t *testing.T, store Store) {
	ctx := context.Background()

	write(t, store, func(tx Tx) error {
		if err := tx.EnsureCategory(ctx, "art"); err != nil {
			return err
		}
		if err := tx.InsertTypeDefinition(ctx, buildTestDefinition(0, "art", "painting")); err != nil {
			return err
		}
		return tx.InsertTypeDefinition(ctx, buildTestDefinition(1, "art", "sketch"))
	})

	t.Run("missing balance reads as nil", func(t *testing.T) {
		balance, err := store.GetBalance(ctx, "alice", 0)
		require.NoError(t, err)
		assert.Nil(t, balance)
	})

	t.Run("first save creates the row", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.SaveBalance(ctx, buildTestBalance("alice", 0, 3))
		})

		balance, err := store.GetBalance(ctx, "alice", 0)
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, uint64(3), balance.Amount)
		assert.Equal(t, "painting", balance.TokenName)
	})

	t.Run("re-save updates the amount in place", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			balance, err := tx.GetBalance(ctx, "alice", 0)
			if err != nil {
				return err
			}
			balance.Amount = 5
			return tx.SaveBalance(ctx, balance)
		})

		balance, err := store.GetBalance(ctx, "alice", 0)
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, uint64(5), balance.Amount)
	})

	t.Run("owner reads come back ordered by type id", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			sketches := buildTestBalance("alice", 1, 10)
			sketches.TokenName = "sketch"
			return tx.SaveBalance(ctx, sketches)
		})

		balances, err := store.GetBalancesByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, uint64(0), balances[0].TypeID)
		assert.Equal(t, uint64(1), balances[1].TypeID)

		balances, err = store.GetBalancesByOwner(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, balances)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.DeleteBalance(ctx, "alice", 0)
		})

		balance, err := store.GetBalance(ctx, "alice", 0)
		require.NoError(t, err)
		assert.Nil(t, balance)

		balances, err := store.GetBalancesByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, balances, 1)
	})
}

// =============================================================================
// Test: Locks
// =============================================================================

func testLocks(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unlocked item reads as nil", func(t *testing.T) {
		lock, err := store.GetLock(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, lock)
	})

	t.Run("insert then release", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.InsertLock(ctx, 1)
		})

		lock, err := store.GetLock(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.Equal(t, uint64(1), lock.ItemID)

		write(t, store, func(tx Tx) error {
			return tx.DeleteLock(ctx, 1)
		})

		lock, err = store.GetLock(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, lock)
	})
}

// =============================================================================
// Test: Listings
// =============================================================================

func testListings(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing listing reads as nil", func(t *testing.T) {
		listing, err := store.GetListing(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, listing)
	})

	t.Run("insert then read preserves the batch", func(t *testing.T) {
		expiry := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
		write(t, store, func(tx Tx) error {
			listing := buildTestListing(4, "alice", []uint64{4, 5, 6})
			listing.ExpiresAt = &expiry
			return tx.InsertListing(ctx, listing)
		})

		listing, err := store.GetListing(ctx, 4)
		require.NoError(t, err)
		require.NotNil(t, listing)
		assert.Equal(t, []uint64{4, 5, 6}, []uint64(listing.ItemIDs))
		assert.Equal(t, "alice", listing.Seller)
		assert.Equal(t, uint64(250000), listing.PriceAmount)
		assert.Equal(t, uint8(4), listing.PricePrecision)
		require.NotNil(t, listing.ExpiresAt)
		assert.WithinDuration(t, expiry, *listing.ExpiresAt, time.Second)
	})

	t.Run("nil expiry survives the round trip", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.InsertListing(ctx, buildTestListing(9, "alice", []uint64{9}))
		})

		listing, err := store.GetListing(ctx, 9)
		require.NoError(t, err)
		require.NotNil(t, listing)
		assert.Nil(t, listing.ExpiresAt)
	})

	t.Run("seller reads come back ordered by batch id", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.InsertListing(ctx, buildTestListing(2, "alice", []uint64{2}))
		})

		listings, err := store.GetListingsBySeller(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, listings, 3)
		assert.Equal(t, uint64(2), listings[0].BatchID)
		assert.Equal(t, uint64(4), listings[1].BatchID)
		assert.Equal(t, uint64(9), listings[2].BatchID)

		listings, err = store.GetListingsBySeller(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, listings)
	})

	t.Run("delete tears the listing down", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.DeleteListing(ctx, 4)
		})

		listing, err := store.GetListing(ctx, 4)
		require.NoError(t, err)
		assert.Nil(t, listing)

		listings, err := store.GetListingsBySeller(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, listings, 2)
	})
}

// =============================================================================
// Test: Accounts
// =============================================================================

func testAccounts(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unknown account does not exist", func(t *testing.T) {
		exists, err := store.AccountExists(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("provisioned account exists", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			return tx.InsertAccount(ctx, "alice")
		})

		exists, err := store.AccountExists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

// =============================================================================
// Test: Unit of Work
// =============================================================================

func testUnitOfWork(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("error from the unit discards every mutation", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithinUnitOfWork(ctx, func(tx Tx) error {
			if err := tx.InsertAccount(ctx, "ghost"); err != nil {
				return err
			}
			if err := tx.InsertItem(ctx, buildTestItem(11, 0, 1, "ghost")); err != nil {
				return err
			}
			if err := tx.InsertLock(ctx, 11); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		exists, err := store.AccountExists(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, exists)

		item, err := store.GetItem(ctx, 11)
		require.NoError(t, err)
		assert.Nil(t, item)

		lock, err := store.GetLock(ctx, 11)
		require.NoError(t, err)
		assert.Nil(t, lock)
	})

	t.Run("mutations written inside the unit are visible to its own reads", func(t *testing.T) {
		write(t, store, func(tx Tx) error {
			if err := tx.InsertAccount(ctx, "carol"); err != nil {
				return err
			}
			exists, err := tx.AccountExists(ctx, "carol")
			if err != nil {
				return err
			}
			require.True(t, exists)
			return nil
		})

		exists, err := store.AccountExists(ctx, "carol")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

// RunStoreTests runs the shared store contract against one Store implementation.
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"LedgerConfig", testLedgerConfig},
		{"TypeDefinitions", testTypeDefinitions},
		{"Items", testItems},
		{"Balances", testBalances},
		{"Locks", testLocks},
		{"Listings", testListings},
		{"Accounts", testAccounts},
		{"UnitOfWork", testUnitOfWork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
