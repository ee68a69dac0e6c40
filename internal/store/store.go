package store

import (
	"context"

	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// Reader defines the lookup operations the core uses, all keyed the way the
// logical tables are scoped: config singleton, primary keys, and the owner and
// seller secondary indexes. Missing rows return (nil, nil), not an error.
type Reader interface {
	// GetConfig retrieves the ledger config singleton
	GetConfig(ctx context.Context) (*schema.LedgerConfig, error)
	// GetTypeDefinition retrieves a type definition by (category, token name)
	GetTypeDefinition(ctx context.Context, category, tokenName string) (*schema.TokenDefinition, error)
	// GetTypeDefinitionByID retrieves a type definition by its type id
	GetTypeDefinitionByID(ctx context.Context, typeID uint64) (*schema.TokenDefinition, error)
	// GetItem retrieves an item by its global id
	GetItem(ctx context.Context, itemID uint64) (*schema.Item, error)
	// GetItemsByOwner retrieves all items held by an owner
	GetItemsByOwner(ctx context.Context, owner string) ([]schema.Item, error)
	// GetBalance retrieves the balance row for (owner, type id)
	GetBalance(ctx context.Context, owner string, typeID uint64) (*schema.Balance, error)
	// GetBalancesByOwner retrieves all balance rows for an owner
	GetBalancesByOwner(ctx context.Context, owner string) ([]schema.Balance, error)
	// GetLock retrieves the lock row for an item, nil when the item is unlisted
	GetLock(ctx context.Context, itemID uint64) (*schema.Lock, error)
	// GetListing retrieves a listing by its batch id
	GetListing(ctx context.Context, batchID uint64) (*schema.Listing, error)
	// GetListingsBySeller retrieves all listings for a seller
	GetListingsBySeller(ctx context.Context, seller string) ([]schema.Listing, error)
	// AccountExists reports whether an account is provisioned
	AccountExists(ctx context.Context, name string) (bool, error)
}

// Tx is the mutation surface available inside one unit of work. Every write
// either commits with the whole unit or is rolled back with it.
type Tx interface {
	Reader

	// ConfigForUpdate reads the config singleton with an exclusive row lock so
	// the id counters can be advanced read-modify-write
	ConfigForUpdate(ctx context.Context) (*schema.LedgerConfig, error)
	// SaveConfig inserts or updates the config singleton
	SaveConfig(ctx context.Context, cfg *schema.LedgerConfig) error
	// EnsureCategory creates the category row if it does not exist yet
	EnsureCategory(ctx context.Context, name string) error
	// InsertTypeDefinition persists a freshly created type definition
	InsertTypeDefinition(ctx context.Context, def *schema.TokenDefinition) error
	// UpdateTypeDefinition persists supply-counter and freeze mutations
	UpdateTypeDefinition(ctx context.Context, def *schema.TokenDefinition) error
	// InsertItem persists a freshly minted item
	InsertItem(ctx context.Context, item *schema.Item) error
	// UpdateItemOwner reassigns an item to a new owner
	UpdateItemOwner(ctx context.Context, itemID uint64, owner string) error
	// DeleteItem removes a burned item
	DeleteItem(ctx context.Context, itemID uint64) error
	// SaveBalance inserts or updates a balance row
	SaveBalance(ctx context.Context, balance *schema.Balance) error
	// DeleteBalance removes a balance row that reached exactly zero
	DeleteBalance(ctx context.Context, owner string, typeID uint64) error
	// InsertLock marks an item as claimed by an active listing
	InsertLock(ctx context.Context, itemID uint64) error
	// DeleteLock releases an item when its listing resolves
	DeleteLock(ctx context.Context, itemID uint64) error
	// InsertListing persists a new batch sale offer
	InsertListing(ctx context.Context, listing *schema.Listing) error
	// DeleteListing tears a listing down on buy, cancel, or expiry-reclaim
	DeleteListing(ctx context.Context, batchID uint64) error
	// InsertAccount provisions an account
	InsertAccount(ctx context.Context, name string) error
}

// Store is the storage collaborator: scoped keyed tables plus an
// all-or-nothing unit of work.
type Store interface {
	Reader

	// WithinUnitOfWork runs fn as a single serialized, all-or-nothing unit.
	// Any error from fn discards every mutation attempted during the call.
	WithinUnitOfWork(ctx context.Context, fn func(tx Tx) error) error
}
