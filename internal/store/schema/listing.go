package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Lock marks an item currently claimed by an active sale listing. A locked
// item cannot be transferred or burned outside the marketplace settlement
// path. This is a data-level flag, not a concurrency primitive.
type Lock struct {
	// ItemID is the locked item's global id
	ItemID uint64 `gorm:"column:item_id;primaryKey"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Lock model
func (Lock) TableName() string {
	return "locks"
}

// Listing is a batch sale offer. The batch id equals the first item id in the
// batch. Listings resolve exactly once: bought, cancelled, or reclaimed after
// expiry.
type Listing struct {
	// BatchID is the first item id in the batch (primary key)
	BatchID uint64 `gorm:"column:batch_id;primaryKey"`
	// ItemIDs is the ordered set of item ids under sale
	ItemIDs datatypes.JSONSlice[uint64] `gorm:"column:item_ids;not null"`
	// Seller is the listing owner's account name
	Seller string `gorm:"column:seller;not null;type:text;index:idx_listings_seller"`
	// PriceAmount is the asking price in settlement-asset minimum units
	PriceAmount uint64 `gorm:"column:price_amount;not null"`
	// PricePrecision is the settlement asset's precision
	PricePrecision uint8 `gorm:"column:price_precision;not null"`
	// ExpiresAt is the listing deadline; nil means the listing never expires
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}

// Expired reports whether the listing's deadline has passed at now. A listing
// with no deadline never expires.
func (l *Listing) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}
