package schema

import "time"

// Category is a namespace tag grouping type definitions. Categories are
// created lazily on first reference and never deleted.
type Category struct {
	// Name is the category name (primary key)
	Name string `gorm:"column:name;primaryKey;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// TokenDefinition defines one token type scoped under a category. The
// identity fields are fixed at creation; only the supply counters and the
// freeze transition mutate afterwards.
type TokenDefinition struct {
	// TypeID is assigned from LedgerConfig.NextTypeID at creation and keys balances
	TypeID uint64 `gorm:"column:type_id;primaryKey"`
	// Category is the namespace this type lives under
	Category string `gorm:"column:category;not null;type:text;uniqueIndex:idx_type_defs_category_name,priority:1"`
	// TokenName is the type name, unique within its category
	TokenName string `gorm:"column:token_name;not null;type:text;uniqueIndex:idx_type_defs_category_name,priority:2"`
	// Issuer is the only account allowed to issue units of this type
	Issuer string `gorm:"column:issuer;not null;type:text"`
	// RevenuePartner receives the revenue split on marketplace sales
	RevenuePartner string `gorm:"column:revenue_partner;not null;type:text"`
	// RevenueSplitBps is the partner's share in basis points (0..10000)
	RevenueSplitBps uint32 `gorm:"column:revenue_split_bps;not null;default:0"`

	Fungible     bool `gorm:"column:fungible;not null"`
	Burnable     bool `gorm:"column:burnable;not null"`
	Sellable     bool `gorm:"column:sellable;not null"`
	Transferable bool `gorm:"column:transferable;not null"`

	// MaxSupplyAmount is the supply cap in minimum units; 0 is the uncapped
	// sentinel, valid only while an issuance window is open
	MaxSupplyAmount uint64 `gorm:"column:max_supply_amount;not null"`
	// Precision is the declared decimal precision of every quantity of this type
	Precision uint8 `gorm:"column:precision;not null"`
	// IssueWindowEnd is the issuance deadline; nil means no window
	IssueWindowEnd *time.Time `gorm:"column:issue_window_end;type:timestamptz"`
	// CurrentSupplyAmount tracks live supply; always equals the sum of balances
	CurrentSupplyAmount uint64 `gorm:"column:current_supply_amount;not null;default:0"`
	// IssuedSupplyAmount is monotonic and never decreases; it drives serial numbers
	IssuedSupplyAmount uint64 `gorm:"column:issued_supply_amount;not null;default:0"`
	// MetadataURI is the base metadata URI for units of this type
	MetadataURI string `gorm:"column:metadata_uri;not null;default:'';type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TokenDefinition model
func (TokenDefinition) TableName() string {
	return "token_definitions"
}

// Capped reports whether the type carries a true supply cap.
func (d *TokenDefinition) Capped() bool {
	return d.MaxSupplyAmount != 0
}
