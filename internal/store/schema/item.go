package schema

import "time"

// Item is one non-fungible unit. The id is global and monotonic, never
// reused after burns; the serial number is the unit's position within its
// type's mint history, starting at 1.
type Item struct {
	// ID is the global item id, assigned from LedgerConfig.NextItemID
	ID uint64 `gorm:"column:id;primaryKey"`
	// SerialNumber is issued_supply+1 at mint time
	SerialNumber uint64 `gorm:"column:serial_number;not null"`
	// Owner is the current owner's account name
	Owner string `gorm:"column:owner;not null;type:text;index:idx_items_owner"`
	// Category and TokenName reference the item's type definition
	Category  string `gorm:"column:category;not null;type:text"`
	TokenName string `gorm:"column:token_name;not null;type:text"`
	// TypeID references the TokenDefinition
	TypeID uint64 `gorm:"column:type_id;not null;index:idx_items_type"`
	// MetadataURI is the optional per-item metadata override
	MetadataURI *string `gorm:"column:metadata_uri;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Item model
func (Item) TableName() string {
	return "items"
}
