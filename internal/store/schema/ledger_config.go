package schema

import "time"

// LedgerConfig is the process-wide singleton row: settlement-asset symbol,
// schema version, and the monotonic counters for type ids and item ids.
// Exactly one row exists (ID = 1); every create and every mint performs a
// read-modify-write on it inside the enclosing transaction.
type LedgerConfig struct {
	// ID is always ConfigRowID; the singleton is addressed by primary key
	ID int16 `gorm:"column:id;primaryKey"`
	// Symbol is the settlement-asset symbol (e.g. "EOS")
	Symbol string `gorm:"column:symbol;not null;type:text"`
	// Version is the ledger schema version string, updated on every setup call
	Version string `gorm:"column:version;not null;type:text"`
	// NextTypeID is the next type definition id to assign
	NextTypeID uint64 `gorm:"column:next_type_id;not null;default:0"`
	// NextItemID is the next global item id to assign; never reused, even after burns
	NextItemID uint64 `gorm:"column:next_item_id;not null;default:0"`
	// MinListPriceAmount is the marketplace price floor in settlement minimum units
	MinListPriceAmount uint64 `gorm:"column:min_list_price_amount;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// ConfigRowID is the fixed primary key of the singleton row.
const ConfigRowID int16 = 1

// TableName specifies the table name for the LedgerConfig model
func (LedgerConfig) TableName() string {
	return "ledger_config"
}
