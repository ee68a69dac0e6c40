package schema

import "time"

// Balance is the per-owner aggregate quantity for one token type. Rows are
// created on first credit and deleted when the amount reaches exactly zero;
// a zero balance is never materialized.
type Balance struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Owner is the balance holder's account name
	Owner string `gorm:"column:owner;not null;type:text;uniqueIndex:idx_balances_owner_type,priority:1"`
	// TypeID references the TokenDefinition this balance is denominated in
	TypeID uint64 `gorm:"column:type_id;not null;uniqueIndex:idx_balances_owner_type,priority:2"`
	// Category and TokenName are denormalized for owner-scoped reads
	Category  string `gorm:"column:category;not null;type:text"`
	TokenName string `gorm:"column:token_name;not null;type:text"`
	// Amount is the held quantity in minimum units
	Amount uint64 `gorm:"column:amount;not null"`
	// Precision always equals the type's declared precision
	Precision uint8 `gorm:"column:precision;not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
