package schema

import "time"

// Account is a provisioned ledger account. The core consults this table only
// through the account-existence check; balances reference accounts by name.
type Account struct {
	// Name is the account name (primary key)
	Name string `gorm:"column:name;primaryKey;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
