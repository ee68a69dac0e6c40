package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goodslab/goods-ledger/internal/store/schema"
)

type pgStore struct {
	queries
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{queries: queries{db: db}, db: db}
}

// AutoMigrate creates or updates the ledger tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.LedgerConfig{},
		&schema.Category{},
		&schema.TokenDefinition{},
		&schema.Item{},
		&schema.Balance{},
		&schema.Lock{},
		&schema.Listing{},
		&schema.Account{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// WithinUnitOfWork runs fn inside one database transaction. Serializable
// isolation keeps concurrent calls from interleaving mid-unit.
func (s *pgStore) WithinUnitOfWork(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&queries{db: txdb})
	})
}

// queries implements Reader and Tx against either the root connection or a
// transaction handle.
type queries struct {
	db *gorm.DB
}

func (q *queries) GetConfig(ctx context.Context) (*schema.LedgerConfig, error) {
	var cfg schema.LedgerConfig
	err := q.db.WithContext(ctx).Where("id = ?", schema.ConfigRowID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger config: %w", err)
	}
	return &cfg, nil
}

func (q *queries) ConfigForUpdate(ctx context.Context) (*schema.LedgerConfig, error) {
	var cfg schema.LedgerConfig
	err := q.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", schema.ConfigRowID).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock ledger config: %w", err)
	}
	return &cfg, nil
}

func (q *queries) SaveConfig(ctx context.Context, cfg *schema.LedgerConfig) error {
	cfg.ID = schema.ConfigRowID
	if err := q.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to save ledger config: %w", err)
	}
	return nil
}

func (q *queries) EnsureCategory(ctx context.Context, name string) error {
	category := schema.Category{Name: name}
	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return fmt.Errorf("failed to ensure category: %w", err)
	}
	return nil
}

func (q *queries) GetTypeDefinition(ctx context.Context, category, tokenName string) (*schema.TokenDefinition, error) {
	var def schema.TokenDefinition
	err := q.db.WithContext(ctx).
		Where("category = ? AND token_name = ?", category, tokenName).
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get type definition: %w", err)
	}
	return &def, nil
}

func (q *queries) GetTypeDefinitionByID(ctx context.Context, typeID uint64) (*schema.TokenDefinition, error) {
	var def schema.TokenDefinition
	err := q.db.WithContext(ctx).Where("type_id = ?", typeID).First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get type definition: %w", err)
	}
	return &def, nil
}

func (q *queries) InsertTypeDefinition(ctx context.Context, def *schema.TokenDefinition) error {
	if err := q.db.WithContext(ctx).Create(def).Error; err != nil {
		return fmt.Errorf("failed to insert type definition: %w", err)
	}
	return nil
}

func (q *queries) UpdateTypeDefinition(ctx context.Context, def *schema.TokenDefinition) error {
	if err := q.db.WithContext(ctx).Save(def).Error; err != nil {
		return fmt.Errorf("failed to update type definition: %w", err)
	}
	return nil
}

func (q *queries) GetItem(ctx context.Context, itemID uint64) (*schema.Item, error) {
	var item schema.Item
	err := q.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (q *queries) GetItemsByOwner(ctx context.Context, owner string) ([]schema.Item, error) {
	var items []schema.Item
	err := q.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get items by owner: %w", err)
	}
	return items, nil
}

func (q *queries) InsertItem(ctx context.Context, item *schema.Item) error {
	if err := q.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (q *queries) UpdateItemOwner(ctx context.Context, itemID uint64, owner string) error {
	err := q.db.WithContext(ctx).
		Model(&schema.Item{}).
		Where("id = ?", itemID).
		Update("owner", owner).Error
	if err != nil {
		return fmt.Errorf("failed to update item owner: %w", err)
	}
	return nil
}

func (q *queries) DeleteItem(ctx context.Context, itemID uint64) error {
	err := q.db.WithContext(ctx).Where("id = ?", itemID).Delete(&schema.Item{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (q *queries) GetBalance(ctx context.Context, owner string, typeID uint64) (*schema.Balance, error) {
	var balance schema.Balance
	err := q.db.WithContext(ctx).
		Where("owner = ? AND type_id = ?", owner, typeID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

func (q *queries) GetBalancesByOwner(ctx context.Context, owner string) ([]schema.Balance, error) {
	var balances []schema.Balance
	err := q.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("type_id ASC").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get balances by owner: %w", err)
	}
	return balances, nil
}

func (q *queries) SaveBalance(ctx context.Context, balance *schema.Balance) error {
	// A fetched row carries its primary key and only the amount mutates.
	if balance.ID != 0 {
		err := q.db.WithContext(ctx).
			Model(&schema.Balance{}).
			Where("id = ?", balance.ID).
			Update("amount", balance.Amount).Error
		if err != nil {
			return fmt.Errorf("failed to save balance: %w", err)
		}
		return nil
	}
	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "type_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(balance).Error
	if err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

func (q *queries) DeleteBalance(ctx context.Context, owner string, typeID uint64) error {
	err := q.db.WithContext(ctx).
		Where("owner = ? AND type_id = ?", owner, typeID).
		Delete(&schema.Balance{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete balance: %w", err)
	}
	return nil
}

func (q *queries) GetLock(ctx context.Context, itemID uint64) (*schema.Lock, error) {
	var lock schema.Lock
	err := q.db.WithContext(ctx).Where("item_id = ?", itemID).First(&lock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lock: %w", err)
	}
	return &lock, nil
}

func (q *queries) InsertLock(ctx context.Context, itemID uint64) error {
	lock := schema.Lock{ItemID: itemID}
	if err := q.db.WithContext(ctx).Create(&lock).Error; err != nil {
		return fmt.Errorf("failed to insert lock: %w", err)
	}
	return nil
}

func (q *queries) DeleteLock(ctx context.Context, itemID uint64) error {
	err := q.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&schema.Lock{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete lock: %w", err)
	}
	return nil
}

func (q *queries) GetListing(ctx context.Context, batchID uint64) (*schema.Listing, error) {
	var listing schema.Listing
	err := q.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

func (q *queries) GetListingsBySeller(ctx context.Context, seller string) ([]schema.Listing, error) {
	var listings []schema.Listing
	err := q.db.WithContext(ctx).
		Where("seller = ?", seller).
		Order("batch_id ASC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get listings by seller: %w", err)
	}
	return listings, nil
}

func (q *queries) InsertListing(ctx context.Context, listing *schema.Listing) error {
	if err := q.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (q *queries) DeleteListing(ctx context.Context, batchID uint64) error {
	err := q.db.WithContext(ctx).Where("batch_id = ?", batchID).Delete(&schema.Listing{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (q *queries) AccountExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&schema.Account{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return count > 0, nil
}

func (q *queries) InsertAccount(ctx context.Context, name string) error {
	account := schema.Account{Name: name}
	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&account).Error
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}
