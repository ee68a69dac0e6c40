package store

import (
	"context"
	"sort"
	"sync"

	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// memoryState holds every logical table. Units of work run against a deep
// copy and swap it in on success, so a failed call never leaves partial
// mutations behind.
type memoryState struct {
	config      *schema.LedgerConfig
	categories  map[string]schema.Category
	definitions map[uint64]schema.TokenDefinition
	items       map[uint64]schema.Item
	balances    map[balanceKey]schema.Balance
	locks       map[uint64]schema.Lock
	listings    map[uint64]schema.Listing
	accounts    map[string]struct{}
	nextBalance uint64
}

type balanceKey struct {
	owner  string
	typeID uint64
}

type memoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

// NewMemoryStore creates an in-memory Store with the same unit-of-work
// semantics as the PostgreSQL store. It backs the core logic tests and small
// single-process deployments.
func NewMemoryStore() Store {
	return &memoryStore{state: newMemoryState()}
}

func newMemoryState() *memoryState {
	return &memoryState{
		categories:  make(map[string]schema.Category),
		definitions: make(map[uint64]schema.TokenDefinition),
		items:       make(map[uint64]schema.Item),
		balances:    make(map[balanceKey]schema.Balance),
		locks:       make(map[uint64]schema.Lock),
		listings:    make(map[uint64]schema.Listing),
		accounts:    make(map[string]struct{}),
	}
}

func (s *memoryState) clone() *memoryState {
	c := newMemoryState()
	if s.config != nil {
		cfg := *s.config
		c.config = &cfg
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.definitions {
		c.definitions[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.locks {
		c.locks[k] = v
	}
	for k, v := range s.listings {
		v.ItemIDs = append([]uint64(nil), v.ItemIDs...)
		c.listings[k] = v
	}
	for k := range s.accounts {
		c.accounts[k] = struct{}{}
	}
	c.nextBalance = s.nextBalance
	return c
}

func (m *memoryStore) WithinUnitOfWork(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	working := m.state.clone()
	if err := fn(&memoryTx{state: working}); err != nil {
		return err
	}
	m.state = working
	return nil
}

func (m *memoryStore) reader() *memoryTx {
	return &memoryTx{state: m.state}
}

func (m *memoryStore) GetConfig(ctx context.Context) (*schema.LedgerConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetConfig(ctx)
}

func (m *memoryStore) GetTypeDefinition(ctx context.Context, category, tokenName string) (*schema.TokenDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetTypeDefinition(ctx, category, tokenName)
}

func (m *memoryStore) GetTypeDefinitionByID(ctx context.Context, typeID uint64) (*schema.TokenDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetTypeDefinitionByID(ctx, typeID)
}

func (m *memoryStore) GetItem(ctx context.Context, itemID uint64) (*schema.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetItem(ctx, itemID)
}

func (m *memoryStore) GetItemsByOwner(ctx context.Context, owner string) ([]schema.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetItemsByOwner(ctx, owner)
}

func (m *memoryStore) GetBalance(ctx context.Context, owner string, typeID uint64) (*schema.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetBalance(ctx, owner, typeID)
}

func (m *memoryStore) GetBalancesByOwner(ctx context.Context, owner string) ([]schema.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetBalancesByOwner(ctx, owner)
}

func (m *memoryStore) GetLock(ctx context.Context, itemID uint64) (*schema.Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetLock(ctx, itemID)
}

func (m *memoryStore) GetListing(ctx context.Context, batchID uint64) (*schema.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetListing(ctx, batchID)
}

func (m *memoryStore) GetListingsBySeller(ctx context.Context, seller string) ([]schema.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().GetListingsBySeller(ctx, seller)
}

func (m *memoryStore) AccountExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader().AccountExists(ctx, name)
}

type memoryTx struct {
	state *memoryState
}

func (t *memoryTx) GetConfig(context.Context) (*schema.LedgerConfig, error) {
	if t.state.config == nil {
		return nil, nil
	}
	cfg := *t.state.config
	return &cfg, nil
}

func (t *memoryTx) ConfigForUpdate(ctx context.Context) (*schema.LedgerConfig, error) {
	return t.GetConfig(ctx)
}

func (t *memoryTx) SaveConfig(_ context.Context, cfg *schema.LedgerConfig) error {
	cfg.ID = schema.ConfigRowID
	saved := *cfg
	t.state.config = &saved
	return nil
}

func (t *memoryTx) EnsureCategory(_ context.Context, name string) error {
	if _, ok := t.state.categories[name]; !ok {
		t.state.categories[name] = schema.Category{Name: name}
	}
	return nil
}

func (t *memoryTx) GetTypeDefinition(_ context.Context, category, tokenName string) (*schema.TokenDefinition, error) {
	for _, def := range t.state.definitions {
		if def.Category == category && def.TokenName == tokenName {
			d := def
			return &d, nil
		}
	}
	return nil, nil
}

func (t *memoryTx) GetTypeDefinitionByID(_ context.Context, typeID uint64) (*schema.TokenDefinition, error) {
	def, ok := t.state.definitions[typeID]
	if !ok {
		return nil, nil
	}
	return &def, nil
}

func (t *memoryTx) InsertTypeDefinition(_ context.Context, def *schema.TokenDefinition) error {
	t.state.definitions[def.TypeID] = *def
	return nil
}

func (t *memoryTx) UpdateTypeDefinition(_ context.Context, def *schema.TokenDefinition) error {
	t.state.definitions[def.TypeID] = *def
	return nil
}

func (t *memoryTx) GetItem(_ context.Context, itemID uint64) (*schema.Item, error) {
	item, ok := t.state.items[itemID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (t *memoryTx) GetItemsByOwner(_ context.Context, owner string) ([]schema.Item, error) {
	var items []schema.Item
	for _, item := range t.state.items {
		if item.Owner == owner {
			items = append(items, item)
		}
	}
	sortItemsByID(items)
	return items, nil
}

func (t *memoryTx) InsertItem(_ context.Context, item *schema.Item) error {
	t.state.items[item.ID] = *item
	return nil
}

func (t *memoryTx) UpdateItemOwner(_ context.Context, itemID uint64, owner string) error {
	item, ok := t.state.items[itemID]
	if !ok {
		return nil
	}
	item.Owner = owner
	t.state.items[itemID] = item
	return nil
}

func (t *memoryTx) DeleteItem(_ context.Context, itemID uint64) error {
	delete(t.state.items, itemID)
	return nil
}

func (t *memoryTx) GetBalance(_ context.Context, owner string, typeID uint64) (*schema.Balance, error) {
	balance, ok := t.state.balances[balanceKey{owner: owner, typeID: typeID}]
	if !ok {
		return nil, nil
	}
	return &balance, nil
}

func (t *memoryTx) GetBalancesByOwner(_ context.Context, owner string) ([]schema.Balance, error) {
	var balances []schema.Balance
	for key, balance := range t.state.balances {
		if key.owner == owner {
			balances = append(balances, balance)
		}
	}
	sortBalancesByType(balances)
	return balances, nil
}

func (t *memoryTx) SaveBalance(_ context.Context, balance *schema.Balance) error {
	key := balanceKey{owner: balance.Owner, typeID: balance.TypeID}
	if existing, ok := t.state.balances[key]; ok {
		balance.ID = existing.ID
	} else {
		t.state.nextBalance++
		balance.ID = t.state.nextBalance
	}
	t.state.balances[key] = *balance
	return nil
}

func (t *memoryTx) DeleteBalance(_ context.Context, owner string, typeID uint64) error {
	delete(t.state.balances, balanceKey{owner: owner, typeID: typeID})
	return nil
}

func (t *memoryTx) GetLock(_ context.Context, itemID uint64) (*schema.Lock, error) {
	lock, ok := t.state.locks[itemID]
	if !ok {
		return nil, nil
	}
	return &lock, nil
}

func (t *memoryTx) InsertLock(_ context.Context, itemID uint64) error {
	t.state.locks[itemID] = schema.Lock{ItemID: itemID}
	return nil
}

func (t *memoryTx) DeleteLock(_ context.Context, itemID uint64) error {
	delete(t.state.locks, itemID)
	return nil
}

func (t *memoryTx) GetListing(_ context.Context, batchID uint64) (*schema.Listing, error) {
	listing, ok := t.state.listings[batchID]
	if !ok {
		return nil, nil
	}
	listing.ItemIDs = append([]uint64(nil), listing.ItemIDs...)
	return &listing, nil
}

func (t *memoryTx) GetListingsBySeller(_ context.Context, seller string) ([]schema.Listing, error) {
	var listings []schema.Listing
	for _, listing := range t.state.listings {
		if listing.Seller == seller {
			listing.ItemIDs = append([]uint64(nil), listing.ItemIDs...)
			listings = append(listings, listing)
		}
	}
	sortListingsByBatch(listings)
	return listings, nil
}

func (t *memoryTx) InsertListing(_ context.Context, listing *schema.Listing) error {
	saved := *listing
	saved.ItemIDs = append([]uint64(nil), listing.ItemIDs...)
	t.state.listings[listing.BatchID] = saved
	return nil
}

func (t *memoryTx) DeleteListing(_ context.Context, batchID uint64) error {
	delete(t.state.listings, batchID)
	return nil
}

func (t *memoryTx) AccountExists(_ context.Context, name string) (bool, error) {
	_, ok := t.state.accounts[name]
	return ok, nil
}

func (t *memoryTx) InsertAccount(_ context.Context, name string) error {
	t.state.accounts[name] = struct{}{}
	return nil
}

func sortItemsByID(items []schema.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

func sortBalancesByType(balances []schema.Balance) {
	sort.Slice(balances, func(i, j int) bool { return balances[i].TypeID < balances[j].TypeID })
}

func sortListingsByBatch(listings []schema.Listing) {
	sort.Slice(listings, func(i, j int) bool { return listings[i].BatchID < listings[j].BatchID })
}
