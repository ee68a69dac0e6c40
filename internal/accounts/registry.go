package accounts

import (
	"context"
	"fmt"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/store"
)

// Registry answers whether an account is known to the ledger. Operations
// that credit a counterparty (issue, transfer, revenue split) check the
// recipient here before any state moves.
//
//go:generate mockgen -source=registry.go -destination=../mocks/registry.go -package=mocks -mock_names=Registry=MockRegistry
type Registry interface {
	Exists(ctx context.Context, name domain.Account) (bool, error)
	Provision(ctx context.Context, name domain.Account) error
}

type storeRegistry struct {
	store store.Store
}

// NewStoreRegistry creates a Registry backed by the ledger store
func NewStoreRegistry(s store.Store) Registry {
	return &storeRegistry{store: s}
}

func (r *storeRegistry) Exists(ctx context.Context, name domain.Account) (bool, error) {
	ok, err := r.store.AccountExists(ctx, name.String())
	if err != nil {
		return false, fmt.Errorf("failed to check account %s: %w", name, err)
	}
	return ok, nil
}

func (r *storeRegistry) Provision(ctx context.Context, name domain.Account) error {
	if !name.Valid() {
		return domain.ErrInvalidAccountName
	}
	return r.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		return tx.InsertAccount(ctx, name.String())
	})
}
