// Package ledger implements the token accounting core: type definitions and
// supply management, item minting with serial allocation, per-owner balance
// bookkeeping, ownership transfers, and burns. Every operation runs as one
// all-or-nothing unit of work against the store; notification events are
// collected in an outbox and dispatched only after the unit commits.
package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/goodslab/goods-ledger/internal/accounts"
	"github.com/goodslab/goods-ledger/internal/adapter"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/store"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// DefaultMinListPrice is the marketplace price floor installed by the first
// setup call, in settlement minimum units (1.0000 at precision 4).
const DefaultMinListPrice uint64 = 10000

// Service is the ledger core. All mutating entry points are methods on it.
type Service struct {
	store    store.Store
	accounts accounts.Registry
	clock    adapter.Clock
	effects  effects.Sink
}

// NewService creates the ledger core service
func NewService(s store.Store, registry accounts.Registry, clock adapter.Clock, sink effects.Sink) *Service {
	return &Service{
		store:    s,
		accounts: registry,
		clock:    clock,
		effects:  sink,
	}
}

// Store exposes the read side of the backing store for query handlers.
func (s *Service) Store() store.Reader {
	return s.store
}

// Setup creates or updates the ledger config singleton. The symbol names the
// settlement asset; the version string is always overwritten. Id counters and
// the configured price floor survive repeated calls.
func (s *Service) Setup(ctx context.Context, symbol, version string) error {
	if !domain.ValidSymbol(symbol) {
		return domain.ErrInvalidSymbol
	}

	err := s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		cfg, err := tx.ConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			cfg = &schema.LedgerConfig{
				ID:                 schema.ConfigRowID,
				MinListPriceAmount: DefaultMinListPrice,
			}
		}
		cfg.Symbol = symbol
		cfg.Version = version
		return tx.SaveConfig(ctx, cfg)
	})
	if err != nil {
		return err
	}

	logger.InfoCtx(ctx, "ledger config updated",
		zap.String("symbol", symbol),
		zap.String("version", version))
	return nil
}

// dispatch hands a non-empty outbox to the effects sink. Callers invoke it
// only after the enclosing unit of work has committed.
func (s *Service) dispatch(ctx context.Context, outbox *effects.Outbox) {
	if !outbox.Empty() {
		s.effects.Dispatch(ctx, outbox)
	}
}
