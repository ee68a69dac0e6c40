// Package market implements the escrow marketplace on top of the ledger:
// batch listings, data-level item locks, purchase settlement with revenue
// splits, and cancellation/expiry teardown. Items never move to a custodial
// escrow account; only the lock flag changes while a listing is live.
package market

import (
	"context"
	"time"

	"github.com/goodslab/goods-ledger/internal/accounts"
	"github.com/goodslab/goods-ledger/internal/adapter"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/store"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// Service is the marketplace core.
type Service struct {
	store          store.Store
	accounts       accounts.Registry
	clock          adapter.Clock
	effects        effects.Sink
	ledgerAccount  domain.Account
	excludedPayers map[domain.Account]struct{}
}

// NewService creates the marketplace service. ledgerAccount is the escrow
// identity inbound settlement payments are addressed to; excludedPayers are
// infrastructure accounts whose payments never trigger a purchase.
func NewService(s store.Store, registry accounts.Registry, clock adapter.Clock, sink effects.Sink, ledgerAccount domain.Account, excludedPayers []domain.Account) *Service {
	excluded := make(map[domain.Account]struct{}, len(excludedPayers))
	for _, payer := range excludedPayers {
		excluded[payer] = struct{}{}
	}
	return &Service{
		store:          s,
		accounts:       registry,
		clock:          clock,
		effects:        sink,
		ledgerAccount:  ledgerAccount,
		excludedPayers: excluded,
	}
}

// ListForSale locks a batch of items and records one listing keyed by the
// first item id. Ownership stays with the seller; only the lock rows and the
// listing row are written.
func (s *Service) ListForSale(ctx context.Context, seller domain.Account, itemIDs []uint64, sellByDays uint32, netPrice domain.Quantity) (*schema.Listing, error) {
	if len(itemIDs) == 0 || len(itemIDs) > domain.MaxBatchSize {
		return nil, domain.ErrBatchTooLarge
	}
	if netPrice.Precision != domain.SettlementPrecision {
		return nil, domain.ErrPrecisionMismatch
	}

	var expiresAt *time.Time
	if sellByDays != 0 {
		deadline := s.clock.Now().Add(time.Duration(sellByDays) * 24 * time.Hour)
		expiresAt = &deadline
	}

	var listing *schema.Listing
	err := s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		cfg, err := tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return domain.ErrSetupRequired
		}
		if netPrice.Amount < cfg.MinListPriceAmount {
			return domain.ErrBelowMinimumPrice
		}

		for _, itemID := range itemIDs {
			item, err := tx.GetItem(ctx, itemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrItemNotFound
			}
			if item.Owner != seller.String() {
				return domain.ErrNotOwner
			}
			def, err := tx.GetTypeDefinitionByID(ctx, item.TypeID)
			if err != nil {
				return err
			}
			if def == nil {
				return domain.ErrTypeNotFound
			}
			if !def.Sellable {
				return domain.ErrNotSellable
			}
			lock, err := tx.GetLock(ctx, itemID)
			if err != nil {
				return err
			}
			if lock != nil {
				return domain.ErrItemLocked
			}
			if err := tx.InsertLock(ctx, itemID); err != nil {
				return err
			}
		}

		listing = &schema.Listing{
			BatchID:        itemIDs[0],
			ItemIDs:        itemIDs,
			Seller:         seller.String(),
			PriceAmount:    netPrice.Amount,
			PricePrecision: netPrice.Precision,
			ExpiresAt:      expiresAt,
		}
		return tx.InsertListing(ctx, listing)
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// CloseSale tears a listing down without moving funds or ownership. An
// expired listing can be reclaimed by anyone; a live one only by its seller.
// A listing that never expires stays seller-only forever.
func (s *Service) CloseSale(ctx context.Context, caller domain.Account, batchID uint64) error {
	now := s.clock.Now()

	return s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		listing, err := tx.GetListing(ctx, batchID)
		if err != nil {
			return err
		}
		if listing == nil {
			return domain.ErrNotListed
		}
		if !listing.Expired(now) && caller.String() != listing.Seller {
			return domain.ErrUnauthorized
		}
		return teardownListing(ctx, tx, listing)
	})
}

// teardownListing releases every lock in the batch and deletes the listing.
func teardownListing(ctx context.Context, tx store.Tx, listing *schema.Listing) error {
	for _, itemID := range listing.ItemIDs {
		if err := tx.DeleteLock(ctx, itemID); err != nil {
			return err
		}
	}
	return tx.DeleteListing(ctx, listing.BatchID)
}
