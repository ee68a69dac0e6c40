package ledger

import (
	"context"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/store"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// BurnNFT destroys a batch of items owned by the caller. Current supply drops
// by one per item; issued supply never decreases, so burned serial numbers
// and item ids are gone for good.
func (s *Service) BurnNFT(ctx context.Context, owner domain.Account, itemIDs []uint64) error {
	if len(itemIDs) == 0 || len(itemIDs) > domain.MaxBatchSize {
		return domain.ErrBatchTooLarge
	}

	now := s.clock.Now()
	outbox := &effects.Outbox{}

	err := s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		// Items in one batch may share a type; supply counters are flushed
		// once per type after the loop.
		touched := make(map[uint64]*schema.TokenDefinition)

		for _, itemID := range itemIDs {
			item, err := tx.GetItem(ctx, itemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrItemNotFound
			}
			if item.Owner != owner.String() {
				return domain.ErrNotOwner
			}

			def, ok := touched[item.TypeID]
			if !ok {
				def, err = tx.GetTypeDefinitionByID(ctx, item.TypeID)
				if err != nil {
					return err
				}
				if def == nil {
					return domain.ErrTypeNotFound
				}
				touched[item.TypeID] = def
			}
			if def.Fungible {
				return domain.ErrFungibleBurn
			}
			if !def.Burnable {
				return domain.ErrNotBurnable
			}

			lock, err := tx.GetLock(ctx, itemID)
			if err != nil {
				return err
			}
			if lock != nil {
				return domain.ErrItemLocked
			}

			if err := debitBalance(ctx, tx, owner, def, domain.One()); err != nil {
				return err
			}
			if err := tx.DeleteItem(ctx, itemID); err != nil {
				return err
			}
			def.CurrentSupplyAmount--
		}

		for _, def := range touched {
			if err := tx.UpdateTypeDefinition(ctx, def); err != nil {
				return err
			}
		}

		outbox.AddEvent(domain.LedgerEvent{
			Type:      domain.EventTypeBurn,
			ItemIDs:   itemIDs,
			From:      owner,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(ctx, outbox)
	return nil
}

// BurnFT destroys a fungible quantity held by the caller.
func (s *Service) BurnFT(ctx context.Context, owner domain.Account, typeID uint64, quantity domain.Quantity) error {
	now := s.clock.Now()
	outbox := &effects.Outbox{}

	err := s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		def, err := tx.GetTypeDefinitionByID(ctx, typeID)
		if err != nil {
			return err
		}
		if def == nil {
			return domain.ErrTypeNotFound
		}
		if !def.Fungible {
			return domain.ErrNotFungible
		}
		if !def.Burnable {
			return domain.ErrNotBurnable
		}
		if err := quantity.ValidateForType(true); err != nil {
			return err
		}
		if quantity.Precision != def.Precision {
			return domain.ErrPrecisionMismatch
		}

		if err := debitBalance(ctx, tx, owner, def, quantity); err != nil {
			return err
		}

		def.CurrentSupplyAmount -= quantity.Amount
		if err := tx.UpdateTypeDefinition(ctx, def); err != nil {
			return err
		}

		outbox.AddEvent(domain.LedgerEvent{
			Type:      domain.EventTypeBurn,
			Category:  def.Category,
			TokenName: def.TokenName,
			From:      owner,
			Quantity:  quantity.String(),
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(ctx, outbox)
	return nil
}
