package ledger

import (
	"context"
	"time"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/store"
)

// TransferNFT moves a batch of items from their owner to another account.
// This is the user-initiated path: ownership, the transferable flag, and the
// absence of a listing lock are all enforced per item.
func (s *Service) TransferNFT(ctx context.Context, from, to domain.Account, itemIDs []uint64, memo string) error {
	exists, err := s.accounts.Exists(ctx, to)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}

	now := s.clock.Now()
	outbox := &effects.Outbox{}

	err = s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		return ChangeOwner(ctx, tx, from, to, itemIDs, memo, true, now, outbox)
	})
	if err != nil {
		return err
	}

	s.dispatch(ctx, outbox)
	return nil
}

// ChangeOwner reassigns each item to the new owner and moves the matching
// one-unit balances, inside the caller's unit of work. The user-initiated
// path checks ownership, the transferable flag, and the listing lock; the
// settlement path (userInitiated=false) bypasses all three because the
// marketplace owns the lock transition for items it is selling.
func ChangeOwner(ctx context.Context, tx store.Tx, from, to domain.Account, itemIDs []uint64, memo string, userInitiated bool, now time.Time, outbox *effects.Outbox) error {
	if len(itemIDs) == 0 || len(itemIDs) > domain.MaxBatchSize {
		return domain.ErrBatchTooLarge
	}
	if len(memo) > domain.MaxMemoBytes {
		return domain.ErrMemoTooLong
	}
	// Settlement may deliver to the seller themselves, so only the user path
	// rejects self-transfers.
	if userInitiated && from == to {
		return domain.ErrSelfTransfer
	}

	for _, itemID := range itemIDs {
		item, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		def, err := tx.GetTypeDefinitionByID(ctx, item.TypeID)
		if err != nil {
			return err
		}
		if def == nil {
			return domain.ErrTypeNotFound
		}

		if userInitiated {
			if item.Owner != from.String() {
				return domain.ErrNotOwner
			}
			if !def.Transferable {
				return domain.ErrNotTransferable
			}
			lock, err := tx.GetLock(ctx, itemID)
			if err != nil {
				return err
			}
			if lock != nil {
				return domain.ErrItemLocked
			}
		}

		if err := tx.UpdateItemOwner(ctx, itemID, to.String()); err != nil {
			return err
		}
		if err := debitBalance(ctx, tx, domain.Account(item.Owner), def, domain.One()); err != nil {
			return err
		}
		if err := creditBalance(ctx, tx, to, def, domain.One()); err != nil {
			return err
		}
	}

	outbox.AddEvent(domain.LedgerEvent{
		Type:      domain.EventTypeTransfer,
		ItemIDs:   itemIDs,
		From:      from,
		To:        to,
		Memo:      memo,
		Timestamp: now,
	})
	return nil
}

// TransferFT moves a fungible quantity between accounts.
func (s *Service) TransferFT(ctx context.Context, from, to domain.Account, category, tokenName string, quantity domain.Quantity, memo string) error {
	if len(memo) > domain.MaxMemoBytes {
		return domain.ErrMemoTooLong
	}
	if from == to {
		return domain.ErrSelfTransfer
	}
	exists, err := s.accounts.Exists(ctx, to)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}

	now := s.clock.Now()
	outbox := &effects.Outbox{}

	err = s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		def, err := tx.GetTypeDefinition(ctx, category, tokenName)
		if err != nil {
			return err
		}
		if def == nil {
			return domain.ErrTypeNotFound
		}
		if !def.Fungible {
			return domain.ErrNotFungible
		}
		if !def.Transferable {
			return domain.ErrNotTransferable
		}
		if err := quantity.ValidateForType(true); err != nil {
			return err
		}
		if quantity.Precision != def.Precision {
			return domain.ErrPrecisionMismatch
		}

		if err := debitBalance(ctx, tx, from, def, quantity); err != nil {
			return err
		}
		if err := creditBalance(ctx, tx, to, def, quantity); err != nil {
			return err
		}

		outbox.AddEvent(domain.LedgerEvent{
			Type:      domain.EventTypeTransfer,
			Category:  category,
			TokenName: tokenName,
			From:      from,
			To:        to,
			Quantity:  quantity.String(),
			Memo:      memo,
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
