package ledger

import (
	"context"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/store"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// Issue mints quantity of a type to a recipient. For non-fungible types the
// quantity is the count of new units, each receiving the next serial number
// and a fresh global item id; the per-call count is capped to bound the unit
// of work. Supplies advance by the full quantity.
func (s *Service) Issue(ctx context.Context, caller, to domain.Account, category, tokenName string, quantity domain.Quantity, metadataURI, memo string) error {
	if len(memo) > domain.MaxMemoBytes {
		return domain.ErrMemoTooLong
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
		if caller.String() != def.Issuer {
			return domain.ErrUnauthorized
		}
		if err := quantity.ValidateForType(def.Fungible); err != nil {
			return err
		}
		if def.Fungible && quantity.Precision != def.Precision {
			return domain.ErrPrecisionMismatch
		}
		if def.IssueWindowEnd != nil && now.After(*def.IssueWindowEnd) {
			return domain.ErrIssueWindowClosed
		}
		if def.Capped() && def.IssuedSupplyAmount+quantity.Amount > def.MaxSupplyAmount {
			return domain.ErrSupplyCapExceeded
		}

		var itemIDs []uint64
		if !def.Fungible {
			if quantity.Amount > domain.MaxIssueBatch {
				return domain.ErrBatchTooLarge
			}
			itemIDs, err = mintItems(ctx, tx, def, to, quantity.Amount, metadataURI)
			if err != nil {
				return err
			}
		}

		if err := creditBalance(ctx, tx, to, def, quantity); err != nil {
			return err
		}

		def.CurrentSupplyAmount += quantity.Amount
		def.IssuedSupplyAmount += quantity.Amount
		if err := tx.UpdateTypeDefinition(ctx, def); err != nil {
			return err
		}

		outbox.AddEvent(domain.LedgerEvent{
			Type:      domain.EventTypeMint,
			Category:  category,
			TokenName: tokenName,
			ItemIDs:   itemIDs,
			From:      caller,
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

// mintItems allocates count new items for a non-fungible type: global ids from
// the config counter (strictly increasing, never reused even after burns) and
// serial numbers continuing the type's issued-supply sequence.
func mintItems(ctx context.Context, tx store.Tx, def *schema.TokenDefinition, owner domain.Account, count uint64, metadataURI string) ([]uint64, error) {
	cfg, err := tx.ConfigForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrSetupRequired
	}

	var uri *string
	if metadataURI != "" {
		uri = &metadataURI
	}

	itemIDs := make([]uint64, 0, count)
	for i := uint64(0); i < count; i++ {
		item := &schema.Item{
			ID:           cfg.NextItemID,
			SerialNumber: def.IssuedSupplyAmount + i + 1,
			Owner:        owner.String(),
			Category:     def.Category,
			TokenName:    def.TokenName,
			TypeID:       def.TypeID,
			MetadataURI:  uri,
		}
		if err := tx.InsertItem(ctx, item); err != nil {
			return nil, err
		}
		itemIDs = append(itemIDs, item.ID)
		cfg.NextItemID++
	}

	if err := tx.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return itemIDs, nil
}
