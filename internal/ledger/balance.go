package ledger

import (
	"context"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/store"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// creditBalance adds quantity to the owner's balance of the given type,
// creating the row on first credit.
func creditBalance(ctx context.Context, tx store.Tx, owner domain.Account, def *schema.TokenDefinition, quantity domain.Quantity) error {
	if quantity.Precision != def.Precision {
		return domain.ErrPrecisionMismatch
	}

	balance, err := tx.GetBalance(ctx, owner.String(), def.TypeID)
	if err != nil {
		return err
	}
	if balance == nil {
		balance = &schema.Balance{
			Owner:     owner.String(),
			TypeID:    def.TypeID,
			Category:  def.Category,
			TokenName: def.TokenName,
			Amount:    quantity.Amount,
			Precision: def.Precision,
		}
		return tx.SaveBalance(ctx, balance)
	}

	held := domain.Quantity{Amount: balance.Amount, Precision: balance.Precision}
	sum, err := held.Add(quantity)
	if err != nil {
		return err
	}
	balance.Amount = sum.Amount
	return tx.SaveBalance(ctx, balance)
}

// debitBalance subtracts quantity from the owner's balance, deleting the row
// when it lands on exactly zero. A missing or short balance is an error.
func debitBalance(ctx context.Context, tx store.Tx, owner domain.Account, def *schema.TokenDefinition, quantity domain.Quantity) error {
	if quantity.Precision != def.Precision {
		return domain.ErrPrecisionMismatch
	}

	balance, err := tx.GetBalance(ctx, owner.String(), def.TypeID)
	if err != nil {
		return err
	}
	if balance == nil {
		return domain.ErrInsufficientBalance
	}

	held := domain.Quantity{Amount: balance.Amount, Precision: balance.Precision}
	rest, err := held.Sub(quantity)
	if err != nil {
		return err
	}
	if rest.IsZero() {
		return tx.DeleteBalance(ctx, owner.String(), def.TypeID)
	}
	balance.Amount = rest.Amount
	return tx.SaveBalance(ctx, balance)
}
