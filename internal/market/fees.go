package market

import (
	"context"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/store"
)

// Payout is one payee's share of a settled sale.
type Payout struct {
	Payee  domain.Account
	Amount domain.Quantity
}

// SplitProceeds distributes a sale's gross amount across revenue partners and
// the seller using integer fixed-point arithmetic. Each item contributes
// gross * split_bps / (10000 * batchSize) to its type's partner, accumulated
// per distinct partner; the seller receives the remainder, so the payouts sum
// to the gross amount exactly. Partners appear in first-encountered order,
// the seller last.
func SplitProceeds(ctx context.Context, r store.Reader, itemIDs []uint64, gross domain.Quantity, seller domain.Account) ([]Payout, error) {
	divisor := uint64(ledgerBps) * uint64(len(itemIDs))

	fees := make(map[domain.Account]uint64)
	var order []domain.Account
	var totalFees uint64

	for _, itemID := range itemIDs {
		item, err := r.GetItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}
		def, err := r.GetTypeDefinitionByID(ctx, item.TypeID)
		if err != nil {
			return nil, err
		}
		if def == nil {
			return nil, domain.ErrTypeNotFound
		}
		if def.RevenueSplitBps == 0 {
			continue
		}

		fee := mulDiv(gross.Amount, uint64(def.RevenueSplitBps), divisor)
		if fee == 0 {
			continue
		}

		partner := domain.Account(def.RevenuePartner)
		if _, seen := fees[partner]; !seen {
			order = append(order, partner)
		}
		fees[partner] += fee
		totalFees += fee
	}

	payouts := make([]Payout, 0, len(order)+1)
	for _, partner := range order {
		payouts = append(payouts, Payout{
			Payee:  partner,
			Amount: domain.Quantity{Amount: fees[partner], Precision: gross.Precision},
		})
	}
	// Rounding remainder always lands with the seller.
	payouts = append(payouts, Payout{
		Payee:  seller,
		Amount: domain.Quantity{Amount: gross.Amount - totalFees, Precision: gross.Precision},
	})
	return payouts, nil
}

// ledgerBps is the basis-point denominator for revenue splits.
const ledgerBps = 10000

// mulDiv computes floor(a*b/d) without overflowing uint64 for the operand
// ranges the ledger allows (a < 2^62, b <= 10^4, d <= 2*10^5): the quotient
// and remainder of a/d are scaled separately.
func mulDiv(a, b, d uint64) uint64 {
	return (a/d)*b + (a%d)*b/d
}
