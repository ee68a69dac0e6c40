package market

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/ledger"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/store"
)

// Buy settles a purchase in reaction to an inbound settlement-asset payment.
// Plain deposits, payments not addressed to the ledger account, self-sends,
// and payments from excluded system payers are silent no-ops so unrelated
// payment traffic never corrupts ledger state. Everything else must name a
// live listing via the memo "<batch_id>,<destination_account>" and pay the
// asking price exactly.
func (s *Service) Buy(ctx context.Context, payer, payee domain.Account, paid domain.Quantity, memo string) error {
	if s.ignorePayment(ctx, payer, payee, memo) {
		return nil
	}

	batchID, destination, err := domain.ParseSaleMemo(memo)
	if err != nil {
		return err
	}
	exists, err := s.accounts.Exists(ctx, destination)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}

	now := s.clock.Now()
	outbox := &effects.Outbox{}

	err = s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		listing, err := tx.GetListing(ctx, batchID)
		if err != nil {
			return err
		}
		if listing == nil {
			return domain.ErrNotListed
		}
		if listing.Expired(now) {
			return domain.ErrSaleExpired
		}
		if paid.Precision != listing.PricePrecision || paid.Amount != listing.PriceAmount {
			return domain.ErrWrongPayment
		}

		seller := domain.Account(listing.Seller)

		// Fees are computed before ownership moves so each item still resolves
		// to its type's revenue partner through the pre-sale state.
		payouts, err := SplitProceeds(ctx, tx, listing.ItemIDs, paid, seller)
		if err != nil {
			return err
		}

		saleMemo := fmt.Sprintf("sale of batch %d", batchID)
		if err := ledger.ChangeOwner(ctx, tx, seller, destination, listing.ItemIDs, saleMemo, false, now, outbox); err != nil {
			return err
		}

		for _, payout := range payouts {
			if payout.Payee == s.ledgerAccount {
				continue
			}
			outbox.AddPayment(domain.PaymentInstruction{
				Payer:     s.ledgerAccount,
				Payee:     payout.Payee,
				Amount:    payout.Amount,
				Memo:      saleMemo,
				Timestamp: now,
			})
		}

		if err := teardownListing(ctx, tx, listing); err != nil {
			return err
		}

		outbox.AddEvent(domain.LedgerEvent{
			Type:      domain.EventTypeSale,
			ItemIDs:   listing.ItemIDs,
			From:      seller,
			To:        destination,
			Quantity:  paid.String(),
			Memo:      memo,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.effects.Dispatch(ctx, outbox)
	return nil
}

// ignorePayment applies the no-op guards for inbound payments.
func (s *Service) ignorePayment(ctx context.Context, payer, payee domain.Account, memo string) bool {
	switch {
	case memo == domain.DepositMemo:
		logger.DebugCtx(ctx, "ignoring deposit payment", zap.String("payer", payer.String()))
		return true
	case payee != s.ledgerAccount:
		logger.DebugCtx(ctx, "ignoring payment not addressed to ledger", zap.String("payee", payee.String()))
		return true
	case payer == s.ledgerAccount:
		logger.DebugCtx(ctx, "ignoring self payment")
		return true
	default:
		if _, excluded := s.excludedPayers[payer]; excluded {
			logger.DebugCtx(ctx, "ignoring payment from excluded payer", zap.String("payer", payer.String()))
			return true
		}
		return false
	}
}
