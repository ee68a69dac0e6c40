package ledger

import (
	"context"
	"time"

	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/store"
	"github.com/goodslab/goods-ledger/internal/store/schema"
)

// MaxRevenueSplitBps is a full revenue split of 100%.
const MaxRevenueSplitBps uint32 = 10000

// CreateTypeParams carries the validated arguments of a create-type call.
type CreateTypeParams struct {
	Issuer         domain.Account
	RevenuePartner domain.Account
	Category       string
	TokenName      string

	Fungible     bool
	Burnable     bool
	Sellable     bool
	Transferable bool

	// RevenueSplitBps is the partner's share of marketplace sales in basis points
	RevenueSplitBps uint32

	// MaxSupply is the supply cap. A zero amount means uncapped, which is only
	// allowed while an issuance window is open.
	MaxSupply domain.Quantity
	// IssueWindowDays opens a time-boxed issuance window; 0 means no window.
	IssueWindowDays uint32

	MetadataURI string
}

// CreateType registers a new token type under its category, creating the
// category lazily on first reference. The type id is drawn from the config
// counter inside the same unit of work that persists the definition.
func (s *Service) CreateType(ctx context.Context, caller domain.Account, params CreateTypeParams) (*schema.TokenDefinition, error) {
	if caller != params.Issuer {
		return nil, domain.ErrUnauthorized
	}
	if !domain.ValidName(params.Category) || !domain.ValidName(params.TokenName) {
		return nil, domain.ErrInvalidAccountName
	}
	if params.RevenueSplitBps > MaxRevenueSplitBps {
		return nil, domain.ErrInvalidRevenueSplit
	}

	for _, account := range []domain.Account{params.Issuer, params.RevenuePartner} {
		exists, err := s.accounts.Exists(ctx, account)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrAccountNotFound
		}
	}

	var windowEnd *time.Time
	if params.IssueWindowDays == 0 {
		// No window: the cap is final, so it must be a real positive quantity.
		if err := params.MaxSupply.ValidateForType(params.Fungible); err != nil {
			return nil, err
		}
	} else {
		deadline := s.clock.Now().Add(time.Duration(params.IssueWindowDays) * 24 * time.Hour)
		windowEnd = &deadline
		// Uncapped during the window; a non-zero cap still has to be well formed
		// and even the zero sentinel fixes the type's precision for good.
		if !params.MaxSupply.IsZero() {
			if err := params.MaxSupply.ValidateForType(params.Fungible); err != nil {
				return nil, err
			}
		} else if !params.Fungible && params.MaxSupply.Precision != 0 {
			return nil, domain.ErrPrecisionMismatch
		} else if params.MaxSupply.Precision > domain.MaxPrecision {
			return nil, domain.ErrPrecisionTooLarge
		}
	}

	var def *schema.TokenDefinition
	err := s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
		cfg, err := tx.ConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return domain.ErrSetupRequired
		}

		existing, err := tx.GetTypeDefinition(ctx, params.Category, params.TokenName)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrTypeExists
		}

		if err := tx.EnsureCategory(ctx, params.Category); err != nil {
			return err
		}

		def = &schema.TokenDefinition{
			TypeID:          cfg.NextTypeID,
			Category:        params.Category,
			TokenName:       params.TokenName,
			Issuer:          params.Issuer.String(),
			RevenuePartner:  params.RevenuePartner.String(),
			RevenueSplitBps: params.RevenueSplitBps,
			Fungible:        params.Fungible,
			Burnable:        params.Burnable,
			Sellable:        params.Sellable,
			Transferable:    params.Transferable,
			MaxSupplyAmount: params.MaxSupply.Amount,
			Precision:       params.MaxSupply.Precision,
			IssueWindowEnd:  windowEnd,
			MetadataURI:     params.MetadataURI,
		}
		if err := tx.InsertTypeDefinition(ctx, def); err != nil {
			return err
		}

		cfg.NextTypeID++
		return tx.SaveConfig(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

// FreezeMaxSupply seals a time-boxed drop: the cap becomes whatever has been
// issued so far and the window is cleared. One-way, issuer only.
func (s *Service) FreezeMaxSupply(ctx context.Context, caller domain.Account, category, tokenName string) error {
	return s.store.WithinUnitOfWork(ctx, func(tx store.Tx) error {
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
		if def.IssueWindowEnd == nil {
			return domain.ErrNoOpenWindow
		}
		if def.IssuedSupplyAmount == 0 {
			return domain.ErrNothingIssued
		}

		def.MaxSupplyAmount = def.IssuedSupplyAmount
		def.IssueWindowEnd = nil
		return tx.UpdateTypeDefinition(ctx, def)
	})
}
