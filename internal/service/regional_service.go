package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/cache"
	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type RegionalParamsStore interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, error)
	InitForTenant(ctx context.Context, tenantID uuid.UUID, countryCode string) error
	Update(ctx context.Context, p *model.RegionalPaymentParams) error
}

// ParamsFetcher is what other services need from the resolver.
type ParamsFetcher interface {
	Fetch(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, error)
}

type RegionalService struct {
	repo           RegionalParamsStore
	cache          cache.ParamsCache
	defaultCountry string
}

func NewRegionalService(repo RegionalParamsStore, c cache.ParamsCache, defaultCountry string) *RegionalService {
	if c == nil {
		c = cache.NopParamsCache{}
	}
	return &RegionalService{repo: repo, cache: c, defaultCountry: defaultCountry}
}

// Fetch returns the tenant's regional parameters, creating them from the
// default country the first time a tenant asks.
func (s *RegionalService) Fetch(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, error) {
	if p, ok, err := s.cache.Get(ctx, tenantID); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("regional params cache read failed")
	} else if ok {
		return p, nil
	}

	p, err := s.repo.FindByTenant(ctx, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info().
			Str("tenant_id", tenantID.String()).
			Str("country_code", s.defaultCountry).
			Msg("initializing regional payment params")
		if err := s.repo.InitForTenant(ctx, tenantID, s.defaultCountry); err != nil {
			return nil, err
		}
		p, err = s.repo.FindByTenant(ctx, tenantID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, p); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("regional params cache write failed")
	}
	return p, nil
}

// Update overwrites the fields present in req.
func (s *RegionalService) Update(ctx context.Context, tenantID uuid.UUID, req *dto.UpdateRegionalParamsRequest) (*model.RegionalPaymentParams, error) {
	current, err := s.Fetch(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	p := *current

	setString(&p.Country, req.Country)
	setString(&p.CountryCode, req.CountryCode)
	setString(&p.Currency, req.Currency)
	setString(&p.CurrencySymbol, req.CurrencySymbol)
	setString(&p.IBANFormat, req.IBANFormat)
	if req.IBANValidation != nil {
		p.IBANValidation = *req.IBANValidation
	}
	if req.SWIFTRequired != nil {
		p.SWIFTRequired = *req.SWIFTRequired
	}
	if req.ChequeDelayDays != nil {
		p.ChequeDelayDays = *req.ChequeDelayDays
	}
	if req.TransferDelayDays != nil {
		p.TransferDelayDays = *req.TransferDelayDays
	}
	if req.DefaultMethods != nil {
		for i, m := range *req.DefaultMethods {
			if err := m.Validate(); err != nil {
				return nil, invalid("modes_paiement_defaut", "entry %d: %v", i, err)
			}
		}
		p.DefaultMethods = *req.DefaultMethods
	}

	amounts := []struct {
		field string
		dst   *decimal.Decimal
		src   *decimal.Decimal
	}{
		{"frais_bancaires_standard", &p.StandardBankFee, req.StandardBankFee},
		{"frais_mobile_money_pourcentage", &p.MobileMoneyFeePct, req.MobileMoneyFeePct},
		{"frais_carte_pourcentage", &p.CardFeePct, req.CardFeePct},
		{"plafond_especes", &p.CashCeiling, req.CashCeiling},
		{"plafond_mobile_money", &p.MobileMoneyCeiling, req.MobileMoneyCeiling},
		{"seuil_kyc", &p.KYCThreshold, req.KYCThreshold},
		{"tolerance_rapprochement", &p.ReconciliationTolerance, req.ReconciliationTolerance},
	}
	for _, a := range amounts {
		if a.src == nil {
			continue
		}
		if a.src.IsNegative() {
			return nil, invalid(a.field, "must not be negative")
		}
		*a.dst = *a.src
	}
	hundred := decimal.NewFromInt(100)
	if p.MobileMoneyFeePct.GreaterThan(hundred) {
		return nil, invalid("frais_mobile_money_pourcentage", "must not exceed 100")
	}
	if p.CardFeePct.GreaterThan(hundred) {
		return nil, invalid("frais_carte_pourcentage", "must not exceed 100")
	}

	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, fmt.Errorf("update regional params: %w", err)
	}
	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("regional params cache invalidation failed")
	}
	return &p, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
