package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type PaymentMethodStore interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentMethod, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentMethod, error)
	Codes(ctx context.Context, tenantID uuid.UUID) (map[string]bool, error)
	Create(ctx context.Context, m *model.PaymentMethod) error
	InsertBatch(ctx context.Context, methods []*model.PaymentMethod) (int, error)
	Update(ctx context.Context, m *model.PaymentMethod) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type MethodService struct {
	repo   PaymentMethodStore
	params ParamsFetcher
}

func NewMethodService(repo PaymentMethodStore, params ParamsFetcher) *MethodService {
	return &MethodService{repo: repo, params: params}
}

func (s *MethodService) List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentMethod, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *MethodService) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentMethod, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *MethodService) Create(ctx context.Context, tenantID uuid.UUID, req *dto.PaymentMethodRequest) (*model.PaymentMethod, error) {
	m, err := methodFromRequest(tenantID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MethodService) Update(ctx context.Context, tenantID, id uuid.UUID, req *dto.PaymentMethodRequest) (*model.PaymentMethod, error) {
	m, err := methodFromRequest(tenantID, req)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MethodService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func methodFromRequest(tenantID uuid.UUID, req *dto.PaymentMethodRequest) (*model.PaymentMethod, error) {
	if req.FeePercentage.IsNegative() || req.FeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, invalid("frais_pourcentage", "must be between 0 and 100")
	}
	if req.FixedFee.IsNegative() {
		return nil, invalid("frais_fixes", "must not be negative")
	}
	return &model.PaymentMethod{
		TenantID:            tenantID,
		Code:                req.Code,
		Label:               req.Label,
		IsActive:            req.IsActive == nil || *req.IsActive,
		DisplayOrder:        req.DisplayOrder,
		BankAccountID:       req.BankAccountID,
		RequiresReference:   req.RequiresReference,
		RequiresValidation:  req.RequiresValidation,
		CollectionDelayDays: req.CollectionDelayDays,
		FeePercentage:       req.FeePercentage,
		FixedFee:            req.FixedFee,
		Icon:                req.Icon,
		Color:               req.Color,
		Notes:               req.Notes,
	}, nil
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Created int
	Skipped int
}

// SeedFromRegionalDefaults creates one method per regional default the tenant
// has not configured yet. Running it twice creates nothing the second time.
func (s *MethodService) SeedFromRegionalDefaults(ctx context.Context, tenantID uuid.UUID) (SeedResult, error) {
	params, err := s.params.Fetch(ctx, tenantID)
	if err != nil {
		return SeedResult{}, err
	}
	if len(params.DefaultMethods) == 0 {
		return SeedResult{}, ErrNoRegionalDefaults
	}

	existing, err := s.repo.Codes(ctx, tenantID)
	if err != nil {
		return SeedResult{}, err
	}

	var toCreate []*model.PaymentMethod
	for i, d := range params.DefaultMethods {
		if existing[string(d.Code)] {
			continue
		}
		toCreate = append(toCreate, &model.PaymentMethod{
			TenantID:            tenantID,
			Code:                string(d.Code),
			Label:               d.Label,
			IsActive:            true,
			DisplayOrder:        i + 1,
			RequiresReference:   d.RequiresReference,
			RequiresValidation:  d.RequiresValidation,
			CollectionDelayDays: d.CollectionDelayDays,
			FeePercentage:       d.FeePercentage,
			FixedFee:            d.FixedFee,
			Icon:                d.Icon,
			Color:               d.Color,
		})
	}

	created := 0
	if len(toCreate) > 0 {
		created, err = s.repo.InsertBatch(ctx, toCreate)
		if err != nil {
			return SeedResult{}, err
		}
	}

	res := SeedResult{Created: created, Skipped: len(params.DefaultMethods) - created}
	log.Info().
		Str("tenant_id", tenantID.String()).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("payment methods seeded from regional defaults")
	return res, nil
}
