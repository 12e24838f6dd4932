package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type PaymentSource interface {
	InvoicePayments(ctx context.Context, tenantID uuid.UUID) ([]model.InvoicePayment, error)
	SaleCollections(ctx context.Context, tenantID uuid.UUID) ([]model.SaleCollection, error)
}

type PaymentLinkSource interface {
	Links(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentLink, error)
}

type PaymentService struct {
	source   PaymentSource
	links    PaymentLinkSource
	params   ParamsFetcher
	settings FormatSettings
}

func NewPaymentService(source PaymentSource, links PaymentLinkSource, params ParamsFetcher, settings FormatSettings) *PaymentService {
	return &PaymentService{source: source, links: links, params: params, settings: settings}
}

// List loads both payment sources and the bank links concurrently and
// returns the consolidated list, newest first.
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID) ([]model.ConsolidatedPayment, error) {
	var (
		invoices    []model.InvoicePayment
		collections []model.SaleCollection
		links       []model.PaymentLink
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = s.source.InvoicePayments(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("load invoice payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		collections, err = s.source.SaleCollections(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("load sale collections: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		links, err = s.links.Links(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("load payment links: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Consolidate(invoices, collections, links), nil
}

func (s *PaymentService) Search(list []model.ConsolidatedPayment, q string) []model.ConsolidatedPayment {
	return SearchPayments(list, q)
}

func (s *PaymentService) Stats(ctx context.Context, tenantID uuid.UUID) (PaymentStats, error) {
	list, err := s.List(ctx, tenantID)
	if err != nil {
		return PaymentStats{}, err
	}
	return ComputePaymentStats(list), nil
}

// ValidateAmount checks amount against the tenant's regional ceilings.
func (s *PaymentService) ValidateAmount(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal, method string) (AmountValidation, error) {
	if !amount.IsPositive() {
		return AmountValidation{}, invalid("montant", "must be greater than zero")
	}
	params, err := s.params.Fetch(ctx, tenantID)
	if err != nil {
		return AmountValidation{}, err
	}
	return ValidateAmount(amount, method, params, s.settings.Formatter(params)), nil
}
