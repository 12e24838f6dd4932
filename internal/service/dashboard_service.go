package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type DashboardService struct {
	payments  *PaymentService
	bank      *BankService
	schedules *ScheduleService
	params    ParamsFetcher
	settings  FormatSettings
	tmpl      string
	now       func() time.Time
}

func NewDashboardService(payments *PaymentService, bank *BankService, schedules *ScheduleService, params ParamsFetcher, settings FormatSettings, tmpl string) *DashboardService {
	return &DashboardService{
		payments:  payments,
		bank:      bank,
		schedules: schedules,
		params:    params,
		settings:  settings,
		tmpl:      tmpl,
		now:       time.Now,
	}
}

type MethodTotal struct {
	Code   model.MethodKind `json:"code"`
	Amount string           `json:"amount"`
}

type DashboardData struct {
	GeneratedAt    string              `json:"generated_at"`
	Country        string              `json:"country"`
	Currency       string              `json:"currency"`
	Payments       PaymentStats        `json:"payments"`
	Reconciliation ReconciliationStats `json:"reconciliation"`
	Schedules      ScheduleStats       `json:"schedules"`
	Buckets        ScheduleBuckets     `json:"buckets"`
	Formatted      map[string]string   `json:"formatted"`
	Methods        []MethodTotal       `json:"methods"`
}

// Build loads every source the dashboard needs concurrently and derives the
// figures from one consistent "now".
func (s *DashboardService) Build(ctx context.Context, tenantID uuid.UUID) (*DashboardData, error) {
	var (
		payments  []model.ConsolidatedPayment
		txns      []model.BankTransaction
		schedules []model.PaymentSchedule
		params    *model.RegionalPaymentParams
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = s.payments.List(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		txns, err = s.bank.ListTransactions(gctx, tenantID, nil)
		if err != nil {
			return fmt.Errorf("load bank transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		schedules, err = s.schedules.List(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("load schedules: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		params, err = s.params.Fetch(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	f := s.settings.Formatter(params)
	data := &DashboardData{
		GeneratedAt:    now.Format("2006-01-02 15:04:05 MST"),
		Country:        params.Country,
		Currency:       params.Currency,
		Payments:       ComputePaymentStats(payments),
		Reconciliation: ComputeReconciliationStats(txns),
		Schedules:      ComputeScheduleStats(schedules, now),
		Buckets:        BucketSchedules(schedules, now, AgingFirstDue),
	}
	data.Formatted = map[string]string{
		"total_amount":     f.Format(data.Payments.TotalAmount),
		"reconciled_total": f.Format(data.Payments.ReconciledTotal),
		"remaining_total":  f.Format(data.Schedules.RemainingTotal),
	}
	for _, k := range model.MethodKinds() {
		data.Methods = append(data.Methods, MethodTotal{Code: k, Amount: f.Format(data.Payments.ByMethod[k])})
	}
	return data, nil
}

func (s *DashboardService) RenderHTML(data *DashboardData) (string, error) {
	tmpl, err := template.New("dashboard").Parse(s.tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
