package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type ScheduleStore interface {
	List(ctx context.Context, tenantID uuid.UUID, withLines bool) ([]model.PaymentSchedule, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentSchedule, error)
	Create(ctx context.Context, s *model.PaymentSchedule) error
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, next model.ScheduleStatus) error
	RecordLinePayment(ctx context.Context, tenantID, scheduleID, lineID uuid.UUID, amount decimal.Decimal, at time.Time) error
}

const defaultAlertDays = 7

type ScheduleService struct {
	repo ScheduleStore
	now  func() time.Time
}

func NewScheduleService(repo ScheduleStore) *ScheduleService {
	return &ScheduleService{repo: repo, now: time.Now}
}

// ScheduleDetail is a schedule with its lines as of today: open lines past
// their due date read as en_retard, and Drift reports any gap between the
// schedule remaining amount and the sum of its lines.
type ScheduleDetail struct {
	model.PaymentSchedule
	Drift decimal.Decimal `json:"ecart_lignes"`
}

var minInstallment = decimal.New(1, -2)

func (s *ScheduleService) Create(ctx context.Context, tenantID uuid.UUID, req *dto.CreateScheduleRequest) (*model.PaymentSchedule, error) {
	if !req.TotalAmount.IsPositive() {
		return nil, invalid("montant_total", "must be greater than zero")
	}
	if !req.TotalAmount.Equal(req.TotalAmount.Round(2)) {
		return nil, invalid("montant_total", "at most two decimals")
	}

	period := model.Periodicity(req.Periodicity)
	count := req.InstallmentCount
	if period == model.PeriodOnce {
		count = 1
	}
	if req.TotalAmount.LessThan(minInstallment.Mul(decimal.NewFromInt(int64(count)))) {
		return nil, invalid("nombre_echeances", "montant_total must cover at least 0.01 per installment")
	}

	first := model.StartOfDay(req.FirstDueDate.Time)
	issue := model.StartOfDay(s.now())
	if req.IssueDate != nil {
		issue = model.StartOfDay(req.IssueDate.Time)
	}
	if first.Before(issue) {
		return nil, invalid("date_premiere_echeance", "must not be before date_emission")
	}

	alert := defaultAlertDays
	if req.AlertDaysBefore != nil {
		alert = *req.AlertDaysBefore
	}

	lines := model.GenerateLines(req.TotalAmount, req.InstallmentCount, first, period)
	sched := &model.PaymentSchedule{
		TenantID:         tenantID,
		Label:            req.Label,
		CounterpartyType: req.CounterpartyType,
		CounterpartyName: req.CounterpartyName,
		InvoiceID:        req.InvoiceID,
		TotalAmount:      req.TotalAmount,
		PaidAmount:       decimal.Zero,
		RemainingAmount:  req.TotalAmount,
		IssueDate:        issue,
		FirstDueDate:     first,
		LastDueDate:      lines[len(lines)-1].DueDate,
		InstallmentCount: len(lines),
		Periodicity:      period,
		Status:           model.ScheduleActive,
		AlertDaysBefore:  alert,
		Notes:            req.Notes,
		Lines:            lines,
	}
	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *ScheduleService) List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentSchedule, error) {
	return s.repo.List(ctx, tenantID, false)
}

func (s *ScheduleService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleDetail, error) {
	sched, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	today := s.now()
	for i := range sched.Lines {
		sched.Lines[i].Status = sched.Lines[i].EffectiveStatus(today)
	}
	return &ScheduleDetail{PaymentSchedule: *sched, Drift: sched.LineDrift()}, nil
}

func (s *ScheduleService) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*ScheduleDetail, error) {
	next := model.ScheduleStatus(status)
	if err := s.repo.SetStatus(ctx, tenantID, id, next); err != nil {
		return nil, err
	}
	return s.Get(ctx, tenantID, id)
}

func (s *ScheduleService) RecordLinePayment(ctx context.Context, tenantID, scheduleID, lineID uuid.UUID, amount decimal.Decimal) (*ScheduleDetail, error) {
	if !amount.IsPositive() {
		return nil, invalid("montant", "must be greater than zero")
	}
	if err := s.repo.RecordLinePayment(ctx, tenantID, scheduleID, lineID, amount, s.now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, tenantID, scheduleID)
}

// Buckets splits the tenant's active schedules into upcoming and overdue.
func (s *ScheduleService) Buckets(ctx context.Context, tenantID uuid.UUID, mode AgingMode) (ScheduleBuckets, error) {
	list, err := s.repo.List(ctx, tenantID, mode == AgingNextUnpaid)
	if err != nil {
		return ScheduleBuckets{}, err
	}
	return BucketSchedules(list, s.now(), mode), nil
}

func (s *ScheduleService) Stats(ctx context.Context, tenantID uuid.UUID) (ScheduleStats, error) {
	list, err := s.repo.List(ctx, tenantID, false)
	if err != nil {
		return ScheduleStats{}, err
	}
	return ComputeScheduleStats(list, s.now()), nil
}
