package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Periodicity string

const (
	PeriodOnce       Periodicity = "unique"
	PeriodMonthly    Periodicity = "mensuel"
	PeriodQuarterly  Periodicity = "trimestriel"
	PeriodSemiannual Periodicity = "semestriel"
	PeriodAnnual     Periodicity = "annuel"
)

// Months returns the spacing between two installments.
func (p Periodicity) Months() int {
	switch p {
	case PeriodMonthly:
		return 1
	case PeriodQuarterly:
		return 3
	case PeriodSemiannual:
		return 6
	case PeriodAnnual:
		return 12
	}
	return 0
}

type ScheduleStatus string

const (
	ScheduleActive    ScheduleStatus = "actif"
	ScheduleCompleted ScheduleStatus = "termine"
	ScheduleSuspended ScheduleStatus = "suspendu"
	ScheduleCancelled ScheduleStatus = "annule"
)

// CanTransitionTo covers user-driven status changes. Completion only happens
// through payments.
func (s ScheduleStatus) CanTransitionTo(next ScheduleStatus) bool {
	switch s {
	case ScheduleActive:
		return next == ScheduleSuspended || next == ScheduleCancelled
	case ScheduleSuspended:
		return next == ScheduleActive || next == ScheduleCancelled
	}
	return false
}

type LineStatus string

const (
	LineToPay         LineStatus = "a_payer"
	LinePartiallyPaid LineStatus = "partiellement_paye"
	LinePaid          LineStatus = "paye"
	LineLate          LineStatus = "en_retard"
	LineCancelled     LineStatus = "annule"
)

type PaymentSchedule struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	Label            string          `json:"libelle"`
	CounterpartyType string          `json:"type_tiers"`
	CounterpartyName string          `json:"tiers_nom"`
	InvoiceID        *uuid.UUID      `json:"facture_id,omitempty"`
	TotalAmount      decimal.Decimal `json:"montant_total"`
	PaidAmount       decimal.Decimal `json:"montant_paye"`
	RemainingAmount  decimal.Decimal `json:"montant_restant"`
	IssueDate        time.Time       `json:"date_emission"`
	FirstDueDate     time.Time       `json:"date_premiere_echeance"`
	LastDueDate      time.Time       `json:"date_derniere_echeance"`
	InstallmentCount int             `json:"nombre_echeances"`
	Periodicity      Periodicity     `json:"periodicite"`
	Status           ScheduleStatus  `json:"statut"`
	AlertDaysBefore  int             `json:"delai_alerte_jours"`
	Notes            string          `json:"notes,omitempty"`
	Lines            []ScheduleLine  `json:"lignes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ScheduleLine struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	ScheduleID      uuid.UUID       `json:"echeancier_id"`
	Number          int             `json:"numero_echeance"`
	DueDate         time.Time       `json:"date_echeance"`
	Amount          decimal.Decimal `json:"montant"`
	PaidAmount      decimal.Decimal `json:"montant_paye"`
	RemainingAmount decimal.Decimal `json:"montant_restant"`
	Status          LineStatus      `json:"statut"`
	PaidAt          *time.Time      `json:"date_paiement,omitempty"`
}

// Open reports whether the line still expects money.
func (l *ScheduleLine) Open() bool {
	return l.RemainingAmount.IsPositive() && l.Status != LineCancelled && l.Status != LinePaid
}

// EffectiveStatus marks open lines past their due date as late.
func (l *ScheduleLine) EffectiveStatus(today time.Time) LineStatus {
	if l.Open() && StartOfDay(l.DueDate).Before(StartOfDay(today)) {
		return LineLate
	}
	return l.Status
}

// ApplyPayment records amount on the line and moves it to partially paid or paid.
func (l *ScheduleLine) ApplyPayment(amount decimal.Decimal, at time.Time) {
	l.PaidAmount = l.PaidAmount.Add(amount)
	l.RemainingAmount = l.Amount.Sub(l.PaidAmount)
	if l.RemainingAmount.IsPositive() {
		l.Status = LinePartiallyPaid
		return
	}
	l.RemainingAmount = decimal.Zero
	l.Status = LinePaid
	l.PaidAt = &at
}

// RecordPayment moves amount from remaining to paid and completes the
// schedule once nothing remains.
func (s *PaymentSchedule) RecordPayment(amount decimal.Decimal) {
	s.PaidAmount = s.PaidAmount.Add(amount)
	s.RemainingAmount = s.RemainingAmount.Sub(amount)
	if !s.RemainingAmount.IsPositive() {
		s.RemainingAmount = decimal.Zero
		s.Status = ScheduleCompleted
	}
}

// NextUnpaidDueDate is the due date of the earliest open line, if any.
func (s *PaymentSchedule) NextUnpaidDueDate() (time.Time, bool) {
	var next time.Time
	found := false
	for i := range s.Lines {
		l := &s.Lines[i]
		if !l.Open() {
			continue
		}
		if !found || l.DueDate.Before(next) {
			next = l.DueDate
			found = true
		}
	}
	return next, found
}

// LineDrift is the schedule-level remaining amount minus the sum of the
// line remaining amounts. Zero when both levels agree.
func (s *PaymentSchedule) LineDrift() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.Lines {
		if l.Status == LineCancelled {
			continue
		}
		sum = sum.Add(l.RemainingAmount)
	}
	return s.RemainingAmount.Sub(sum)
}

// GenerateLines splits total into count installments starting at first and
// spaced by p. Amounts are rounded down to cents; the last installment
// absorbs the remainder.
func GenerateLines(total decimal.Decimal, count int, first time.Time, p Periodicity) []ScheduleLine {
	if p == PeriodOnce || count < 1 {
		count = 1
	}

	share := total.Div(decimal.NewFromInt(int64(count))).RoundFloor(2)
	lines := make([]ScheduleLine, count)
	allocated := decimal.Zero
	for i := 0; i < count; i++ {
		amount := share
		if i == count-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		lines[i] = ScheduleLine{
			Number:          i + 1,
			DueDate:         AddMonthsClamped(first, i*p.Months()),
			Amount:          amount,
			PaidAmount:      decimal.Zero,
			RemainingAmount: amount,
			Status:          LineToPay,
		}
	}
	return lines
}

// AddMonthsClamped adds months to t, clamping the day to the end of the
// target month (31 Jan + 1 month = 28/29 Feb).
func AddMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return firstOfTarget.AddDate(0, 0, d-1)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
