package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

// DisplayID builds the short id shown for a consolidated payment.
func DisplayID(t model.PaymentSourceType, sourceID uuid.UUID) string {
	prefix := "PAY-VTE-"
	if t == model.SourceInvoice {
		prefix = "PAY-FAC-"
	}
	return prefix + strings.ReplaceAll(sourceID.String(), "-", "")[:8]
}

type linkKey struct {
	t  model.PaymentSourceType
	id uuid.UUID
}

func statusRank(s model.ReconciliationStatus) int {
	switch s {
	case model.StatusReconciled:
		return 2
	case model.StatusPartiallyMatched:
		return 1
	}
	return 0
}

// linkedStatuses folds bank-transaction links into one status per payment:
// rapproche wins over rapproche_partiel, anything else counts as
// non_rapproche.
func linkedStatuses(links []model.PaymentLink) map[linkKey]model.ReconciliationStatus {
	out := make(map[linkKey]model.ReconciliationStatus, len(links))
	for _, l := range links {
		k := linkKey{l.PaymentType, l.PaymentID}
		if statusRank(l.Status) > statusRank(out[k]) {
			out[k] = l.Status
		}
	}
	return out
}

// Consolidate maps both payment sources into one list sorted by date,
// newest first. Equal dates keep a stable order by display id.
func Consolidate(invoices []model.InvoicePayment, collections []model.SaleCollection, links []model.PaymentLink) []model.ConsolidatedPayment {
	statuses := linkedStatuses(links)
	statusOf := func(t model.PaymentSourceType, id uuid.UUID) model.ReconciliationStatus {
		if s, ok := statuses[linkKey{t, id}]; ok && statusRank(s) > 0 {
			return s
		}
		return model.StatusUnreconciled
	}

	out := make([]model.ConsolidatedPayment, 0, len(invoices)+len(collections))
	for _, p := range invoices {
		counterparty := p.ClientName
		if counterparty == "" {
			counterparty = p.SupplierName
		}
		out = append(out, model.ConsolidatedPayment{
			ID:             DisplayID(model.SourceInvoice, p.ID),
			SourceID:       p.ID,
			Type:           model.SourceInvoice,
			DocumentNumber: p.InvoiceNumber,
			Date:           p.PaymentDate,
			Amount:         p.Amount,
			Method:         p.MethodCode,
			Reference:      p.Reference,
			Status:         statusOf(model.SourceInvoice, p.ID),
			Counterparty:   counterparty,
			Notes:          p.Notes,
		})
	}
	for _, c := range collections {
		out = append(out, model.ConsolidatedPayment{
			ID:             DisplayID(model.SourceSale, c.ID),
			SourceID:       c.ID,
			Type:           model.SourceSale,
			DocumentNumber: c.SaleNumber,
			Date:           c.CollectedAt,
			Amount:         c.Amount,
			Method:         c.MethodCode,
			Reference:      c.Reference,
			Status:         statusOf(model.SourceSale, c.ID),
			Counterparty:   c.ClientName,
			Notes:          c.Notes,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SearchPayments keeps payments whose document number, reference or
// counterparty contains q, ignoring case. An empty q keeps everything.
func SearchPayments(list []model.ConsolidatedPayment, q string) []model.ConsolidatedPayment {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return list
	}
	out := []model.ConsolidatedPayment{}
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.DocumentNumber), q) ||
			strings.Contains(strings.ToLower(p.Reference), q) ||
			strings.Contains(strings.ToLower(p.Counterparty), q) {
			out = append(out, p)
		}
	}
	return out
}

type PaymentStats struct {
	Count           int                                  `json:"count"`
	TotalAmount     decimal.Decimal                      `json:"total_amount"`
	ReconciledTotal decimal.Decimal                      `json:"reconciled_total"`
	PendingCount    int                                  `json:"pending_count"`
	ByMethod        map[model.MethodKind]decimal.Decimal `json:"by_method"`
}

// ComputePaymentStats sums amounts per registered method code by exact match;
// payments carrying any other code fall in no bucket.
func ComputePaymentStats(list []model.ConsolidatedPayment) PaymentStats {
	stats := PaymentStats{
		TotalAmount:     decimal.Zero,
		ReconciledTotal: decimal.Zero,
		ByMethod:        make(map[model.MethodKind]decimal.Decimal),
	}
	for _, k := range model.MethodKinds() {
		stats.ByMethod[k] = decimal.Zero
	}

	for _, p := range list {
		stats.Count++
		stats.TotalAmount = stats.TotalAmount.Add(p.Amount)
		switch p.Status {
		case model.StatusReconciled:
			stats.ReconciledTotal = stats.ReconciledTotal.Add(p.Amount)
		case model.StatusUnreconciled:
			stats.PendingCount++
		}
		if sum, ok := stats.ByMethod[model.MethodKind(p.Method)]; ok {
			stats.ByMethod[model.MethodKind(p.Method)] = sum.Add(p.Amount)
		}
	}
	return stats
}

type ReconciliationStats struct {
	Total            int     `json:"total"`
	Reconciled       int     `json:"reconciled"`
	Unreconciled     int     `json:"unreconciled"`
	PartiallyMatched int     `json:"partially_matched"`
	Suspect          int     `json:"suspect"`
	Ignored          int     `json:"ignored"`
	Rate             float64 `json:"rate"`
}

// ComputeReconciliationStats counts transactions per status. The rate is
// reconciled/total as a percentage, 0 when there are no transactions.
func ComputeReconciliationStats(txns []model.BankTransaction) ReconciliationStats {
	var stats ReconciliationStats
	for _, t := range txns {
		stats.Total++
		switch t.Status {
		case model.StatusReconciled:
			stats.Reconciled++
		case model.StatusUnreconciled:
			stats.Unreconciled++
		case model.StatusPartiallyMatched:
			stats.PartiallyMatched++
		case model.StatusSuspect:
			stats.Suspect++
		case model.StatusIgnored:
			stats.Ignored++
		}
	}
	if stats.Total > 0 {
		stats.Rate = math.Round(float64(stats.Reconciled)/float64(stats.Total)*100*100) / 100
	}
	return stats
}

// AgingMode selects which due date drives the schedule buckets.
type AgingMode string

const (
	// AgingFirstDue keys on date_premiere_echeance.
	AgingFirstDue AgingMode = "first_due"
	// AgingNextUnpaid keys on the earliest open line.
	AgingNextUnpaid AgingMode = "next_unpaid"
)

func ParseAgingMode(s string) (AgingMode, bool) {
	switch AgingMode(s) {
	case "", AgingFirstDue:
		return AgingFirstDue, true
	case AgingNextUnpaid:
		return AgingNextUnpaid, true
	}
	return "", false
}

const upcomingWindowDays = 30

type ScheduleAging struct {
	Schedule     model.PaymentSchedule `json:"schedule"`
	DueDate      time.Time             `json:"due_date"`
	DaysUntilDue int                   `json:"days_until_due"`
}

type ScheduleBuckets struct {
	Upcoming []ScheduleAging `json:"upcoming"`
	Overdue  []ScheduleAging `json:"overdue"`
}

// AgingDays is the ceiling of (due - now) in 24 hour units. Negative once
// the due date has passed.
func AgingDays(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// calendarDays counts whole days between the calendar dates of from and to.
func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func bucketDate(s *model.PaymentSchedule, mode AgingMode) (time.Time, bool) {
	if mode == AgingNextUnpaid {
		return s.NextUnpaidDueDate()
	}
	return s.FirstDueDate, true
}

// BucketSchedules splits active schedules into upcoming (due within the next
// 30 days, today included) and overdue (due before today). Both lists are
// sorted by due date, oldest first.
func BucketSchedules(list []model.PaymentSchedule, now time.Time, mode AgingMode) ScheduleBuckets {
	buckets := ScheduleBuckets{Upcoming: []ScheduleAging{}, Overdue: []ScheduleAging{}}
	for i := range list {
		s := &list[i]
		if s.Status != model.ScheduleActive {
			continue
		}
		due, ok := bucketDate(s, mode)
		if !ok {
			continue
		}

		entry := ScheduleAging{Schedule: *s, DueDate: due, DaysUntilDue: AgingDays(due, now)}
		days := calendarDays(now, due)
		switch {
		case days < 0:
			buckets.Overdue = append(buckets.Overdue, entry)
		case days <= upcomingWindowDays:
			buckets.Upcoming = append(buckets.Upcoming, entry)
		}
	}

	byDue := func(list []ScheduleAging) func(i, j int) bool {
		return func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) }
	}
	sort.SliceStable(buckets.Upcoming, byDue(buckets.Upcoming))
	sort.SliceStable(buckets.Overdue, byDue(buckets.Overdue))
	return buckets
}

type ScheduleStats struct {
	ActiveCount    int             `json:"active_count"`
	OverdueCount   int             `json:"overdue_count"`
	RemainingTotal decimal.Decimal `json:"remaining_total"`
	NextDueDate    *time.Time      `json:"next_due_date,omitempty"`
}

// ComputeScheduleStats counts active schedules and sums what they still owe.
// A schedule is overdue when money remains and its first due date is before
// today, whatever its status.
func ComputeScheduleStats(list []model.PaymentSchedule, now time.Time) ScheduleStats {
	stats := ScheduleStats{RemainingTotal: decimal.Zero}
	for i := range list {
		s := &list[i]
		days := calendarDays(now, s.FirstDueDate)
		if s.RemainingAmount.IsPositive() && days < 0 {
			stats.OverdueCount++
		}
		if s.Status != model.ScheduleActive {
			continue
		}
		stats.ActiveCount++
		stats.RemainingTotal = stats.RemainingTotal.Add(s.RemainingAmount)
		if days >= 0 && (stats.NextDueDate == nil || s.FirstDueDate.Before(*stats.NextDueDate)) {
			next := s.FirstDueDate
			stats.NextDueDate = &next
		}
	}
	return stats
}

type AmountValidation struct {
	Valid   bool
	Message string
}

// ValidateAmount enforces the regional cash and mobile money ceilings. No
// other method is limited. A zero ceiling means none is configured.
func ValidateAmount(amount decimal.Decimal, method string, params *model.RegionalPaymentParams, f *CurrencyFormatter) AmountValidation {
	var ceiling decimal.Decimal
	var label string
	switch model.MethodKind(method) {
	case model.MethodCash:
		ceiling, label = params.CashCeiling, "cash"
	case model.MethodMobileMoney:
		ceiling, label = params.MobileMoneyCeiling, "mobile money"
	default:
		return AmountValidation{Valid: true}
	}

	if ceiling.IsPositive() && amount.GreaterThan(ceiling) {
		return AmountValidation{
			Message: label + " payments are limited to " + f.Format(ceiling),
		}
	}
	return AmountValidation{Valid: true}
}
