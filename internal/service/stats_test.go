package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestDisplayID(t *testing.T) {
	id := uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa6")
	assert.Equal(t, "PAY-FAC-3fa85f64", DisplayID(model.SourceInvoice, id))
	assert.Equal(t, "PAY-VTE-3fa85f64", DisplayID(model.SourceSale, id))
}

func TestConsolidate(t *testing.T) {
	inv1 := uuid.MustParse("11111111-0000-0000-0000-000000000000")
	inv2 := uuid.MustParse("22222222-0000-0000-0000-000000000000")
	sale1 := uuid.MustParse("33333333-0000-0000-0000-000000000000")
	sale2 := uuid.MustParse("44444444-0000-0000-0000-000000000000")

	invoices := []model.InvoicePayment{
		{ID: inv1, InvoiceNumber: "FAC-001", PaymentDate: day(2026, 3, 1), Amount: d("1000"), MethodCode: "virement", ClientName: "Clinique Sainte Marie"},
		{ID: inv2, InvoiceNumber: "FAC-002", PaymentDate: day(2026, 3, 5), Amount: d("250"), MethodCode: "cheque", SupplierName: "Laborex Congo"},
	}
	collections := []model.SaleCollection{
		{ID: sale1, SaleNumber: "VTE-010", CollectedAt: day(2026, 3, 5), Amount: d("75"), MethodCode: "especes", ClientName: "Mme Nkounkou"},
		{ID: sale2, SaleNumber: "VTE-011", CollectedAt: day(2026, 2, 20), Amount: d("40"), MethodCode: "mobile_money"},
	}
	links := []model.PaymentLink{
		{PaymentType: model.SourceInvoice, PaymentID: inv1, Status: model.StatusPartiallyMatched},
		{PaymentType: model.SourceInvoice, PaymentID: inv1, Status: model.StatusReconciled},
		{PaymentType: model.SourceSale, PaymentID: sale1, Status: model.StatusPartiallyMatched},
		{PaymentType: model.SourceSale, PaymentID: sale2, Status: model.StatusSuspect},
		// Same id under the other source must not leak across.
		{PaymentType: model.SourceSale, PaymentID: inv2, Status: model.StatusReconciled},
	}

	list := Consolidate(invoices, collections, links)
	require.Len(t, list, 4)

	assert.Equal(t, "PAY-FAC-22222222", list[0].ID, "ties on date ordered by display id")
	assert.Equal(t, "PAY-VTE-33333333", list[1].ID)
	assert.Equal(t, "PAY-FAC-11111111", list[2].ID)
	assert.Equal(t, "PAY-VTE-44444444", list[3].ID)

	assert.Equal(t, model.StatusUnreconciled, list[0].Status)
	assert.Equal(t, "Laborex Congo", list[0].Counterparty, "supplier used when no client")
	assert.Equal(t, model.StatusPartiallyMatched, list[1].Status)
	assert.Equal(t, model.StatusReconciled, list[2].Status, "rapproche wins over rapproche_partiel")
	assert.Equal(t, model.StatusUnreconciled, list[3].Status, "suspect link does not count")

	assert.Equal(t, model.SourceSale, list[1].Type)
	assert.Equal(t, sale1, list[1].SourceID)
	assert.Equal(t, "VTE-010", list[1].DocumentNumber)
}

func TestConsolidate_Empty(t *testing.T) {
	list := Consolidate(nil, nil, nil)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSearchPayments(t *testing.T) {
	list := []model.ConsolidatedPayment{
		{ID: "a", DocumentNumber: "FAC-2026-001", Reference: "VIR-889", Counterparty: "Clinique Sainte Marie"},
		{ID: "b", DocumentNumber: "VTE-77", Reference: "", Counterparty: "Mme Nkounkou"},
		{ID: "c", DocumentNumber: "VTE-78", Reference: "MOMO-123", Counterparty: ""},
	}

	ids := func(ps []model.ConsolidatedPayment) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a"}, ids(SearchPayments(list, "fac-2026")))
	assert.Equal(t, []string{"a"}, ids(SearchPayments(list, "vir-8")))
	assert.Equal(t, []string{"b"}, ids(SearchPayments(list, "NKOUNKOU")))
	assert.Equal(t, []string{"b", "c"}, ids(SearchPayments(list, "vte")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SearchPayments(list, "  ")))
	assert.Empty(t, SearchPayments(list, "zzz"))
}

func TestComputePaymentStats(t *testing.T) {
	list := []model.ConsolidatedPayment{
		{Amount: d("100"), Method: "especes", Status: model.StatusReconciled},
		{Amount: d("200"), Method: "mobile_money", Status: model.StatusUnreconciled},
		{Amount: d("300"), Method: "carte_bancaire", Status: model.StatusPartiallyMatched},
		{Amount: d("400"), Method: "virement", Status: model.StatusReconciled},
		{Amount: d("500"), Method: "cheque", Status: model.StatusUnreconciled},
		{Amount: d("600"), Method: "Especes", Status: model.StatusUnreconciled},
		{Amount: d("700"), Method: "bon_achat", Status: model.StatusUnreconciled},
	}

	stats := ComputePaymentStats(list)
	assert.Equal(t, 7, stats.Count)
	assert.True(t, stats.TotalAmount.Equal(d("2800")))
	assert.True(t, stats.ReconciledTotal.Equal(d("500")))
	assert.Equal(t, 4, stats.PendingCount)

	assert.True(t, stats.ByMethod[model.MethodCash].Equal(d("100")), "method match is exact")
	assert.True(t, stats.ByMethod[model.MethodMobileMoney].Equal(d("200")))
	assert.True(t, stats.ByMethod[model.MethodCard].Equal(d("300")))
	assert.True(t, stats.ByMethod[model.MethodTransfer].Equal(d("400")))
	assert.True(t, stats.ByMethod[model.MethodCheque].Equal(d("500")))
	assert.Len(t, stats.ByMethod, 5)

	// Bucket totals equal the total of payments carrying a registered code.
	bucketSum := decimal.Zero
	for _, v := range stats.ByMethod {
		bucketSum = bucketSum.Add(v)
	}
	assert.True(t, bucketSum.Equal(d("1500")))
}

func TestComputeReconciliationStats(t *testing.T) {
	t.Run("zero transactions", func(t *testing.T) {
		stats := ComputeReconciliationStats(nil)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, 0.0, stats.Rate)
	})

	t.Run("rate is reconciled over total", func(t *testing.T) {
		txns := []model.BankTransaction{
			{Status: model.StatusReconciled},
			{Status: model.StatusReconciled},
			{Status: model.StatusReconciled},
			{Status: model.StatusUnreconciled},
			{Status: model.StatusSuspect},
			{Status: model.StatusIgnored},
			{Status: model.StatusPartiallyMatched},
			{Status: model.StatusUnreconciled},
		}
		stats := ComputeReconciliationStats(txns)
		assert.Equal(t, 8, stats.Total)
		assert.Equal(t, 3, stats.Reconciled)
		assert.Equal(t, 2, stats.Unreconciled)
		assert.Equal(t, 1, stats.Suspect)
		assert.Equal(t, 1, stats.Ignored)
		assert.Equal(t, 1, stats.PartiallyMatched)
		assert.InDelta(t, 37.5, stats.Rate, 0.001)
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		txns := []model.BankTransaction{{Status: model.StatusReconciled}, {}, {}}
		assert.InDelta(t, 33.33, ComputeReconciliationStats(txns).Rate, 0.001)
	})
}

func TestAgingDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, AgingDays(day(2026, 3, 11), now))
	assert.Equal(t, 0, AgingDays(day(2026, 3, 10), now))
	assert.Equal(t, -1, AgingDays(day(2026, 3, 9), now))
	assert.Equal(t, 30, AgingDays(day(2026, 4, 9), now))
}

func TestBucketSchedules(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	mk := func(name string, status model.ScheduleStatus, due time.Time) model.PaymentSchedule {
		return model.PaymentSchedule{Label: name, Status: status, FirstDueDate: due, RemainingAmount: d("100")}
	}
	list := []model.PaymentSchedule{
		mk("in-30", model.ScheduleActive, day(2026, 4, 9)),
		mk("in-31", model.ScheduleActive, day(2026, 4, 10)),
		mk("today", model.ScheduleActive, day(2026, 3, 10)),
		mk("tomorrow", model.ScheduleActive, day(2026, 3, 11)),
		mk("yesterday", model.ScheduleActive, day(2026, 3, 9)),
		mk("last-year", model.ScheduleActive, day(2025, 3, 9)),
		mk("suspended-soon", model.ScheduleSuspended, day(2026, 3, 12)),
		mk("cancelled-late", model.ScheduleCancelled, day(2026, 1, 1)),
		mk("done-late", model.ScheduleCompleted, day(2026, 1, 1)),
	}

	b := BucketSchedules(list, now, AgingFirstDue)

	labels := func(entries []ScheduleAging) []string {
		out := []string{}
		for _, e := range entries {
			out = append(out, e.Schedule.Label)
		}
		return out
	}
	assert.Equal(t, []string{"today", "tomorrow", "in-30"}, labels(b.Upcoming))
	assert.Equal(t, []string{"last-year", "yesterday"}, labels(b.Overdue))

	for _, e := range b.Overdue {
		assert.Less(t, e.DaysUntilDue, 0)
	}
	assert.Equal(t, 1, b.Upcoming[1].DaysUntilDue)
}

func TestBucketSchedules_NextUnpaidMode(t *testing.T) {
	now := day(2026, 3, 10)
	// Started in January, first two installments paid, third due next week.
	s := model.PaymentSchedule{
		Label:           "three-months",
		Status:          model.ScheduleActive,
		FirstDueDate:    day(2026, 1, 17),
		RemainingAmount: d("100"),
		Lines: []model.ScheduleLine{
			{DueDate: day(2026, 1, 17), Amount: d("100"), RemainingAmount: decimal.Zero, Status: model.LinePaid},
			{DueDate: day(2026, 2, 17), Amount: d("100"), RemainingAmount: decimal.Zero, Status: model.LinePaid},
			{DueDate: day(2026, 3, 17), Amount: d("100"), RemainingAmount: d("100"), Status: model.LineToPay},
		},
	}
	settled := model.PaymentSchedule{Label: "settled", Status: model.ScheduleActive, FirstDueDate: day(2026, 1, 1)}

	asBuilt := BucketSchedules([]model.PaymentSchedule{s, settled}, now, AgingFirstDue)
	require.Len(t, asBuilt.Overdue, 2, "first-due keying reports a started schedule as overdue")

	nextUnpaid := BucketSchedules([]model.PaymentSchedule{s, settled}, now, AgingNextUnpaid)
	assert.Empty(t, nextUnpaid.Overdue)
	require.Len(t, nextUnpaid.Upcoming, 1)
	assert.Equal(t, day(2026, 3, 17), nextUnpaid.Upcoming[0].DueDate)
	assert.Equal(t, 7, nextUnpaid.Upcoming[0].DaysUntilDue)
}

func TestParseAgingMode(t *testing.T) {
	m, ok := ParseAgingMode("")
	assert.True(t, ok)
	assert.Equal(t, AgingFirstDue, m)

	m, ok = ParseAgingMode("next_unpaid")
	assert.True(t, ok)
	assert.Equal(t, AgingNextUnpaid, m)

	_, ok = ParseAgingMode("bogus")
	assert.False(t, ok)
}

func TestComputeScheduleStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	list := []model.PaymentSchedule{
		{Status: model.ScheduleActive, FirstDueDate: day(2026, 3, 1), RemainingAmount: d("300")},
		{Status: model.ScheduleActive, FirstDueDate: day(2026, 3, 20), RemainingAmount: d("200")},
		{Status: model.ScheduleActive, FirstDueDate: day(2026, 3, 10), RemainingAmount: d("50")},
		{Status: model.ScheduleSuspended, FirstDueDate: day(2026, 2, 1), RemainingAmount: d("1000")},
		{Status: model.ScheduleCompleted, FirstDueDate: day(2026, 1, 1), RemainingAmount: decimal.Zero},
	}

	stats := ComputeScheduleStats(list, now)
	assert.Equal(t, 3, stats.ActiveCount)
	assert.Equal(t, 2, stats.OverdueCount)
	assert.True(t, stats.RemainingTotal.Equal(d("550")))
	require.NotNil(t, stats.NextDueDate)
	assert.Equal(t, day(2026, 3, 10), *stats.NextDueDate)

	empty := ComputeScheduleStats(nil, now)
	assert.Nil(t, empty.NextDueDate)
	assert.True(t, empty.RemainingTotal.IsZero())
}

func TestValidateAmount(t *testing.T) {
	params := &model.RegionalPaymentParams{CashCeiling: d("500000"), MobileMoneyCeiling: d("2000000"), CurrencySymbol: "FCFA"}
	f := NewCurrencyFormatter("en", "FCFA")

	res := ValidateAmount(d("600000"), "especes", params, f)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, f.Format(d("500000")))

	assert.True(t, ValidateAmount(d("500000"), "especes", params, f).Valid, "ceiling itself is allowed")

	res = ValidateAmount(d("2500000"), "mobile_money", params, f)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "2,000,000 FCFA")

	assert.True(t, ValidateAmount(d("99000000"), "virement", params, f).Valid)
	assert.True(t, ValidateAmount(d("99000000"), "carte_bancaire", params, f).Valid)

	noCeiling := &model.RegionalPaymentParams{}
	assert.True(t, ValidateAmount(d("1"), "especes", noCeiling, f).Valid)
}
