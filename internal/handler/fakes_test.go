package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

// memStore keeps every table the services touch in memory, scoped by tenant
// the same way the SQL repositories are.
type memStore struct {
	mu          sync.Mutex
	params      map[uuid.UUID]*model.RegionalPaymentParams
	invoices    map[uuid.UUID][]model.InvoicePayment
	collections map[uuid.UUID][]model.SaleCollection
	accounts    map[uuid.UUID]*model.BankAccount
	txns        map[uuid.UUID]*model.BankTransaction
	schedules   map[uuid.UUID]*model.PaymentSchedule
	methods     map[uuid.UUID]*model.PaymentMethod
}

func newMemStore() *memStore {
	return &memStore{
		params:      map[uuid.UUID]*model.RegionalPaymentParams{},
		invoices:    map[uuid.UUID][]model.InvoicePayment{},
		collections: map[uuid.UUID][]model.SaleCollection{},
		accounts:    map[uuid.UUID]*model.BankAccount{},
		txns:        map[uuid.UUID]*model.BankTransaction{},
		schedules:   map[uuid.UUID]*model.PaymentSchedule{},
		methods:     map[uuid.UUID]*model.PaymentMethod{},
	}
}

func notFound(what string) error { return fmt.Errorf("%s: %w", what, pgx.ErrNoRows) }

type memParams struct{ *memStore }

func (s memParams) FindByTenant(_ context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.params[tenantID]
	if !ok {
		return nil, notFound("find regional params")
	}
	cp := *p
	return &cp, nil
}

func (s memParams) InitForTenant(_ context.Context, tenantID uuid.UUID, countryCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if countryCode != "CG" {
		return fmt.Errorf("no defaults for %s", countryCode)
	}
	if _, ok := s.params[tenantID]; !ok {
		s.params[tenantID] = &model.RegionalPaymentParams{
			ID:                 uuid.New(),
			TenantID:           tenantID,
			Country:            "Congo",
			CountryCode:        "CG",
			Currency:           "XAF",
			CurrencySymbol:     "FCFA",
			CashCeiling:        decimal.NewFromInt(500000),
			MobileMoneyCeiling: decimal.NewFromInt(2000000),
			DefaultMethods: []model.DefaultPaymentMethod{
				{Code: model.MethodCash, Label: "Espèces", FeePercentage: decimal.Zero, FixedFee: decimal.Zero},
				{Code: model.MethodMobileMoney, Label: "Mobile Money", FeePercentage: decimal.RequireFromString("1.5"), FixedFee: decimal.Zero},
				{Code: model.MethodTransfer, Label: "Virement", FeePercentage: decimal.Zero, FixedFee: decimal.Zero, CollectionDelayDays: 2},
			},
			IsActive: true,
		}
	}
	return nil
}

func (s memParams) Update(_ context.Context, p *model.RegionalPaymentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.params[p.TenantID] = &cp
	return nil
}

type memPayments struct{ *memStore }

func (s memPayments) InvoicePayments(_ context.Context, tenantID uuid.UUID) ([]model.InvoicePayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.InvoicePayment{}, s.invoices[tenantID]...), nil
}

func (s memPayments) SaleCollections(_ context.Context, tenantID uuid.UUID) ([]model.SaleCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SaleCollection{}, s.collections[tenantID]...), nil
}

func (s memPayments) paymentExists(tenantID uuid.UUID, t model.PaymentSourceType, id uuid.UUID) bool {
	if t == model.SourceInvoice {
		for _, p := range s.invoices[tenantID] {
			if p.ID == id {
				return true
			}
		}
		return false
	}
	for _, c := range s.collections[tenantID] {
		if c.ID == id {
			return true
		}
	}
	return false
}

type memAccounts struct{ *memStore }

func (s memAccounts) List(_ context.Context, tenantID uuid.UUID) ([]model.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.BankAccount{}
	for _, a := range s.accounts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memAccounts) Get(_ context.Context, tenantID, id uuid.UUID) (*model.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, notFound("get bank account")
	}
	cp := *a
	return &cp, nil
}

func (s memAccounts) Create(_ context.Context, a *model.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New()
	a.CurrentBalance = a.OpeningBalance
	a.ReconciledBalance = a.OpeningBalance
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s memAccounts) Update(_ context.Context, a *model.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.accounts[a.ID]
	if !ok || cur.TenantID != a.TenantID {
		return notFound("lock bank account")
	}
	if !a.AllowsBalance(cur.CurrentBalance) {
		return model.ErrOverdraftExceeded
	}
	a.OpeningBalance = cur.OpeningBalance
	a.CurrentBalance = cur.CurrentBalance
	a.ReconciledBalance = cur.ReconciledBalance
	a.IsActive = cur.IsActive
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s memAccounts) SetActive(_ context.Context, tenantID, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	a.IsActive = active
	return nil
}

func (s memAccounts) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(s.accounts, id)
	return nil
}

type memTxns struct{ *memStore }

func (s memTxns) List(_ context.Context, tenantID uuid.UUID, accountID *uuid.UUID) ([]model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.BankTransaction{}
	for _, t := range s.txns {
		if t.TenantID != tenantID || (accountID != nil && t.AccountID != *accountID) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionDate.After(out[j].TransactionDate) })
	return out, nil
}

func (s memTxns) Get(_ context.Context, tenantID, id uuid.UUID) (*model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.TenantID != tenantID {
		return nil, notFound("get bank transaction")
	}
	cp := *t
	return &cp, nil
}

func (s memTxns) Links(_ context.Context, tenantID uuid.UUID) ([]model.PaymentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.PaymentLink{}
	for _, t := range s.txns {
		if t.TenantID != tenantID {
			continue
		}
		switch {
		case t.InvoicePaymentID != nil:
			out = append(out, model.PaymentLink{PaymentType: model.SourceInvoice, PaymentID: *t.InvoicePaymentID, Status: t.Status})
		case t.CollectionID != nil:
			out = append(out, model.PaymentLink{PaymentType: model.SourceSale, PaymentID: *t.CollectionID, Status: t.Status})
		}
	}
	return out, nil
}

func (s memTxns) Post(_ context.Context, t *model.BankTransaction) (*model.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[t.AccountID]
	if !ok || acc.TenantID != t.TenantID {
		return nil, notFound("lock bank account")
	}
	if !acc.IsActive {
		return nil, model.ErrAccountInactive
	}
	balance, err := model.ApplyPosting(acc, t)
	if err != nil {
		return nil, err
	}
	t.ID = uuid.New()
	t.Status = model.StatusUnreconciled
	cp := *t
	s.txns[t.ID] = &cp
	acc.CurrentBalance = balance
	out := *acc
	return &out, nil
}

func (s memTxns) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.TenantID != tenantID {
		return notFound("lock bank transaction")
	}
	if t.Status != model.StatusUnreconciled {
		return model.ErrTransactionLocked
	}
	acc := s.accounts[t.AccountID]
	balance, err := model.ReversePosting(acc, t)
	if err != nil {
		return err
	}
	acc.CurrentBalance = balance
	delete(s.txns, id)
	return nil
}

func (s memTxns) Reconcile(_ context.Context, tenantID, id uuid.UUID, rec model.Reconciliation) (*model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.TenantID != tenantID {
		return nil, notFound("lock bank transaction")
	}
	if !t.Status.CanTransitionTo(model.StatusReconciled) {
		return nil, model.ErrInvalidStatusTransition
	}
	if !(memPayments{s.memStore}).paymentExists(tenantID, rec.PaymentType, rec.PaymentID) {
		return nil, model.ErrPaymentNotFound
	}
	rec.Apply(t)
	acc := s.accounts[t.AccountID]
	acc.ReconciledBalance = acc.ReconciledBalance.Add(t.SignedAmount())
	cp := *t
	return &cp, nil
}

func (s memTxns) SetStatus(_ context.Context, tenantID, id uuid.UUID, status model.ReconciliationStatus, at time.Time) (*model.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.TenantID != tenantID {
		return nil, notFound("lock bank transaction")
	}
	if status == model.StatusReconciled || !t.Status.CanTransitionTo(status) {
		return nil, model.ErrInvalidStatusTransition
	}
	t.Status = status
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}

type memSchedules struct{ *memStore }

func (s memSchedules) List(_ context.Context, tenantID uuid.UUID, withLines bool) ([]model.PaymentSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.PaymentSchedule{}
	for _, sc := range s.schedules {
		if sc.TenantID != tenantID {
			continue
		}
		cp := *sc
		if withLines {
			cp.Lines = append([]model.ScheduleLine{}, sc.Lines...)
		} else {
			cp.Lines = nil
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstDueDate.Before(out[j].FirstDueDate) })
	return out, nil
}

func (s memSchedules) Get(_ context.Context, tenantID, id uuid.UUID) (*model.PaymentSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[id]
	if !ok || sc.TenantID != tenantID {
		return nil, notFound("get schedule")
	}
	cp := *sc
	cp.Lines = append([]model.ScheduleLine{}, sc.Lines...)
	return &cp, nil
}

func (s memSchedules) Create(_ context.Context, sc *model.PaymentSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.ID = uuid.New()
	for i := range sc.Lines {
		sc.Lines[i].ID = uuid.New()
		sc.Lines[i].TenantID = sc.TenantID
		sc.Lines[i].ScheduleID = sc.ID
	}
	cp := *sc
	cp.Lines = append([]model.ScheduleLine{}, sc.Lines...)
	s.schedules[sc.ID] = &cp
	return nil
}

func (s memSchedules) SetStatus(_ context.Context, tenantID, id uuid.UUID, next model.ScheduleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[id]
	if !ok || sc.TenantID != tenantID {
		return notFound("lock schedule")
	}
	if !sc.Status.CanTransitionTo(next) {
		return model.ErrInvalidStatusTransition
	}
	sc.Status = next
	return nil
}

func (s memSchedules) RecordLinePayment(_ context.Context, tenantID, scheduleID, lineID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[scheduleID]
	if !ok || sc.TenantID != tenantID {
		return notFound("lock schedule")
	}
	if sc.Status != model.ScheduleActive {
		return model.ErrScheduleNotActive
	}
	for i := range sc.Lines {
		l := &sc.Lines[i]
		if l.ID != lineID {
			continue
		}
		if !l.Open() {
			return model.ErrLineClosed
		}
		if amount.GreaterThan(l.RemainingAmount) {
			return model.ErrAmountExceedsRemaining
		}
		l.ApplyPayment(amount, at)
		sc.RecordPayment(amount)
		return nil
	}
	return notFound("lock schedule line")
}

type memMethods struct{ *memStore }

func (s memMethods) List(_ context.Context, tenantID uuid.UUID) ([]model.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.PaymentMethod{}
	for _, m := range s.methods {
		if m.TenantID == tenantID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s memMethods) Get(_ context.Context, tenantID, id uuid.UUID) (*model.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.methods[id]
	if !ok || m.TenantID != tenantID {
		return nil, notFound("get payment method")
	}
	cp := *m
	return &cp, nil
}

func (s memMethods) Codes(_ context.Context, tenantID uuid.UUID) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := map[string]bool{}
	for _, m := range s.methods {
		if m.TenantID == tenantID {
			codes[m.Code] = true
		}
	}
	return codes, nil
}

func (s memMethods) Create(_ context.Context, m *model.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New()
	cp := *m
	s.methods[m.ID] = &cp
	return nil
}

func (s memMethods) InsertBatch(ctx context.Context, methods []*model.PaymentMethod) (int, error) {
	created := 0
	for _, m := range methods {
		codes, _ := s.Codes(ctx, m.TenantID)
		if codes[m.Code] {
			continue
		}
		if err := s.Create(ctx, m); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s memMethods) Update(_ context.Context, m *model.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.methods[m.ID]
	if !ok || cur.TenantID != m.TenantID {
		return notFound("update payment method")
	}
	cp := *m
	s.methods[m.ID] = &cp
	return nil
}

func (s memMethods) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.methods[id]
	if !ok || m.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(s.methods, id)
	return nil
}
