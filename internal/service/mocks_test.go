package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type mockParamsStore struct{ mock.Mock }

func (m *mockParamsStore) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, error) {
	args := m.Called(ctx, tenantID)
	p, _ := args.Get(0).(*model.RegionalPaymentParams)
	return p, args.Error(1)
}

func (m *mockParamsStore) InitForTenant(ctx context.Context, tenantID uuid.UUID, countryCode string) error {
	return m.Called(ctx, tenantID, countryCode).Error(0)
}

func (m *mockParamsStore) Update(ctx context.Context, p *model.RegionalPaymentParams) error {
	return m.Called(ctx, p).Error(0)
}

type mockParamsCache struct{ mock.Mock }

func (m *mockParamsCache) Get(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, bool, error) {
	args := m.Called(ctx, tenantID)
	p, _ := args.Get(0).(*model.RegionalPaymentParams)
	return p, args.Bool(1), args.Error(2)
}

func (m *mockParamsCache) Set(ctx context.Context, p *model.RegionalPaymentParams) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockParamsCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

type stubParams struct {
	params *model.RegionalPaymentParams
	err    error
}

func (s stubParams) Fetch(context.Context, uuid.UUID) (*model.RegionalPaymentParams, error) {
	return s.params, s.err
}

type mockPaymentSource struct{ mock.Mock }

func (m *mockPaymentSource) InvoicePayments(ctx context.Context, tenantID uuid.UUID) ([]model.InvoicePayment, error) {
	args := m.Called(ctx, tenantID)
	list, _ := args.Get(0).([]model.InvoicePayment)
	return list, args.Error(1)
}

func (m *mockPaymentSource) SaleCollections(ctx context.Context, tenantID uuid.UUID) ([]model.SaleCollection, error) {
	args := m.Called(ctx, tenantID)
	list, _ := args.Get(0).([]model.SaleCollection)
	return list, args.Error(1)
}

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) List(ctx context.Context, tenantID uuid.UUID) ([]model.BankAccount, error) {
	args := m.Called(ctx, tenantID)
	list, _ := args.Get(0).([]model.BankAccount)
	return list, args.Error(1)
}

func (m *mockAccountStore) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.BankAccount, error) {
	args := m.Called(ctx, tenantID, id)
	a, _ := args.Get(0).(*model.BankAccount)
	return a, args.Error(1)
}

func (m *mockAccountStore) Create(ctx context.Context, a *model.BankAccount) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountStore) Update(ctx context.Context, a *model.BankAccount) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountStore) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	return m.Called(ctx, tenantID, id, active).Error(0)
}

func (m *mockAccountStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockTransactionStore struct{ mock.Mock }

func (m *mockTransactionStore) List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID) ([]model.BankTransaction, error) {
	args := m.Called(ctx, tenantID, accountID)
	list, _ := args.Get(0).([]model.BankTransaction)
	return list, args.Error(1)
}

func (m *mockTransactionStore) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.BankTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	t, _ := args.Get(0).(*model.BankTransaction)
	return t, args.Error(1)
}

func (m *mockTransactionStore) Links(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentLink, error) {
	args := m.Called(ctx, tenantID)
	list, _ := args.Get(0).([]model.PaymentLink)
	return list, args.Error(1)
}

func (m *mockTransactionStore) Post(ctx context.Context, t *model.BankTransaction) (*model.BankAccount, error) {
	args := m.Called(ctx, t)
	a, _ := args.Get(0).(*model.BankAccount)
	return a, args.Error(1)
}

func (m *mockTransactionStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockTransactionStore) Reconcile(ctx context.Context, tenantID, id uuid.UUID, rec model.Reconciliation) (*model.BankTransaction, error) {
	args := m.Called(ctx, tenantID, id, rec)
	t, _ := args.Get(0).(*model.BankTransaction)
	return t, args.Error(1)
}

func (m *mockTransactionStore) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.ReconciliationStatus, at time.Time) (*model.BankTransaction, error) {
	args := m.Called(ctx, tenantID, id, status, at)
	t, _ := args.Get(0).(*model.BankTransaction)
	return t, args.Error(1)
}

type mockScheduleStore struct{ mock.Mock }

func (m *mockScheduleStore) List(ctx context.Context, tenantID uuid.UUID, withLines bool) ([]model.PaymentSchedule, error) {
	args := m.Called(ctx, tenantID, withLines)
	list, _ := args.Get(0).([]model.PaymentSchedule)
	return list, args.Error(1)
}

func (m *mockScheduleStore) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentSchedule, error) {
	args := m.Called(ctx, tenantID, id)
	s, _ := args.Get(0).(*model.PaymentSchedule)
	return s, args.Error(1)
}

func (m *mockScheduleStore) Create(ctx context.Context, s *model.PaymentSchedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockScheduleStore) SetStatus(ctx context.Context, tenantID, id uuid.UUID, next model.ScheduleStatus) error {
	return m.Called(ctx, tenantID, id, next).Error(0)
}

func (m *mockScheduleStore) RecordLinePayment(ctx context.Context, tenantID, scheduleID, lineID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	return m.Called(ctx, tenantID, scheduleID, lineID, amount, at).Error(0)
}

type mockMethodStore struct{ mock.Mock }

func (m *mockMethodStore) List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	list, _ := args.Get(0).([]model.PaymentMethod)
	return list, args.Error(1)
}

func (m *mockMethodStore) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentMethod, error) {
	args := m.Called(ctx, tenantID, id)
	pm, _ := args.Get(0).(*model.PaymentMethod)
	return pm, args.Error(1)
}

func (m *mockMethodStore) Codes(ctx context.Context, tenantID uuid.UUID) (map[string]bool, error) {
	args := m.Called(ctx, tenantID)
	codes, _ := args.Get(0).(map[string]bool)
	return codes, args.Error(1)
}

func (m *mockMethodStore) Create(ctx context.Context, pm *model.PaymentMethod) error {
	return m.Called(ctx, pm).Error(0)
}

func (m *mockMethodStore) InsertBatch(ctx context.Context, methods []*model.PaymentMethod) (int, error) {
	args := m.Called(ctx, methods)
	return args.Int(0), args.Error(1)
}

func (m *mockMethodStore) Update(ctx context.Context, pm *model.PaymentMethod) error {
	return m.Called(ctx, pm).Error(0)
}

func (m *mockMethodStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}
