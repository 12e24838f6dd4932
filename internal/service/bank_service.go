package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type BankAccountStore interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]model.BankAccount, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.BankAccount, error)
	Create(ctx context.Context, a *model.BankAccount) error
	Update(ctx context.Context, a *model.BankAccount) error
	SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type BankTransactionStore interface {
	List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID) ([]model.BankTransaction, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.BankTransaction, error)
	Post(ctx context.Context, t *model.BankTransaction) (*model.BankAccount, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Reconcile(ctx context.Context, tenantID, id uuid.UUID, rec model.Reconciliation) (*model.BankTransaction, error)
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.ReconciliationStatus, at time.Time) (*model.BankTransaction, error)
}

type BankService struct {
	accounts     BankAccountStore
	transactions BankTransactionStore
	now          func() time.Time
}

func NewBankService(accounts BankAccountStore, transactions BankTransactionStore) *BankService {
	return &BankService{accounts: accounts, transactions: transactions, now: time.Now}
}

func (s *BankService) ListAccounts(ctx context.Context, tenantID uuid.UUID) ([]model.BankAccount, error) {
	return s.accounts.List(ctx, tenantID)
}

func (s *BankService) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*model.BankAccount, error) {
	return s.accounts.Get(ctx, tenantID, id)
}

func (s *BankService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req *dto.BankAccountRequest) (*model.BankAccount, error) {
	a, err := accountFromRequest(tenantID, req)
	if err != nil {
		return nil, err
	}
	a.IsActive = req.IsActive == nil || *req.IsActive
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAccount changes descriptive fields; the opening balance and the
// active flag are ignored here.
func (s *BankService) UpdateAccount(ctx context.Context, tenantID, id uuid.UUID, req *dto.BankAccountRequest) (*model.BankAccount, error) {
	a, err := accountFromRequest(tenantID, req)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *BankService) SetAccountActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*model.BankAccount, error) {
	if err := s.accounts.SetActive(ctx, tenantID, id, active); err != nil {
		return nil, err
	}
	return s.accounts.Get(ctx, tenantID, id)
}

func (s *BankService) DeleteAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.accounts.Delete(ctx, tenantID, id)
}

func accountFromRequest(tenantID uuid.UUID, req *dto.BankAccountRequest) (*model.BankAccount, error) {
	if req.OverdraftLimit.IsNegative() {
		return nil, invalid("plafond_decouvert", "must not be negative")
	}
	if !req.OverdraftAllowed && req.OverdraftLimit.IsPositive() {
		return nil, invalid("plafond_decouvert", "requires autorise_decouvert")
	}
	return &model.BankAccount{
		TenantID:         tenantID,
		Name:             req.Name,
		Number:           req.Number,
		Bank:             req.Bank,
		Type:             model.AccountType(req.Type),
		Currency:         req.Currency,
		OpeningBalance:   req.OpeningBalance,
		OverdraftAllowed: req.OverdraftAllowed,
		OverdraftLimit:   req.OverdraftLimit,
		IBAN:             req.IBAN,
		SWIFT:            req.SWIFT,
		ContactName:      req.ContactName,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
	}, nil
}

// ListTransactions returns the tenant's transactions, optionally narrowed to
// one account. An account outside the tenant simply yields nothing.
func (s *BankService) ListTransactions(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID) ([]model.BankTransaction, error) {
	return s.transactions.List(ctx, tenantID, accountID)
}

func (s *BankService) GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*model.BankTransaction, error) {
	return s.transactions.Get(ctx, tenantID, id)
}

func (s *BankService) PostTransaction(ctx context.Context, tenantID uuid.UUID, req *dto.CreateBankTransactionRequest) (*model.BankTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, invalid("montant", "must be greater than zero")
	}

	t := &model.BankTransaction{
		TenantID:          tenantID,
		AccountID:         req.AccountID,
		Amount:            req.Amount,
		Direction:         model.TransactionDirection(req.Direction),
		TransactionDate:   req.TransactionDate.Time,
		Label:             req.Label,
		Description:       req.Description,
		Category:          req.Category,
		ExternalReference: req.ExternalReference,
		Attachments:       req.Attachments,
		ImportSource:      req.ImportSource,
	}
	if t.Attachments == nil {
		t.Attachments = []string{}
	}
	if req.ValueDate != nil {
		v := req.ValueDate.Time
		t.ValueDate = &v
	}

	if _, err := s.transactions.Post(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *BankService) DeleteTransaction(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.transactions.Delete(ctx, tenantID, id)
}

// Reconcile links the transaction to a payment on behalf of actor.
func (s *BankService) Reconcile(ctx context.Context, tenantID, id, actor uuid.UUID, req *dto.ReconcileRequest) (*model.BankTransaction, error) {
	pt := model.PaymentSourceType(req.PaymentType)
	if !pt.Valid() {
		return nil, invalid("type", "must be facture or vente")
	}
	return s.transactions.Reconcile(ctx, tenantID, id, model.Reconciliation{
		PaymentID:   req.PaymentID,
		PaymentType: pt,
		Actor:       actor,
		At:          s.now(),
	})
}

func (s *BankService) SetTransactionStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*model.BankTransaction, error) {
	next := model.ReconciliationStatus(status)
	if !next.Valid() {
		return nil, invalid("statut_rapprochement", "unknown status %q", status)
	}
	return s.transactions.SetStatus(ctx, tenantID, id, next, s.now())
}

func (s *BankService) Stats(ctx context.Context, tenantID uuid.UUID) (ReconciliationStats, error) {
	txns, err := s.transactions.List(ctx, tenantID, nil)
	if err != nil {
		return ReconciliationStats{}, err
	}
	return ComputeReconciliationStats(txns), nil
}
