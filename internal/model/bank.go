package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountCurrent     AccountType = "courant"
	AccountSavings     AccountType = "epargne"
	AccountMobileMoney AccountType = "mobile_money"
	AccountCash        AccountType = "caisse"
)

type BankAccount struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Name              string          `json:"nom_compte"`
	Number            string          `json:"numero_compte"`
	Bank              string          `json:"banque"`
	Type              AccountType     `json:"type_compte"`
	Currency          string          `json:"devise"`
	OpeningBalance    decimal.Decimal `json:"solde_initial"`
	CurrentBalance    decimal.Decimal `json:"solde_actuel"`
	ReconciledBalance decimal.Decimal `json:"solde_rapproche"`
	IsActive          bool            `json:"est_actif"`
	OverdraftAllowed  bool            `json:"autorise_decouvert"`
	OverdraftLimit    decimal.Decimal `json:"plafond_decouvert"`
	IBAN              *string         `json:"iban,omitempty"`
	SWIFT             *string         `json:"swift,omitempty"`
	ContactName       *string         `json:"contact_nom,omitempty"`
	ContactPhone      *string         `json:"contact_telephone,omitempty"`
	ContactEmail      *string         `json:"contact_email,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type TransactionDirection string

const (
	DirectionDebit  TransactionDirection = "debit"
	DirectionCredit TransactionDirection = "credit"
)

type ReconciliationStatus string

const (
	StatusUnreconciled     ReconciliationStatus = "non_rapproche"
	StatusReconciled       ReconciliationStatus = "rapproche"
	StatusPartiallyMatched ReconciliationStatus = "rapproche_partiel"
	StatusSuspect          ReconciliationStatus = "suspect"
	StatusIgnored          ReconciliationStatus = "ignore"
)

func (s ReconciliationStatus) Valid() bool {
	switch s {
	case StatusUnreconciled, StatusReconciled, StatusPartiallyMatched, StatusSuspect, StatusIgnored:
		return true
	}
	return false
}

// CanTransitionTo reports whether a bank transaction may move from s to next.
// Transitions are one-directional: only unreconciled transactions move.
func (s ReconciliationStatus) CanTransitionTo(next ReconciliationStatus) bool {
	if s != StatusUnreconciled {
		return false
	}
	return next.Valid() && next != StatusUnreconciled
}

// PaymentSourceType tells which source table a consolidated payment came from.
type PaymentSourceType string

const (
	SourceInvoice PaymentSourceType = "facture"
	SourceSale    PaymentSourceType = "vente"
)

func (t PaymentSourceType) Valid() bool {
	return t == SourceInvoice || t == SourceSale
}

type BankTransaction struct {
	ID                uuid.UUID            `json:"id"`
	TenantID          uuid.UUID            `json:"tenant_id"`
	AccountID         uuid.UUID            `json:"compte_bancaire_id"`
	Amount            decimal.Decimal      `json:"montant"`
	Direction         TransactionDirection `json:"type_transaction"`
	TransactionDate   time.Time            `json:"date_transaction"`
	ValueDate         *time.Time           `json:"date_valeur,omitempty"`
	Label             string               `json:"libelle"`
	Description       string               `json:"description,omitempty"`
	Category          string               `json:"categorie,omitempty"`
	ExternalReference string               `json:"reference_externe,omitempty"`
	Status            ReconciliationStatus `json:"statut_rapprochement"`
	ReconciledAt      *time.Time           `json:"date_rapprochement,omitempty"`
	ReconciledBy      *uuid.UUID           `json:"rapproche_par,omitempty"`
	InvoicePaymentID  *uuid.UUID           `json:"paiement_facture_id,omitempty"`
	CollectionID      *uuid.UUID           `json:"encaissement_id,omitempty"`
	Attachments       []string             `json:"pieces_jointes"`
	ImportSource      string               `json:"source_import,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// SignedAmount is the effect of the transaction on its account balance.
func (t *BankTransaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Reconciliation carries what a reconciliation stamps on a transaction.
type Reconciliation struct {
	PaymentID   uuid.UUID
	PaymentType PaymentSourceType
	Actor       uuid.UUID
	At          time.Time
}

// Apply sets status, date, actor and exactly one payment link.
func (r Reconciliation) Apply(t *BankTransaction) {
	pid := r.PaymentID
	actor := r.Actor
	at := r.At

	t.Status = StatusReconciled
	t.ReconciledAt = &at
	t.ReconciledBy = &actor
	t.InvoicePaymentID = nil
	t.CollectionID = nil
	if r.PaymentType == SourceInvoice {
		t.InvoicePaymentID = &pid
	} else {
		t.CollectionID = &pid
	}
}

// AllowsBalance reports whether balance is within the account's overdraft
// settings.
func (a *BankAccount) AllowsBalance(balance decimal.Decimal) bool {
	if !balance.IsNegative() {
		return true
	}
	return a.OverdraftAllowed && !balance.LessThan(a.OverdraftLimit.Abs().Neg())
}

// ApplyPosting returns the account balance after posting t, refusing debits
// that would go below zero without overdraft or below the overdraft limit.
func ApplyPosting(acc *BankAccount, t *BankTransaction) (decimal.Decimal, error) {
	next := acc.CurrentBalance.Add(t.SignedAmount())
	if t.Direction == DirectionCredit || acc.AllowsBalance(next) {
		return next, nil
	}
	return acc.CurrentBalance, ErrOverdraftExceeded
}

// ReversePosting returns the account balance after removing t. Removing a
// credit is a debit and obeys the same overdraft rule.
func ReversePosting(acc *BankAccount, t *BankTransaction) (decimal.Decimal, error) {
	mirror := *t
	mirror.Direction = DirectionCredit
	if t.Direction == DirectionCredit {
		mirror.Direction = DirectionDebit
	}
	return ApplyPosting(acc, &mirror)
}
