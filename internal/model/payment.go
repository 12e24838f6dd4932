package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod struct {
	ID                  uuid.UUID       `json:"id"`
	TenantID            uuid.UUID       `json:"tenant_id"`
	Code                string          `json:"code"`
	Label               string          `json:"libelle"`
	IsActive            bool            `json:"est_actif"`
	DisplayOrder        int             `json:"ordre_affichage"`
	BankAccountID       *uuid.UUID      `json:"compte_bancaire_id,omitempty"`
	RequiresReference   bool            `json:"necessite_reference"`
	RequiresValidation  bool            `json:"necessite_validation"`
	CollectionDelayDays int             `json:"delai_encaissement"`
	FeePercentage       decimal.Decimal `json:"frais_pourcentage"`
	FixedFee            decimal.Decimal `json:"frais_fixes"`
	Icon                string          `json:"icone,omitempty"`
	Color               string          `json:"couleur,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// InvoicePayment is a row of paiements_factures joined to its invoice and
// counterparty (client for sales invoices, supplier for purchase invoices).
type InvoicePayment struct {
	ID            uuid.UUID
	InvoiceNumber string
	PaymentDate   time.Time
	Amount        decimal.Decimal
	MethodCode    string
	Reference     string
	Notes         string
	ClientName    string
	SupplierName  string
}

// SaleCollection is a row of encaissements joined to its sale and client.
type SaleCollection struct {
	ID          uuid.UUID
	SaleNumber  string
	CollectedAt time.Time
	Amount      decimal.Decimal
	MethodCode  string
	Reference   string
	Notes       string
	ClientName  string
}

// PaymentLink is the reconciliation state a bank transaction carries for the
// payment it points at.
type PaymentLink struct {
	PaymentType PaymentSourceType
	PaymentID   uuid.UUID
	Status      ReconciliationStatus
}

// ConsolidatedPayment is the read-time union of invoice payments and sale
// collections. It is never stored.
type ConsolidatedPayment struct {
	ID             string               `json:"id"`
	SourceID       uuid.UUID            `json:"source_id"`
	Type           PaymentSourceType    `json:"type"`
	DocumentNumber string               `json:"numero_piece"`
	Date           time.Time            `json:"date_paiement"`
	Amount         decimal.Decimal      `json:"montant"`
	Method         string               `json:"mode_paiement"`
	Reference      string               `json:"reference,omitempty"`
	Status         ReconciliationStatus `json:"statut"`
	Counterparty   string               `json:"tiers"`
	Notes          string               `json:"notes,omitempty"`
}
