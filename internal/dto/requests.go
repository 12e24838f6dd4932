package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

// Date accepts either a calendar date ("2006-01-02") or an RFC 3339
// timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// UpdateRegionalParamsRequest is a partial update: nil fields keep their
// stored value.
type UpdateRegionalParamsRequest struct {
	Country                 *string                       `json:"pays" binding:"omitempty,min=1,max=100"`
	CountryCode             *string                       `json:"code_pays" binding:"omitempty,len=2,uppercase"`
	Currency                *string                       `json:"devise_principale" binding:"omitempty,len=3,uppercase"`
	CurrencySymbol          *string                       `json:"symbole_devise" binding:"omitempty,min=1,max=10"`
	DefaultMethods          *[]model.DefaultPaymentMethod `json:"modes_paiement_defaut"`
	IBANFormat              *string                       `json:"format_iban" binding:"omitempty,max=64"`
	IBANValidation          *bool                         `json:"validation_iban"`
	SWIFTRequired           *bool                         `json:"swift_obligatoire"`
	StandardBankFee         *decimal.Decimal              `json:"frais_bancaires_standard"`
	MobileMoneyFeePct       *decimal.Decimal              `json:"frais_mobile_money_pourcentage"`
	CardFeePct              *decimal.Decimal              `json:"frais_carte_pourcentage"`
	ChequeDelayDays         *int                          `json:"delai_encaissement_cheque" binding:"omitempty,gte=0,lte=365"`
	TransferDelayDays       *int                          `json:"delai_encaissement_virement" binding:"omitempty,gte=0,lte=365"`
	CashCeiling             *decimal.Decimal              `json:"plafond_especes"`
	MobileMoneyCeiling      *decimal.Decimal              `json:"plafond_mobile_money"`
	KYCThreshold            *decimal.Decimal              `json:"seuil_kyc"`
	ReconciliationTolerance *decimal.Decimal              `json:"tolerance_rapprochement"`
}

type ValidateAmountRequest struct {
	Amount decimal.Decimal `json:"montant"`
	Method string          `json:"mode_paiement" binding:"required"`
}

type BankAccountRequest struct {
	Name             string          `json:"nom_compte" binding:"required,max=150"`
	Number           string          `json:"numero_compte" binding:"required,max=64"`
	Bank             string          `json:"banque" binding:"required,max=150"`
	Type             string          `json:"type_compte" binding:"required,oneof=courant epargne mobile_money caisse"`
	Currency         string          `json:"devise" binding:"required,len=3,uppercase"`
	OpeningBalance   decimal.Decimal `json:"solde_initial"`
	IsActive         *bool           `json:"est_actif"`
	OverdraftAllowed bool            `json:"autorise_decouvert"`
	OverdraftLimit   decimal.Decimal `json:"plafond_decouvert"`
	IBAN             *string         `json:"iban" binding:"omitempty,max=34"`
	SWIFT            *string         `json:"swift" binding:"omitempty,min=8,max=11"`
	ContactName      *string         `json:"contact_nom" binding:"omitempty,max=150"`
	ContactPhone     *string         `json:"contact_telephone" binding:"omitempty,max=32"`
	ContactEmail     *string         `json:"contact_email" binding:"omitempty,email"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"est_actif" binding:"required"`
}

type CreateBankTransactionRequest struct {
	AccountID         uuid.UUID       `json:"compte_bancaire_id" binding:"required"`
	Amount            decimal.Decimal `json:"montant"`
	Direction         string          `json:"type_transaction" binding:"required,oneof=debit credit"`
	TransactionDate   *Date           `json:"date_transaction" binding:"required"`
	ValueDate         *Date           `json:"date_valeur"`
	Label             string          `json:"libelle" binding:"required,max=255"`
	Description       string          `json:"description" binding:"max=1000"`
	Category          string          `json:"categorie" binding:"max=100"`
	ExternalReference string          `json:"reference_externe" binding:"max=100"`
	Attachments       []string        `json:"pieces_jointes" binding:"max=20,dive,max=500"`
	ImportSource      string          `json:"source_import" binding:"max=50"`
}

type ReconcileRequest struct {
	PaymentID   uuid.UUID `json:"payment_id" binding:"required"`
	PaymentType string    `json:"type" binding:"required,oneof=facture vente"`
}

type SetTransactionStatusRequest struct {
	Status string `json:"statut_rapprochement" binding:"required,oneof=rapproche_partiel suspect ignore"`
}

type CreateScheduleRequest struct {
	Label            string          `json:"libelle" binding:"required,max=255"`
	CounterpartyType string          `json:"type_tiers" binding:"required,oneof=client fournisseur"`
	CounterpartyName string          `json:"tiers_nom" binding:"required,max=255"`
	InvoiceID        *uuid.UUID      `json:"facture_id"`
	TotalAmount      decimal.Decimal `json:"montant_total"`
	IssueDate        *Date           `json:"date_emission"`
	FirstDueDate     *Date           `json:"date_premiere_echeance" binding:"required"`
	InstallmentCount int             `json:"nombre_echeances" binding:"required,gte=1,lte=120"`
	Periodicity      string          `json:"periodicite" binding:"required,oneof=unique mensuel trimestriel semestriel annuel"`
	AlertDaysBefore  *int            `json:"delai_alerte_jours" binding:"omitempty,gte=0,lte=365"`
	Notes            string          `json:"notes" binding:"max=2000"`
}

type SetScheduleStatusRequest struct {
	Status string `json:"statut" binding:"required,oneof=actif suspendu annule"`
}

type LinePaymentRequest struct {
	Amount decimal.Decimal `json:"montant"`
}

type PaymentMethodRequest struct {
	Code                string          `json:"code" binding:"required,max=50"`
	Label               string          `json:"libelle" binding:"required,max=100"`
	IsActive            *bool           `json:"est_actif"`
	DisplayOrder        int             `json:"ordre_affichage" binding:"gte=0"`
	BankAccountID       *uuid.UUID      `json:"compte_bancaire_id"`
	RequiresReference   bool            `json:"necessite_reference"`
	RequiresValidation  bool            `json:"necessite_validation"`
	CollectionDelayDays int             `json:"delai_encaissement" binding:"gte=0,lte=365"`
	FeePercentage       decimal.Decimal `json:"frais_pourcentage"`
	FixedFee            decimal.Decimal `json:"frais_fixes"`
	Icon                string          `json:"icone" binding:"max=50"`
	Color               string          `json:"couleur" binding:"omitempty,hexcolor"`
	Notes               string          `json:"notes" binding:"max=1000"`
}
