package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MethodKind identifies a payment method family. Codes are shared between
// regional defaults, tenant method configuration and recorded payments.
type MethodKind string

const (
	MethodCash        MethodKind = "especes"
	MethodMobileMoney MethodKind = "mobile_money"
	MethodCard        MethodKind = "carte_bancaire"
	MethodTransfer    MethodKind = "virement"
	MethodCheque      MethodKind = "cheque"
)

// MethodKinds lists the registered method codes in display order.
func MethodKinds() []MethodKind {
	return []MethodKind{MethodCash, MethodMobileMoney, MethodCard, MethodTransfer, MethodCheque}
}

func (k MethodKind) Valid() bool {
	switch k {
	case MethodCash, MethodMobileMoney, MethodCard, MethodTransfer, MethodCheque:
		return true
	}
	return false
}

type DefaultPaymentMethod struct {
	Code                MethodKind      `json:"code" validate:"required"`
	Label               string          `json:"libelle" validate:"required,max=100"`
	Icon                string          `json:"icone,omitempty" validate:"max=50"`
	Color               string          `json:"couleur,omitempty" validate:"omitempty,hexcolor"`
	FeePercentage       decimal.Decimal `json:"frais_pourcentage"`
	FixedFee            decimal.Decimal `json:"frais_fixes"`
	CollectionDelayDays int             `json:"delai_encaissement" validate:"gte=0,lte=365"`
	RequiresReference   bool            `json:"necessite_reference"`
	RequiresValidation  bool            `json:"necessite_validation"`
}

var validate = validator.New()

// Validate checks a single default entry, including the kind-specific rules
// that struct tags cannot express.
func (m DefaultPaymentMethod) Validate() error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	if m.FeePercentage.IsNegative() || m.FeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%s: frais_pourcentage out of range", m.Code)
	}
	if m.FixedFee.IsNegative() {
		return fmt.Errorf("%s: frais_fixes must not be negative", m.Code)
	}

	switch m.Code {
	case MethodCash:
		if m.CollectionDelayDays != 0 {
			return fmt.Errorf("%s: cash is collected immediately", m.Code)
		}
	case MethodMobileMoney, MethodCard, MethodTransfer, MethodCheque:
	default:
		return fmt.Errorf("unknown payment method code %q", m.Code)
	}
	return nil
}

// ParseDefaultMethods decodes the JSONB default method list and rejects any
// entry that does not validate.
func ParseDefaultMethods(raw []byte) ([]DefaultPaymentMethod, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []DefaultPaymentMethod{}, nil
	}

	var methods []DefaultPaymentMethod
	if err := json.Unmarshal(raw, &methods); err != nil {
		return nil, fmt.Errorf("decode default payment methods: %w", err)
	}
	for i, m := range methods {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("default payment method %d: %w", i, err)
		}
	}
	return methods, nil
}

type RegionalPaymentParams struct {
	ID                      uuid.UUID              `json:"id"`
	TenantID                uuid.UUID              `json:"tenant_id"`
	Country                 string                 `json:"pays"`
	CountryCode             string                 `json:"code_pays"`
	Currency                string                 `json:"devise_principale"`
	CurrencySymbol          string                 `json:"symbole_devise"`
	DefaultMethods          []DefaultPaymentMethod `json:"modes_paiement_defaut"`
	IBANFormat              string                 `json:"format_iban,omitempty"`
	IBANValidation          bool                   `json:"validation_iban"`
	SWIFTRequired           bool                   `json:"swift_obligatoire"`
	StandardBankFee         decimal.Decimal        `json:"frais_bancaires_standard"`
	MobileMoneyFeePct       decimal.Decimal        `json:"frais_mobile_money_pourcentage"`
	CardFeePct              decimal.Decimal        `json:"frais_carte_pourcentage"`
	ChequeDelayDays         int                    `json:"delai_encaissement_cheque"`
	TransferDelayDays       int                    `json:"delai_encaissement_virement"`
	CashCeiling             decimal.Decimal        `json:"plafond_especes"`
	MobileMoneyCeiling      decimal.Decimal        `json:"plafond_mobile_money"`
	KYCThreshold            decimal.Decimal        `json:"seuil_kyc"`
	ReconciliationTolerance decimal.Decimal        `json:"tolerance_rapprochement"`
	IsActive                bool                   `json:"is_active"`
	CreatedAt               time.Time              `json:"created_at"`
	UpdatedAt               time.Time              `json:"updated_at"`
}
