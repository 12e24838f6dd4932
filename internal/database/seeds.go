package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/model"
	"github.com/anyulbade/pharmacy-payments/seeddata"
)

// RegionalDefault is one row of parametres_paiements_defauts_pays.
type RegionalDefault struct {
	CountryCode             string          `json:"code_pays"`
	Country                 string          `json:"pays"`
	Currency                string          `json:"devise_principale"`
	CurrencySymbol          string          `json:"symbole_devise"`
	DefaultMethods          json.RawMessage `json:"modes_paiement_defaut"`
	IBANFormat              string          `json:"format_iban"`
	IBANValidation          bool            `json:"validation_iban"`
	SWIFTRequired           bool            `json:"swift_obligatoire"`
	StandardBankFee         decimal.Decimal `json:"frais_bancaires_standard"`
	MobileMoneyFeePct       decimal.Decimal `json:"frais_mobile_money_pourcentage"`
	CardFeePct              decimal.Decimal `json:"frais_carte_pourcentage"`
	ChequeDelayDays         int             `json:"delai_encaissement_cheque"`
	TransferDelayDays       int             `json:"delai_encaissement_virement"`
	CashCeiling             decimal.Decimal `json:"plafond_especes"`
	MobileMoneyCeiling      decimal.Decimal `json:"plafond_mobile_money"`
	KYCThreshold            decimal.Decimal `json:"seuil_kyc"`
	ReconciliationTolerance decimal.Decimal `json:"tolerance_rapprochement"`
}

// LoadRegionalDefaults decodes the embedded per-country defaults and checks
// every default method list.
func LoadRegionalDefaults() ([]RegionalDefault, error) {
	var rows []RegionalDefault
	if err := json.Unmarshal(seeddata.RegionalDefaultsJSON, &rows); err != nil {
		return nil, fmt.Errorf("parse regional defaults JSON: %w", err)
	}
	for _, r := range rows {
		if _, err := model.ParseDefaultMethods(r.DefaultMethods); err != nil {
			return nil, fmt.Errorf("regional defaults %s: %w", r.CountryCode, err)
		}
	}
	return rows, nil
}

// SeedRegionalDefaults inserts the per-country defaults. Countries already
// present are left untouched, so the seed can run on every start.
func SeedRegionalDefaults(ctx context.Context, pool *pgxpool.Pool) error {
	rows, err := LoadRegionalDefaults()
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, r := range rows {
		tag, err := tx.Exec(ctx,
			`INSERT INTO parametres_paiements_defauts_pays (
				code_pays, pays, devise_principale, symbole_devise, modes_paiement_defaut,
				format_iban, validation_iban, swift_obligatoire, frais_bancaires_standard,
				frais_mobile_money_pourcentage, frais_carte_pourcentage, delai_encaissement_cheque,
				delai_encaissement_virement, plafond_especes, plafond_mobile_money, seuil_kyc,
				tolerance_rapprochement)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (code_pays) DO NOTHING`,
			r.CountryCode, r.Country, r.Currency, r.CurrencySymbol, []byte(r.DefaultMethods),
			r.IBANFormat, r.IBANValidation, r.SWIFTRequired, r.StandardBankFee,
			r.MobileMoneyFeePct, r.CardFeePct, r.ChequeDelayDays,
			r.TransferDelayDays, r.CashCeiling, r.MobileMoneyCeiling, r.KYCThreshold,
			r.ReconciliationTolerance)
		if err != nil {
			return fmt.Errorf("insert regional defaults %s: %w", r.CountryCode, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit regional defaults: %w", err)
	}

	log.Info().
		Int("countries", len(rows)).
		Int("inserted", inserted).
		Msg("regional payment defaults seeded")
	return nil
}
