package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type RegionalParamsRepository struct {
	pool *pgxpool.Pool
}

func NewRegionalParamsRepository(pool *pgxpool.Pool) *RegionalParamsRepository {
	return &RegionalParamsRepository{pool: pool}
}

// FindByTenant returns pgx.ErrNoRows (wrapped) when the tenant has no
// parameters yet.
func (r *RegionalParamsRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, error) {
	p := &model.RegionalPaymentParams{}
	var rawMethods []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, pays, code_pays, devise_principale, symbole_devise, modes_paiement_defaut,
			COALESCE(format_iban, ''), validation_iban, swift_obligatoire, frais_bancaires_standard,
			frais_mobile_money_pourcentage, frais_carte_pourcentage, delai_encaissement_cheque,
			delai_encaissement_virement, plafond_especes, plafond_mobile_money, seuil_kyc,
			tolerance_rapprochement, is_active, created_at, updated_at
		FROM parametres_paiements_regionaux
		WHERE tenant_id = $1 AND is_active`, tenantID).
		Scan(&p.ID, &p.TenantID, &p.Country, &p.CountryCode, &p.Currency, &p.CurrencySymbol, &rawMethods,
			&p.IBANFormat, &p.IBANValidation, &p.SWIFTRequired, &p.StandardBankFee,
			&p.MobileMoneyFeePct, &p.CardFeePct, &p.ChequeDelayDays,
			&p.TransferDelayDays, &p.CashCeiling, &p.MobileMoneyCeiling, &p.KYCThreshold,
			&p.ReconciliationTolerance, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find regional params: %w", err)
	}

	p.DefaultMethods, err = model.ParseDefaultMethods(rawMethods)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// InitForTenant copies the country defaults into the tenant's row. Safe to
// call concurrently: the procedure upserts on tenant_id.
func (r *RegionalParamsRepository) InitForTenant(ctx context.Context, tenantID uuid.UUID, countryCode string) error {
	_, err := r.pool.Exec(ctx, `SELECT init_payment_params_for_tenant($1, $2)`, tenantID, countryCode)
	if err != nil {
		return fmt.Errorf("init regional params for %s: %w", countryCode, err)
	}
	return nil
}

func (r *RegionalParamsRepository) Update(ctx context.Context, p *model.RegionalPaymentParams) error {
	methods, err := json.Marshal(p.DefaultMethods)
	if err != nil {
		return fmt.Errorf("encode default methods: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`UPDATE parametres_paiements_regionaux SET
			pays = $2, code_pays = $3, devise_principale = $4, symbole_devise = $5, modes_paiement_defaut = $6,
			format_iban = NULLIF($7, ''), validation_iban = $8, swift_obligatoire = $9, frais_bancaires_standard = $10,
			frais_mobile_money_pourcentage = $11, frais_carte_pourcentage = $12, delai_encaissement_cheque = $13,
			delai_encaissement_virement = $14, plafond_especes = $15, plafond_mobile_money = $16, seuil_kyc = $17,
			tolerance_rapprochement = $18, updated_at = NOW()
		WHERE tenant_id = $1 AND is_active
		RETURNING updated_at`,
		p.TenantID, p.Country, p.CountryCode, p.Currency, p.CurrencySymbol, methods,
		p.IBANFormat, p.IBANValidation, p.SWIFTRequired, p.StandardBankFee,
		p.MobileMoneyFeePct, p.CardFeePct, p.ChequeDelayDays,
		p.TransferDelayDays, p.CashCeiling, p.MobileMoneyCeiling, p.KYCThreshold,
		p.ReconciliationTolerance,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update regional params: %w", err)
	}
	return nil
}
