package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

const paymentMethodColumns = `id, tenant_id, code, libelle, est_actif, ordre_affichage, compte_bancaire_id,
	necessite_reference, necessite_validation, delai_encaissement, frais_pourcentage, frais_fixes,
	COALESCE(icone, ''), COALESCE(couleur, ''), COALESCE(notes, ''), created_at, updated_at`

type PaymentMethodRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

func scanPaymentMethod(row pgx.Row) (*model.PaymentMethod, error) {
	m := &model.PaymentMethod{}
	err := row.Scan(&m.ID, &m.TenantID, &m.Code, &m.Label, &m.IsActive, &m.DisplayOrder, &m.BankAccountID,
		&m.RequiresReference, &m.RequiresValidation, &m.CollectionDelayDays, &m.FeePercentage, &m.FixedFee,
		&m.Icon, &m.Color, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PaymentMethodRepository) List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentMethodColumns+` FROM modes_paiement_config
		WHERE tenant_id = $1
		ORDER BY ordre_affichage, libelle`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	methods := []model.PaymentMethod{}
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, *m)
	}
	return methods, rows.Err()
}

func (r *PaymentMethodRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentMethod, error) {
	m, err := scanPaymentMethod(r.pool.QueryRow(ctx,
		`SELECT `+paymentMethodColumns+` FROM modes_paiement_config WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return m, nil
}

// Codes returns the method codes the tenant has already configured.
func (r *PaymentMethodRepository) Codes(ctx context.Context, tenantID uuid.UUID) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT code FROM modes_paiement_config WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query payment method codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan payment method code: %w", err)
		}
		codes[code] = true
	}
	return codes, rows.Err()
}

func (r *PaymentMethodRepository) Create(ctx context.Context, m *model.PaymentMethod) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO modes_paiement_config (tenant_id, code, libelle, est_actif, ordre_affichage, compte_bancaire_id,
			necessite_reference, necessite_validation, delai_encaissement, frais_pourcentage, frais_fixes,
			icone, couleur, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''))
		RETURNING id, created_at, updated_at`,
		m.TenantID, m.Code, m.Label, m.IsActive, m.DisplayOrder, m.BankAccountID,
		m.RequiresReference, m.RequiresValidation, m.CollectionDelayDays, m.FeePercentage, m.FixedFee,
		m.Icon, m.Color, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// InsertBatch creates methods in one database transaction, silently skipping
// codes that already exist for the tenant. It returns how many rows were
// created.
func (r *PaymentMethodRepository) InsertBatch(ctx context.Context, methods []*model.PaymentMethod) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, m := range methods {
		batch.Queue(
			`INSERT INTO modes_paiement_config (tenant_id, code, libelle, est_actif, ordre_affichage,
				necessite_reference, necessite_validation, delai_encaissement, frais_pourcentage, frais_fixes,
				icone, couleur)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''))
			ON CONFLICT (tenant_id, code) DO NOTHING`,
			m.TenantID, m.Code, m.Label, m.IsActive, m.DisplayOrder,
			m.RequiresReference, m.RequiresValidation, m.CollectionDelayDays, m.FeePercentage, m.FixedFee,
			m.Icon, m.Color,
		)
	}

	created := 0
	br := tx.SendBatch(ctx, batch)
	for i := range methods {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("insert payment method %s: %w", methods[i].Code, err)
		}
		created += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return created, nil
}

func (r *PaymentMethodRepository) Update(ctx context.Context, m *model.PaymentMethod) error {
	updated, err := scanPaymentMethod(r.pool.QueryRow(ctx,
		`UPDATE modes_paiement_config SET
			code = $3, libelle = $4, est_actif = $5, ordre_affichage = $6, compte_bancaire_id = $7,
			necessite_reference = $8, necessite_validation = $9, delai_encaissement = $10,
			frais_pourcentage = $11, frais_fixes = $12, icone = NULLIF($13, ''), couleur = NULLIF($14, ''),
			notes = NULLIF($15, ''), updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+paymentMethodColumns,
		m.TenantID, m.ID, m.Code, m.Label, m.IsActive, m.DisplayOrder, m.BankAccountID,
		m.RequiresReference, m.RequiresValidation, m.CollectionDelayDays,
		m.FeePercentage, m.FixedFee, m.Icon, m.Color, m.Notes))
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	*m = *updated
	return nil
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM modes_paiement_config WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
