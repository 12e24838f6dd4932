package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

const bankAccountColumns = `id, tenant_id, nom_compte, numero_compte, banque, type_compte, devise,
	solde_initial, solde_actuel, solde_rapproche, est_actif, autorise_decouvert, plafond_decouvert,
	iban, swift, contact_nom, contact_telephone, contact_email, created_at, updated_at`

type BankAccountRepository struct {
	pool *pgxpool.Pool
}

func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

func scanBankAccount(row pgx.Row) (*model.BankAccount, error) {
	a := &model.BankAccount{}
	err := row.Scan(&a.ID, &a.TenantID, &a.Name, &a.Number, &a.Bank, &a.Type, &a.Currency,
		&a.OpeningBalance, &a.CurrentBalance, &a.ReconciledBalance, &a.IsActive, &a.OverdraftAllowed, &a.OverdraftLimit,
		&a.IBAN, &a.SWIFT, &a.ContactName, &a.ContactPhone, &a.ContactEmail, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *BankAccountRepository) List(ctx context.Context, tenantID uuid.UUID) ([]model.BankAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bankAccountColumns+` FROM comptes_bancaires
		WHERE tenant_id = $1
		ORDER BY est_actif DESC, nom_compte`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.BankAccount{}
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *BankAccountRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.BankAccount, error) {
	a, err := scanBankAccount(r.pool.QueryRow(ctx,
		`SELECT `+bankAccountColumns+` FROM comptes_bancaires WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

// Create opens the account with its current and reconciled balances equal to
// the opening balance.
func (r *BankAccountRepository) Create(ctx context.Context, a *model.BankAccount) error {
	a.CurrentBalance = a.OpeningBalance
	a.ReconciledBalance = a.OpeningBalance
	return r.pool.QueryRow(ctx,
		`INSERT INTO comptes_bancaires (tenant_id, nom_compte, numero_compte, banque, type_compte, devise,
			solde_initial, solde_actuel, solde_rapproche, est_actif, autorise_decouvert, plafond_decouvert,
			iban, swift, contact_nom, contact_telephone, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		a.TenantID, a.Name, a.Number, a.Bank, a.Type, a.Currency,
		a.OpeningBalance, a.IsActive, a.OverdraftAllowed, a.OverdraftLimit,
		a.IBAN, a.SWIFT, a.ContactName, a.ContactPhone, a.ContactEmail,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update changes the descriptive fields. Balances only move through postings,
// and overdraft settings the current balance already breaches are refused.
func (r *BankAccountRepository) Update(ctx context.Context, a *model.BankAccount) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin account update: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := lockAccount(ctx, tx, a.TenantID, a.ID)
	if err != nil {
		return err
	}
	if !a.AllowsBalance(cur.CurrentBalance) {
		return model.ErrOverdraftExceeded
	}

	updated, err := scanBankAccount(tx.QueryRow(ctx,
		`UPDATE comptes_bancaires SET
			nom_compte = $3, numero_compte = $4, banque = $5, type_compte = $6, devise = $7,
			autorise_decouvert = $8, plafond_decouvert = $9, iban = $10, swift = $11,
			contact_nom = $12, contact_telephone = $13, contact_email = $14, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+bankAccountColumns,
		a.TenantID, a.ID, a.Name, a.Number, a.Bank, a.Type, a.Currency,
		a.OverdraftAllowed, a.OverdraftLimit, a.IBAN, a.SWIFT,
		a.ContactName, a.ContactPhone, a.ContactEmail))
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit account update: %w", err)
	}
	*a = *updated
	return nil
}

func (r *BankAccountRepository) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comptes_bancaires SET est_actif = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, active)
	if err != nil {
		return fmt.Errorf("set bank account active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete fails with a foreign key violation while transactions reference the
// account; deactivation is the normal path.
func (r *BankAccountRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comptes_bancaires WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// lockAccount reads the account inside tx and holds its row lock until the
// transaction ends.
func lockAccount(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*model.BankAccount, error) {
	a, err := scanBankAccount(tx.QueryRow(ctx,
		`SELECT `+bankAccountColumns+` FROM comptes_bancaires WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, id))
	if err != nil {
		return nil, fmt.Errorf("lock bank account: %w", err)
	}
	return a, nil
}
