package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

const bankTransactionColumns = `id, tenant_id, compte_bancaire_id, montant, type_transaction, date_transaction,
	date_valeur, libelle, COALESCE(description, ''), COALESCE(categorie, ''), COALESCE(reference_externe, ''),
	statut_rapprochement, date_rapprochement, rapproche_par, paiement_facture_id, encaissement_id,
	pieces_jointes, COALESCE(source_import, ''), created_at, updated_at`

type BankTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewBankTransactionRepository(pool *pgxpool.Pool) *BankTransactionRepository {
	return &BankTransactionRepository{pool: pool}
}

func scanBankTransaction(row pgx.Row) (*model.BankTransaction, error) {
	t := &model.BankTransaction{}
	err := row.Scan(&t.ID, &t.TenantID, &t.AccountID, &t.Amount, &t.Direction, &t.TransactionDate,
		&t.ValueDate, &t.Label, &t.Description, &t.Category, &t.ExternalReference,
		&t.Status, &t.ReconciledAt, &t.ReconciledBy, &t.InvoicePaymentID, &t.CollectionID,
		&t.Attachments, &t.ImportSource, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Attachments == nil {
		t.Attachments = []string{}
	}
	return t, nil
}

// List returns the tenant's transactions, newest first. A nil accountID lists
// every account; an account that is unknown or belongs to another tenant
// yields an empty list.
func (r *BankTransactionRepository) List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID) ([]model.BankTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bankTransactionColumns+` FROM transactions_bancaires
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR compte_bancaire_id = $2)
		ORDER BY date_transaction DESC, created_at DESC`, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("query bank transactions: %w", err)
	}
	defer rows.Close()

	txns := []model.BankTransaction{}
	for rows.Next() {
		t, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (r *BankTransactionRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.BankTransaction, error) {
	t, err := scanBankTransaction(r.pool.QueryRow(ctx,
		`SELECT `+bankTransactionColumns+` FROM transactions_bancaires WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, fmt.Errorf("get bank transaction: %w", err)
	}
	return t, nil
}

// Links lists the payment links carried by reconciled or triaged transactions.
func (r *BankTransactionRepository) Links(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT paiement_facture_id, encaissement_id, statut_rapprochement
		FROM transactions_bancaires
		WHERE tenant_id = $1 AND (paiement_facture_id IS NOT NULL OR encaissement_id IS NOT NULL)`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query payment links: %w", err)
	}
	defer rows.Close()

	links := []model.PaymentLink{}
	for rows.Next() {
		var invoicePaymentID, collectionID *uuid.UUID
		var status model.ReconciliationStatus
		if err := rows.Scan(&invoicePaymentID, &collectionID, &status); err != nil {
			return nil, fmt.Errorf("scan payment link: %w", err)
		}
		switch {
		case invoicePaymentID != nil:
			links = append(links, model.PaymentLink{PaymentType: model.SourceInvoice, PaymentID: *invoicePaymentID, Status: status})
		case collectionID != nil:
			links = append(links, model.PaymentLink{PaymentType: model.SourceSale, PaymentID: *collectionID, Status: status})
		}
	}
	return links, rows.Err()
}

// Post inserts t and moves the account balance in the same database
// transaction. It returns the account as left by the posting.
func (r *BankTransactionRepository) Post(ctx context.Context, t *model.BankTransaction) (*model.BankAccount, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin posting: %w", err)
	}
	defer tx.Rollback(ctx)

	acc, err := lockAccount(ctx, tx, t.TenantID, t.AccountID)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive {
		return nil, model.ErrAccountInactive
	}
	balance, err := model.ApplyPosting(acc, t)
	if err != nil {
		return nil, err
	}

	attachments, err := json.Marshal(t.Attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	t.Status = model.StatusUnreconciled
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions_bancaires (tenant_id, compte_bancaire_id, montant, type_transaction,
			date_transaction, date_valeur, libelle, description, categorie, reference_externe,
			statut_rapprochement, pieces_jointes, source_import)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, $12, NULLIF($13, ''))
		RETURNING id, created_at, updated_at`,
		t.TenantID, t.AccountID, t.Amount, t.Direction,
		t.TransactionDate, t.ValueDate, t.Label, t.Description, t.Category, t.ExternalReference,
		t.Status, attachments, t.ImportSource,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert bank transaction: %w", err)
	}

	if err := setBalances(ctx, tx, acc, balance, acc.ReconciledBalance); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit posting: %w", err)
	}
	return acc, nil
}

// Delete removes an unreconciled transaction and reverses its posting. A
// reversal that would breach the overdraft rule is refused.
func (r *BankTransactionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := lockTransaction(ctx, tx, tenantID, id)
	if err != nil {
		return err
	}
	if t.Status != model.StatusUnreconciled {
		return model.ErrTransactionLocked
	}
	acc, err := lockAccount(ctx, tx, tenantID, t.AccountID)
	if err != nil {
		return err
	}
	balance, err := model.ReversePosting(acc, t)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions_bancaires WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete bank transaction: %w", err)
	}
	if err := setBalances(ctx, tx, acc, balance, acc.ReconciledBalance); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Reconcile links an unreconciled transaction to a payment of the same
// tenant and moves the account's reconciled balance by its signed amount.
func (r *BankTransactionRepository) Reconcile(ctx context.Context, tenantID, id uuid.UUID, rec model.Reconciliation) (*model.BankTransaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reconcile: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := lockTransaction(ctx, tx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransitionTo(model.StatusReconciled) {
		return nil, model.ErrInvalidStatusTransition
	}

	source := `paiements_factures`
	if rec.PaymentType == model.SourceSale {
		source = `encaissements`
	}
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+source+` WHERE tenant_id = $1 AND id = $2)`, tenantID, rec.PaymentID).
		Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check payment: %w", err)
	}
	if !exists {
		return nil, model.ErrPaymentNotFound
	}

	rec.Apply(t)
	_, err = tx.Exec(ctx,
		`UPDATE transactions_bancaires SET
			statut_rapprochement = $3, date_rapprochement = $4, rapproche_par = $5,
			paiement_facture_id = $6, encaissement_id = $7, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, t.Status, t.ReconciledAt, t.ReconciledBy, t.InvoicePaymentID, t.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("reconcile bank transaction: %w", err)
	}

	acc, err := lockAccount(ctx, tx, tenantID, t.AccountID)
	if err != nil {
		return nil, err
	}
	if err := setBalances(ctx, tx, acc, acc.CurrentBalance, acc.ReconciledBalance.Add(t.SignedAmount())); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reconcile: %w", err)
	}

	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("transaction_id", id.String()).
		Str("payment_type", string(rec.PaymentType)).
		Str("payment_id", rec.PaymentID.String()).
		Msg("bank transaction reconciled")
	return t, nil
}

// SetStatus applies a manual triage status. Reaching rapproche goes through
// Reconcile since it needs a payment link.
func (r *BankTransactionRepository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.ReconciliationStatus, at time.Time) (*model.BankTransaction, error) {
	if status == model.StatusReconciled {
		return nil, model.ErrInvalidStatusTransition
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status change: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := lockTransaction(ctx, tx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransitionTo(status) {
		return nil, model.ErrInvalidStatusTransition
	}

	t.Status = status
	t.UpdatedAt = at
	_, err = tx.Exec(ctx,
		`UPDATE transactions_bancaires SET statut_rapprochement = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, status, at)
	if err != nil {
		return nil, fmt.Errorf("set bank transaction status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit status change: %w", err)
	}
	return t, nil
}

func lockTransaction(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*model.BankTransaction, error) {
	t, err := scanBankTransaction(tx.QueryRow(ctx,
		`SELECT `+bankTransactionColumns+` FROM transactions_bancaires WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, id))
	if err != nil {
		return nil, fmt.Errorf("lock bank transaction: %w", err)
	}
	return t, nil
}

func setBalances(ctx context.Context, tx pgx.Tx, acc *model.BankAccount, current, reconciled decimal.Decimal) error {
	err := tx.QueryRow(ctx,
		`UPDATE comptes_bancaires SET solde_actuel = $3, solde_rapproche = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at`,
		acc.TenantID, acc.ID, current, reconciled).Scan(&acc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account balances: %w", err)
	}
	acc.CurrentBalance = current
	acc.ReconciledBalance = reconciled
	return nil
}
