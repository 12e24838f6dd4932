package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

const scheduleColumns = `id, tenant_id, libelle, type_tiers, tiers_nom, facture_id, montant_total, montant_paye,
	montant_restant, date_emission, date_premiere_echeance, date_derniere_echeance, nombre_echeances,
	periodicite, statut, delai_alerte_jours, COALESCE(notes, ''), created_at, updated_at`

const scheduleLineColumns = `id, tenant_id, echeancier_id, numero_echeance, date_echeance, montant, montant_paye,
	montant_restant, statut, date_paiement`

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func scanSchedule(row pgx.Row) (*model.PaymentSchedule, error) {
	s := &model.PaymentSchedule{}
	err := row.Scan(&s.ID, &s.TenantID, &s.Label, &s.CounterpartyType, &s.CounterpartyName, &s.InvoiceID,
		&s.TotalAmount, &s.PaidAmount, &s.RemainingAmount, &s.IssueDate, &s.FirstDueDate, &s.LastDueDate,
		&s.InstallmentCount, &s.Periodicity, &s.Status, &s.AlertDaysBefore, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanScheduleLine(row pgx.Row) (*model.ScheduleLine, error) {
	l := &model.ScheduleLine{}
	err := row.Scan(&l.ID, &l.TenantID, &l.ScheduleID, &l.Number, &l.DueDate, &l.Amount, &l.PaidAmount,
		&l.RemainingAmount, &l.Status, &l.PaidAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// List returns the tenant's schedules ordered by first due date. Lines are
// loaded only when withLines is set.
func (r *ScheduleRepository) List(ctx context.Context, tenantID uuid.UUID, withLines bool) ([]model.PaymentSchedule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+` FROM echeanciers_paiements
		WHERE tenant_id = $1
		ORDER BY date_premiere_echeance, created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	schedules := []model.PaymentSchedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !withLines || len(schedules) == 0 {
		return schedules, nil
	}

	lines, err := r.lines(ctx, tenantID, nil)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID][]model.ScheduleLine, len(schedules))
	for _, l := range lines {
		byID[l.ScheduleID] = append(byID[l.ScheduleID], l)
	}
	for i := range schedules {
		schedules[i].Lines = byID[schedules[i].ID]
	}
	return schedules, nil
}

func (r *ScheduleRepository) lines(ctx context.Context, tenantID uuid.UUID, scheduleID *uuid.UUID) ([]model.ScheduleLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleLineColumns+` FROM lignes_echeancier
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR echeancier_id = $2)
		ORDER BY echeancier_id, numero_echeance`, tenantID, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("query schedule lines: %w", err)
	}
	defer rows.Close()

	lines := []model.ScheduleLine{}
	for rows.Next() {
		l, err := scanScheduleLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule line: %w", err)
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

func (r *ScheduleRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentSchedule, error) {
	s, err := scanSchedule(r.pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM echeanciers_paiements WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	s.Lines, err = r.lines(ctx, tenantID, &id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts the schedule and its lines in one database transaction.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.PaymentSchedule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schedule create: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO echeanciers_paiements (tenant_id, libelle, type_tiers, tiers_nom, facture_id, montant_total,
			montant_paye, montant_restant, date_emission, date_premiere_echeance, date_derniere_echeance,
			nombre_echeances, periodicite, statut, delai_alerte_jours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULLIF($16, ''))
		RETURNING id, created_at, updated_at`,
		s.TenantID, s.Label, s.CounterpartyType, s.CounterpartyName, s.InvoiceID, s.TotalAmount,
		s.PaidAmount, s.RemainingAmount, s.IssueDate, s.FirstDueDate, s.LastDueDate,
		s.InstallmentCount, s.Periodicity, s.Status, s.AlertDaysBefore, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range s.Lines {
		l := &s.Lines[i]
		l.TenantID = s.TenantID
		l.ScheduleID = s.ID
		batch.Queue(
			`INSERT INTO lignes_echeancier (tenant_id, echeancier_id, numero_echeance, date_echeance, montant,
				montant_paye, montant_restant, statut)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			l.TenantID, l.ScheduleID, l.Number, l.DueDate, l.Amount, l.PaidAmount, l.RemainingAmount, l.Status,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range s.Lines {
		if err := br.QueryRow().Scan(&s.Lines[i].ID); err != nil {
			br.Close()
			return fmt.Errorf("insert schedule line %d: %w", i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ScheduleRepository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, next model.ScheduleStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status change: %w", err)
	}
	defer tx.Rollback(ctx)

	var current model.ScheduleStatus
	err = tx.QueryRow(ctx,
		`SELECT statut FROM echeanciers_paiements WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id).
		Scan(&current)
	if err != nil {
		return fmt.Errorf("lock schedule: %w", err)
	}
	if !current.CanTransitionTo(next) {
		return model.ErrInvalidStatusTransition
	}

	_, err = tx.Exec(ctx,
		`UPDATE echeanciers_paiements SET statut = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, next)
	if err != nil {
		return fmt.Errorf("update schedule status: %w", err)
	}
	return tx.Commit(ctx)
}

// RecordLinePayment applies amount to one line of an active schedule and to
// the schedule totals atomically.
func (r *ScheduleRepository) RecordLinePayment(ctx context.Context, tenantID, scheduleID, lineID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin line payment: %w", err)
	}
	defer tx.Rollback(ctx)

	s, err := scanSchedule(tx.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM echeanciers_paiements WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, scheduleID))
	if err != nil {
		return fmt.Errorf("lock schedule: %w", err)
	}
	if s.Status != model.ScheduleActive {
		return model.ErrScheduleNotActive
	}

	l, err := scanScheduleLine(tx.QueryRow(ctx,
		`SELECT `+scheduleLineColumns+` FROM lignes_echeancier
		WHERE tenant_id = $1 AND echeancier_id = $2 AND id = $3 FOR UPDATE`,
		tenantID, scheduleID, lineID))
	if err != nil {
		return fmt.Errorf("lock schedule line: %w", err)
	}
	if !l.Open() {
		return model.ErrLineClosed
	}
	if amount.GreaterThan(l.RemainingAmount) {
		return model.ErrAmountExceedsRemaining
	}

	l.ApplyPayment(amount, at)
	s.RecordPayment(amount)

	_, err = tx.Exec(ctx,
		`UPDATE lignes_echeancier SET montant_paye = $3, montant_restant = $4, statut = $5, date_paiement = $6
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, lineID, l.PaidAmount, l.RemainingAmount, l.Status, l.PaidAt)
	if err != nil {
		return fmt.Errorf("update schedule line: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE echeanciers_paiements SET montant_paye = $3, montant_restant = $4, statut = $5, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, scheduleID, s.PaidAmount, s.RemainingAmount, s.Status)
	if err != nil {
		return fmt.Errorf("update schedule totals: %w", err)
	}
	return tx.Commit(ctx)
}
