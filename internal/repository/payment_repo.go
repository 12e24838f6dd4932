package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

// PaymentRepository reads the two payment source tables owned by the
// invoicing and point-of-sale modules.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) InvoicePayments(ctx context.Context, tenantID uuid.UUID) ([]model.InvoicePayment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pf.id, COALESCE(f.numero_facture, ''), pf.date_paiement, pf.montant, pf.mode_paiement,
			COALESCE(pf.reference_paiement, ''), COALESCE(pf.notes, ''),
			COALESCE(c.nom, ''), COALESCE(fo.nom, '')
		FROM paiements_factures pf
		LEFT JOIN factures f ON f.id = pf.facture_id AND f.tenant_id = pf.tenant_id
		LEFT JOIN clients c ON c.id = f.client_id AND c.tenant_id = pf.tenant_id
		LEFT JOIN fournisseurs fo ON fo.id = f.fournisseur_id AND fo.tenant_id = pf.tenant_id
		WHERE pf.tenant_id = $1`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query invoice payments: %w", err)
	}
	defer rows.Close()

	payments := []model.InvoicePayment{}
	for rows.Next() {
		var p model.InvoicePayment
		err := rows.Scan(&p.ID, &p.InvoiceNumber, &p.PaymentDate, &p.Amount, &p.MethodCode,
			&p.Reference, &p.Notes, &p.ClientName, &p.SupplierName)
		if err != nil {
			return nil, fmt.Errorf("scan invoice payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) SaleCollections(ctx context.Context, tenantID uuid.UUID) ([]model.SaleCollection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, COALESCE(v.numero_vente, ''), e.date_encaissement, e.montant, e.mode_paiement,
			COALESCE(e.reference, ''), COALESCE(e.notes, ''), COALESCE(c.nom, '')
		FROM encaissements e
		LEFT JOIN ventes v ON v.id = e.vente_id AND v.tenant_id = e.tenant_id
		LEFT JOIN clients c ON c.id = v.client_id AND c.tenant_id = e.tenant_id
		WHERE e.tenant_id = $1`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query sale collections: %w", err)
	}
	defer rows.Close()

	collections := []model.SaleCollection{}
	for rows.Next() {
		var s model.SaleCollection
		err := rows.Scan(&s.ID, &s.SaleNumber, &s.CollectedAt, &s.Amount, &s.MethodCode,
			&s.Reference, &s.Notes, &s.ClientName)
		if err != nil {
			return nil, fmt.Errorf("scan sale collection: %w", err)
		}
		collections = append(collections, s)
	}
	return collections, rows.Err()
}
