package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturo/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// PaidRevenue suma de facturas PAID emitidas en el período. COALESCE devuelve 0 sin filas.
func (r *AnalyticsRepo) PaidRevenue(ctx context.Context, ownerID string, p repository.Period) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total_amount), 0)
	FROM invoices
	WHERE owner_id = $1
	  AND status = 'PAID'
	  AND issued_at >= $2 AND issued_at < $3`
	var revenue decimal.Decimal
	if err := r.q.QueryRow(ctx, query, ownerID, p.Start, p.End).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.PaidRevenue: %w", err)
	}
	return revenue, nil
}

// InvoicesCreated facturas emitidas en el período.
func (r *AnalyticsRepo) InvoicesCreated(ctx context.Context, ownerID string, p repository.Period) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM invoices
	WHERE owner_id = $1 AND issued_at >= $2 AND issued_at < $3`
	return r.count(ctx, "InvoicesCreated", query, ownerID, p)
}

// ActiveCustomers clientes distintos facturados en el período.
func (r *AnalyticsRepo) ActiveCustomers(ctx context.Context, ownerID string, p repository.Period) (int, error) {
	const query = `
	SELECT COUNT(DISTINCT customer_id)
	FROM invoices
	WHERE owner_id = $1 AND issued_at >= $2 AND issued_at < $3`
	return r.count(ctx, "ActiveCustomers", query, ownerID, p)
}

// PaymentsReceived pagos con paid_at en el período.
func (r *AnalyticsRepo) PaymentsReceived(ctx context.Context, ownerID string, p repository.Period) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM payments pay
	JOIN invoices i ON i.id = pay.invoice_id
	WHERE i.owner_id = $1 AND pay.paid_at >= $2 AND pay.paid_at < $3`
	return r.count(ctx, "PaymentsReceived", query, ownerID, p)
}

func (r *AnalyticsRepo) count(ctx context.Context, name, query, ownerID string, p repository.Period) (int, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, ownerID, p.Start, p.End).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.%s: %w", name, err)
	}
	return int(n), nil
}
