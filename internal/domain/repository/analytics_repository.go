package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period rango [Start, End) para consultas del dashboard.
type Period struct {
	Start time.Time
	End   time.Time
}

// AnalyticsRepository consultas de lectura para el dashboard de la cuenta.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// PaidRevenue suma total_amount de las facturas PAID emitidas en el período.
	// Devuelve cero si no hay facturas.
	PaidRevenue(ctx context.Context, ownerID string, p Period) (decimal.Decimal, error)

	// InvoicesCreated cuenta las facturas emitidas en el período (cualquier estado).
	InvoicesCreated(ctx context.Context, ownerID string, p Period) (int, error)

	// ActiveCustomers cuenta los clientes distintos con facturas emitidas en el período.
	ActiveCustomers(ctx context.Context, ownerID string, p Period) (int, error)

	// PaymentsReceived cuenta los pagos con paid_at dentro del período.
	PaymentsReceived(ctx context.Context, ownerID string, p Period) (int, error)
}
