package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del mes en curso para la pantalla de inicio.
type DashboardSummaryDTO struct {
	MonthlyRevenue   decimal.Decimal `json:"monthly_revenue"`   // facturas PAID emitidas en el mes
	InvoicesCreated  int             `json:"invoices_created"`  // facturas emitidas en el mes
	ActiveCustomers  int             `json:"active_customers"`  // clientes con al menos una factura en el mes
	PaymentsReceived int             `json:"payments_received"` // pagos registrados en el mes
	Currency         string          `json:"currency"`
	DateLabel        string          `json:"date_label"` // ej: "2026-10"

	RecentInvoices []InvoiceSummary `json:"recent_invoices"`
}

// InvoiceSummary fila ligera para listados.
type InvoiceSummary struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	IssuedAt      string          `json:"issued_at"`
	DueDate       string          `json:"due_date"`
}
