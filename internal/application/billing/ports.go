package billing

import (
	"context"

	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
// Si fn devuelve error se hace rollback de todo lo escrito.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// InvoiceItemForPDF línea de factura con el nombre del producto resuelto.
type InvoiceItemForPDF struct {
	entity.InvoiceItem
	ProductName string
}

// InvoicePDFGenerator genera la representación gráfica de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		customer *entity.Customer,
		items []InvoiceItemForPDF,
		payments []*entity.Payment,
	) ([]byte, error)
}
