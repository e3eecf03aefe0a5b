package repository

import (
	"context"

	"github.com/jhoicas/facturo/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si el número ya existe en la cuenta.
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	// UpdateTotals actualiza total y estado (líneas agregadas después de la cabecera, pagos).
	UpdateTotals(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, ownerID, id string) (*entity.Invoice, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error)
	ListItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
}
