package memory

import (
	"context"

	"github.com/jhoicas/facturo/internal/application/billing"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: toma un snapshot de las tablas de
// facturación y lo restaura si fn falla. Las transacciones se serializan.
// Escrituras fuera de RunBilling concurrentes con un rollback se pierden;
// es un driver para desarrollo y tests.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunBilling ejecuta fn con repos sobre el store y deshace sus cambios si devuelve error.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.RLock()
	snap := r.s.snapshot()
	r.s.mu.RUnlock()

	err := fn(
		NewCustomerRepository(r.s),
		NewProductRepository(r.s),
		NewInvoiceRepository(r.s),
		NewPaymentRepository(r.s),
	)
	if err != nil {
		r.s.mu.Lock()
		r.s.restore(snap)
		r.s.mu.Unlock()
		return err
	}
	return nil
}
