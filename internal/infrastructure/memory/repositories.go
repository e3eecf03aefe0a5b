package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturo/internal/domain"
	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository  = (*PaymentRepo)(nil)
)

// ── Users ─────────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

// NewUserRepository construye el repo sobre el store.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ s *Store }

// NewCustomerRepository construye el repo sobre el store.
func NewCustomerRepository(s *Store) *CustomerRepo { return &CustomerRepo{s: s} }

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *customer
	r.s.customers[customer.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := sortedValues(r.s.customers, func(a, b *entity.Customer) bool {
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.LastName < b.LastName
	})
	var mine []*entity.Customer
	for _, c := range all {
		if c.OwnerID == ownerID {
			cp := *c
			mine = append(mine, &cp)
		}
	}
	return page(mine, limit, offset), nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

// NewProductRepository construye el repo sobre el store.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := sortedValues(r.s.products, func(a, b *entity.Product) bool { return a.Name < b.Name })
	var mine []*entity.Product
	for _, p := range all {
		if p.OwnerID == ownerID {
			cp := *p
			mine = append(mine, &cp)
		}
	}
	return page(mine, limit, offset), nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

// InvoiceRepo facturas y líneas en memoria.
type InvoiceRepo struct{ s *Store }

// NewInvoiceRepository construye el repo sobre el store.
func NewInvoiceRepository(s *Store) *InvoiceRepo { return &InvoiceRepo{s: s} }

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.OwnerID == invoice.OwnerID && inv.Number == invoice.Number {
			return fmt.Errorf("factura %s: %w", invoice.Number, domain.ErrDuplicate)
		}
	}
	cp := *invoice
	r.s.invoices[invoice.ID] = &cp
	return nil
}

func (r *InvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[item.InvoiceID]; !ok {
		return fmt.Errorf("factura %s: %w", item.InvoiceID, domain.ErrNotFound)
	}
	cp := *item
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], &cp)
	return nil
}

func (r *InvoiceRepo) UpdateTotals(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[invoice.ID]
	if !ok {
		return fmt.Errorf("factura %s: %w", invoice.ID, domain.ErrNotFound)
	}
	cp := *cur
	cp.TotalAmount = invoice.TotalAmount
	cp.Status = invoice.Status
	cp.UpdatedAt = invoice.UpdatedAt
	r.s.invoices[invoice.ID] = &cp
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *InvoiceRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := sortedValues(r.s.invoices, func(a, b *entity.Invoice) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Number > b.Number
	})
	var mine []*entity.Invoice
	for _, inv := range all {
		if inv.OwnerID == ownerID {
			cp := *inv
			mine = append(mine, &cp)
		}
	}
	return page(mine, limit, offset), nil
}

func (r *InvoiceRepo) ListItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(src))
	for _, it := range src {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

// ── Payments ──────────────────────────────────────────────────────────────────

// PaymentRepo pagos en memoria.
type PaymentRepo struct{ s *Store }

// NewPaymentRepository construye el repo sobre el store.
func NewPaymentRepository(s *Store) *PaymentRepo { return &PaymentRepo{s: s} }

func (r *PaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[payment.InvoiceID]; !ok {
		return fmt.Errorf("factura %s: %w", payment.InvoiceID, domain.ErrNotFound)
	}
	cp := *payment
	r.s.payments[payment.InvoiceID] = append(r.s.payments[payment.InvoiceID], &cp)
	return nil
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.payments[invoiceID]
	out := make([]*entity.Payment, 0, len(src))
	for _, p := range src {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
