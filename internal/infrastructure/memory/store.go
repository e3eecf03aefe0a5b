// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory (desarrollo, demos) y en los tests de la API.
package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/facturo/internal/domain/entity"
)

// Store datos de todas las cuentas. Los repos guardan y devuelven copias.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa RunBilling

	users     map[string]*entity.User
	customers map[string]*entity.Customer
	products  map[string]*entity.Product
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem // por invoice_id, en orden de inserción
	payments  map[string][]*entity.Payment     // por invoice_id
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*entity.User),
		customers: make(map[string]*entity.Customer),
		products:  make(map[string]*entity.Product),
		invoices:  make(map[string]*entity.Invoice),
		items:     make(map[string][]*entity.InvoiceItem),
		payments:  make(map[string][]*entity.Payment),
	}
}

type snapshot struct {
	customers map[string]*entity.Customer
	products  map[string]*entity.Product
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem
	payments  map[string][]*entity.Payment
}

// snapshot copia las tablas de facturación. Llamar con mu tomado.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		customers: make(map[string]*entity.Customer, len(s.customers)),
		products:  make(map[string]*entity.Product, len(s.products)),
		invoices:  make(map[string]*entity.Invoice, len(s.invoices)),
		items:     make(map[string][]*entity.InvoiceItem, len(s.items)),
		payments:  make(map[string][]*entity.Payment, len(s.payments)),
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = append([]*entity.InvoiceItem(nil), v...)
	}
	for k, v := range s.payments {
		snap.payments[k] = append([]*entity.Payment(nil), v...)
	}
	return snap
}

// restore vuelve al estado del snapshot. Llamar con mu tomado.
func (s *Store) restore(snap snapshot) {
	s.customers = snap.customers
	s.products = snap.products
	s.invoices = snap.invoices
	s.items = snap.items
	s.payments = snap.payments
}

func sortedValues[T any](m map[string]*T, less func(a, b *T) bool) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func page[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
