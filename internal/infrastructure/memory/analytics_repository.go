package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo KPIs del dashboard calculados sobre el store.
type AnalyticsRepo struct{ s *Store }

// NewAnalyticsRepository construye el repo sobre el store.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func within(p repository.Period, inv *entity.Invoice) bool {
	return !inv.IssuedAt.Before(p.Start) && inv.IssuedAt.Before(p.End)
}

func (r *AnalyticsRepo) PaidRevenue(_ context.Context, ownerID string, p repository.Period) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if inv.OwnerID == ownerID && inv.Status == entity.StatusPaid && within(p, inv) {
			total = total.Add(inv.TotalAmount)
		}
	}
	return total, nil
}

func (r *AnalyticsRepo) InvoicesCreated(_ context.Context, ownerID string, p repository.Period) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.OwnerID == ownerID && within(p, inv) {
			n++
		}
	}
	return n, nil
}

func (r *AnalyticsRepo) ActiveCustomers(_ context.Context, ownerID string, p repository.Period) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, inv := range r.s.invoices {
		if inv.OwnerID == ownerID && within(p, inv) {
			seen[inv.CustomerID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *AnalyticsRepo) PaymentsReceived(_ context.Context, ownerID string, p repository.Period) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for invoiceID, list := range r.s.payments {
		inv, ok := r.s.invoices[invoiceID]
		if !ok || inv.OwnerID != ownerID {
			continue
		}
		for _, pay := range list {
			if !pay.PaidAt.Before(p.Start) && pay.PaidAt.Before(p.End) {
				n++
			}
		}
	}
	return n, nil
}
