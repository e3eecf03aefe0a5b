// Package analytics contiene el resumen del mes para la pantalla de inicio.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

const dashboardRecentInvoices = 5 // facturas recientes en el widget

// RecentInvoices lista las últimas facturas de la cuenta ya resueltas para mostrar.
type RecentInvoices interface {
	List(ctx context.Context, ownerID string, page dto.PageRequest) ([]dto.InvoiceSummary, error)
}

// DashboardUseCase genera los KPIs del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) más el listado de
// facturas recientes.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	recent        RecentInvoices
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, recent RecentInvoices) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, recent: recent, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO de la cuenta.
//
// Las cinco consultas corren en paralelo; la primera que falla cancela el resto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, ownerID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	period := MonthOf(now)

	var (
		revenue   decimal.Decimal
		created   int
		customers int
		payments  int
		recent    []dto.InvoiceSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenue, err = uc.analyticsRepo.PaidRevenue(gctx, ownerID, period)
		if err != nil {
			return fmt.Errorf("dashboard: ingresos del mes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		created, err = uc.analyticsRepo.InvoicesCreated(gctx, ownerID, period)
		if err != nil {
			return fmt.Errorf("dashboard: facturas creadas: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		customers, err = uc.analyticsRepo.ActiveCustomers(gctx, ownerID, period)
		if err != nil {
			return fmt.Errorf("dashboard: clientes activos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		payments, err = uc.analyticsRepo.PaymentsReceived(gctx, ownerID, period)
		if err != nil {
			return fmt.Errorf("dashboard: pagos recibidos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		recent, err = uc.recent.List(gctx, ownerID, dto.PageRequest{Limit: dashboardRecentInvoices})
		if err != nil {
			return fmt.Errorf("dashboard: facturas recientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryDTO{
		MonthlyRevenue:   revenue,
		InvoicesCreated:  created,
		ActiveCustomers:  customers,
		PaymentsReceived: payments,
		Currency:         entity.CurrencyXOF,
		DateLabel:        now.Format("2006-01"),
		RecentInvoices:   recent,
	}, nil
}

// MonthOf devuelve el mes calendario de t: [día 1, día 1 del mes siguiente).
// Las fechas de factura y pago son solo fecha (medianoche UTC), así que el
// rango también se expresa en UTC.
func MonthOf(t time.Time) repository.Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return repository.Period{Start: start, End: start.AddDate(0, 1, 0)}
}
