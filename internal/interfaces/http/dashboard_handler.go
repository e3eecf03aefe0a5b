package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/facturo/internal/application/analytics"
	"github.com/jhoicas/facturo/pkg/logger"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve los KPIs del mes en curso.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (monthly_revenue, invoices_created,
// active_customers, payments_received, recent_invoices, date_label).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), ownerID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}
