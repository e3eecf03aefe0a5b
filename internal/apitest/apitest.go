// Package apitest levanta la API de facturación completa sobre el store en
// memoria para tests de integración (handlers, cliente HTTP, CLI).
package apitest

import (
	"net"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturo/internal/application/analytics"
	"github.com/jhoicas/facturo/internal/application/auth"
	"github.com/jhoicas/facturo/internal/application/billing"
	"github.com/jhoicas/facturo/internal/application/usecase"
	"github.com/jhoicas/facturo/internal/infrastructure/memory"
	"github.com/jhoicas/facturo/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/facturo/internal/interfaces/http"
	"github.com/jhoicas/facturo/pkg/logger"
)

// Valores del JWT de la API de prueba.
const (
	JWTSecret = "apitest-secret"
	JWTIssuer = "facturo-test"
	JWTExpMin = 60
)

// NewApp construye la app Fiber con todas las rutas y un store vacío.
func NewApp() *fiber.App {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	customerRepo := memory.NewCustomerRepository(store)
	productRepo := memory.NewProductRepository(store)
	invoiceRepo := memory.NewInvoiceRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)
	invoiceUC := billing.NewInvoiceUseCase(memory.NewTxRunner(store), invoiceRepo, customerRepo, paymentRepo)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret: JWTSecret, ExpMinutes: JWTExpMin, Issuer: JWTIssuer,
		}),
		UserUC:     usecase.NewUserUseCase(userRepo),
		CustomerUC: billing.NewCustomerUseCase(customerRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo),
		InvoiceUC:  invoiceUC,
		InvoicePDF: billing.NewPDFUseCase(invoiceRepo, customerRepo, productRepo, paymentRepo,
			pdf.NewMarotoPDFGenerator("Facturo")),
		DashboardUC: analytics.NewDashboardUseCase(memory.NewAnalyticsRepository(store), invoiceUC),
		JWTSecret:   JWTSecret,
		Logger:      logger.Nop(),
	})
	return app
}

// Start sirve NewApp en un puerto local y devuelve la URL base.
// El servidor se apaga al terminar el test.
func Start(t testing.TB) string {
	t.Helper()
	app := NewApp()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("apitest: escuchar: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}
