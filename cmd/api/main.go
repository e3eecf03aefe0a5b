package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/facturo/internal/application/analytics"
	"github.com/jhoicas/facturo/internal/application/auth"
	"github.com/jhoicas/facturo/internal/application/billing"
	"github.com/jhoicas/facturo/internal/application/usecase"
	"github.com/jhoicas/facturo/internal/domain/repository"
	"github.com/jhoicas/facturo/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/facturo/internal/infrastructure/pdf"
	"github.com/jhoicas/facturo/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturo/internal/interfaces/http"
	"github.com/jhoicas/facturo/pkg/config"
	"github.com/jhoicas/facturo/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repositories puertos de persistencia del driver elegido.
type repositories struct {
	users     repository.UserRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	payments  repository.PaymentRepository
	analytics repository.AnalyticsRepository
	tx        billing.BillingTxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.close()

	invoiceUC := billing.NewInvoiceUseCase(repos.tx, repos.invoices, repos.customers, repos.payments)
	pdfUC := billing.NewPDFUseCase(
		repos.invoices, repos.customers, repos.products, repos.payments,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
	)
	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si el JSON fue generado)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name + " API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(repos.users),
		CustomerUC:  billing.NewCustomerUseCase(repos.customers),
		ProductUC:   usecase.NewProductUseCase(repos.products),
		InvoiceUC:   invoiceUC,
		InvoicePDF:  pdfUC,
		DashboardUC: appanalytics.NewDashboardUseCase(repos.analytics, invoiceUC),
		JWTSecret:   cfg.JWT.Secret,
		Logger:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage construye los repositorios según STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			users:     memory.NewUserRepository(store),
			customers: memory.NewCustomerRepository(store),
			products:  memory.NewProductRepository(store),
			invoices:  memory.NewInvoiceRepository(store),
			payments:  memory.NewPaymentRepository(store),
			analytics: memory.NewAnalyticsRepository(store),
			tx:        memory.NewTxRunner(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &repositories{
		users:     postgres.NewUserRepository(pool),
		customers: postgres.NewCustomerRepository(pool),
		products:  postgres.NewProductRepository(pool),
		invoices:  postgres.NewInvoiceRepository(pool),
		payments:  postgres.NewPaymentRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
