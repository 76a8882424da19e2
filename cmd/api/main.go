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
	"github.com/tu-usuario/facturya-api/internal/application/auth"
	appbilling "github.com/tu-usuario/facturya-api/internal/application/billing"
	"github.com/tu-usuario/facturya-api/internal/application/usecase"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	infrapdf "github.com/tu-usuario/facturya-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/facturya-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/facturya-api/internal/infrastructure/ubl"
	httpRouter "github.com/tu-usuario/facturya-api/internal/interfaces/http"
	"github.com/tu-usuario/facturya-api/pkg/config"
	"github.com/tu-usuario/facturya-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	log.Component("postgres").Info().Msg("pool de conexiones listo")

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Motor de totales: un único formateador compartido por caso de uso y
	// presentación, para que toda cifra mostrada salga del mismo locale.
	formatter := calc.NewCurrencyFormatter(cfg.Billing.Locale, cfg.Billing.CurrencySymbol)

	ublExporter := ubl.NewExporter()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	invoiceUC := appbilling.NewInvoiceUseCase(
		txRunner,
		customerRepo, companyRepo, productRepo, invoiceRepo,
		ublExporter, formatter, cfg.Billing.Currency,
	)
	invoicePDFUC := appbilling.NewPDFUseCase(
		invoiceRepo, customerRepo, companyRepo, productRepo, pdfGenerator,
	)
	customerUC := appbilling.NewCustomerUseCase(customerRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturya API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		ProductUC:  productUC,
		CustomerUC: customerUC,
		UserUC:     userUC,
		InvoiceUC:  invoiceUC,
		PDFUC:      invoicePDFUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
