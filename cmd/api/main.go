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
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/infrastructure/exchange"
	"github.com/jhoicas/facturacion-ve/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-ve/internal/infrastructure/smart"
	httpRouter "github.com/jhoicas/facturacion-ve/internal/interfaces/http"
	"github.com/jhoicas/facturacion-ve/pkg/config"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sin imprenta digital el número de control se genera localmente por familia.
	var assigner billing.ControlNumberAssigner = billing.NewLocalControlNumberAssigner()
	if cfg.Smart.Enabled {
		assigner = smart.NewClient(cfg.Smart, assigner, log)
		log.Info().Str("url", cfg.Smart.APIURL).Msg("imprenta digital habilitada")
	}

	var rateSource usecase.ExchangeRateSource
	if cfg.Exchange.Enabled {
		rateSource = exchange.NewClient(cfg.Exchange.APIURL)
	}
	exchangeUC := usecase.NewExchangeRateUseCase(rateRepo, rateSource, log)

	var schedulerDone <-chan struct{}
	if rateSource != nil {
		schedulerDone = exchangeUC.StartScheduler(ctx, cfg.Exchange.Refresh)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Smart.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en http://localhost:<port>/docs, solo si el archivo existe.
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Facturación VE API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  usecase.NewCompanyUseCase(companyRepo),
		CustomerUC: billing.NewCustomerUseCase(customerRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo),
		OrderUC:    billing.NewOrderUseCase(orderRepo, productRepo, customerRepo, rateRepo),
		DocumentUC: billing.NewDocumentUseCase(txRunner, assigner, documentRepo, orderRepo, log),
		ExchangeUC: exchangeUC,
		AuditUC:    usecase.NewAuditUseCase(auditRepo),
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		WithUser:   postgres.WithAuditUser,
		Ping:       pool.Ping,
		Log:        log,
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

	stop()
	if schedulerDone != nil {
		<-schedulerDone
	}

	log.Info().Msg("aplicación detenida")
}
