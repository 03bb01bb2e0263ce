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

	_ "github.com/jhoicas/yuandi-erp/docs"
	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/application/orders"
	"github.com/jhoicas/yuandi-erp/internal/application/usecase"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/fxrate"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/yuandi-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/yuandi-erp/internal/interfaces/http"
	"github.com/jhoicas/yuandi-erp/pkg/config"
	"github.com/jhoicas/yuandi-erp/pkg/logger"
	"github.com/jhoicas/yuandi-erp/pkg/telemetry"
)

// storage puertos de persistencia según STORAGE_DRIVER.
type storage struct {
	txRunner repository.TxRunner
	repos    repository.TxRepositories
	rates    repository.ExchangeRateRepository
	settings repository.SettingsRepository
	close    func()
}

// @title                      YUANDI ERP API
// @version                    1.0
// @description                Inventario, libro de caja y ciclo de vida de pedidos.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	settingsSvc := usecase.NewSettingsService(store.settings, cfg.Settings.CacheTTL, log.Component("settings"))

	var rateProvider cashbook.ExternalRateProvider
	if cfg.FX.Enabled {
		rateProvider = fxrate.NewClient(cfg.FX)
	}
	resolver := cashbook.NewFXResolver(store.rates, rateProvider, settingsSvc, log.Component("fx"))
	recorder := cashbook.NewRecorder(store.txRunner, resolver, log.Component("cashbook"))
	mutator := inventory.NewStockMutator(store.txRunner, log.Component("inventory"))

	ordersLog := log.Component("orders")
	placeOrderUC := orders.NewPlaceOrderUseCase(store.txRunner, mutator, recorder, settingsSvc, ordersLog)
	coordinator := orders.NewCoordinator(
		store.txRunner, mutator, recorder,
		store.repos.Orders, store.repos.Shipments,
		infrapdf.NewPackingSlipGenerator(cfg.App.StoreName),
		ordersLog,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "YUANDI ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PlaceOrder:  placeOrderUC,
		Coordinator: coordinator,
		Adjustment:  inventory.NewAdjustmentUseCase(store.txRunner, mutator, recorder, log.Component("inventory")),
		LedgerAudit: inventory.NewLedgerAuditUseCase(store.repos.Products, store.repos.Movements),
		LowStock:    inventory.NewLowStockUseCase(store.repos.Products, settingsSvc),
		Recorder:    recorder,
		Cashbook:    cashbook.NewQueryService(store.repos.Cashbook),
		ProductUC:   usecase.NewProductUseCase(store.repos.Products),
		Settings:    settingsSvc,
		Policy:      usecase.NewPolicyService(),
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Log:         log.Component("http"),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore(memory.WithTxTimeout(cfg.DB.TxTimeout))
		return &storage{
			txRunner: mem,
			repos:    mem.Repositories(),
			rates:    mem.ExchangeRates(),
			settings: mem.Settings(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool, cfg.DB.TxTimeout),
		repos:    postgres.TxRepositories(pool),
		rates:    postgres.NewExchangeRateRepository(pool),
		settings: postgres.NewSettingsRepository(pool),
		close:    pool.Close,
	}, nil
}
