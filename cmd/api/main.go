package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appmovement "github.com/jhoicas/cajas-api/internal/application/movement"
	"github.com/jhoicas/cajas-api/internal/application/usecase"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
	"github.com/jhoicas/cajas-api/internal/infrastructure/fixture"
	"github.com/jhoicas/cajas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cajas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cajas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cajas-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/cajas-api/internal/interfaces/http"
	"github.com/jhoicas/cajas-api/pkg/config"
	"github.com/jhoicas/cajas-api/pkg/logger"
)

// backend puertos de persistencia según STORE_DRIVER.
type backend struct {
	txRunner appmovement.TxRunner
	movRepo  repository.MovementRepository
	boxRepo  repository.BoxRepository
	userRepo repository.UserRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("inicializar almacenamiento")
	}
	defer be.close()

	movementUC := appmovement.NewUseCase(
		be.txRunner, be.movRepo, be.boxRepo, be.userRepo,
		infrapdf.NewMarotoReportGenerator(cfg.App.Name),
		log,
		appmovement.Config{
			MaxAttempts:    cfg.Ledger.ToggleMaxAttempts,
			RetryBaseDelay: cfg.Ledger.RetryBaseDelay,
			ToggleTimeout:  cfg.Ledger.ToggleTimeout,
			ReportMaxRows:  cfg.Ledger.ReportMaxRows,
		},
	).WithSpreadsheet(xlsx.NewExcelizeReportGenerator())
	boxUC := usecase.NewBoxUseCase(be.boxRepo, be.userRepo)
	userUC := usecase.NewUserUseCase(be.userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerFile,
			Path:     "docs",
			Title:    "Cajas API",
		}))
	} else {
		log.Warn().Str("file", cfg.Docs.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC: movementUC,
		BoxUC:      boxUC,
		UserUC:     userUC,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		if cfg.Store.SeedFile != "" {
			f, err := fixture.Load(cfg.Store.SeedFile, "")
			if err != nil {
				return nil, err
			}
			nBoxes, nUsers, err := f.Apply(ctx, store)
			if err != nil {
				return nil, err
			}
			log.Info().Int("boxes", nBoxes).Int("users", nUsers).Msg("fixture cargado en memoria")
		}
		return &backend{
			txRunner: memory.NewTxRunner(store),
			movRepo:  memory.NewMovementRepository(store),
			boxRepo:  memory.NewBoxRepository(store),
			userRepo: memory.NewUserRepository(store),
			close:    func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB, log); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		txRunner: postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
		movRepo:  postgres.NewMovementRepository(pool),
		boxRepo:  postgres.NewBoxRepository(pool),
		userRepo: postgres.NewUserRepository(pool),
		close:    pool.Close,
	}, nil
}
