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
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/application/usecase"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/cache"
	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/memory"
	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/postgres"
	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/materiales-obra-api/internal/interfaces/http"
	"github.com/jhoicas/materiales-obra-api/internal/interfaces/ws"
	"github.com/jhoicas/materiales-obra-api/pkg/config"
	"github.com/jhoicas/materiales-obra-api/pkg/logger"
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
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Almacenamiento: PostgreSQL en producción, memoria para desarrollo y demos.
	var (
		repos    repository.Set
		txRunner inventory.TxRunner
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		repos, txRunner = store.Repositories(), store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		repos, txRunner = postgres.NewRepositorySet(pool), postgres.NewTxRunner(pool)
	}

	// Cache de fotos de stock (opcional).
	var stockCache inventory.StockCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, stock sin cache")
		} else {
			defer client.Close()
			stockCache = cache.NewStockCache(client, cfg.Redis.TTL(), log.Zerolog())
		}
	}

	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar métricas")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado de métricas")
		}
	}()
	admissionMetrics, err := telemetry.NewAdmissionMetrics(mp)
	if err != nil {
		log.Fatal().Err(err).Msg("instrumentos de admisión")
	}

	hub := ws.NewHub(256, log.Zerolog())
	go hub.Run(ctx)

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, repos.Materials, repos.Users, log.Zerolog()).
		WithCache(stockCache).
		WithEvents(hub).
		WithMetrics(admissionMetrics)
	materialUC := inventory.NewMaterialUseCase(txRunner, repos.Projects, repos.Materials, repos.Movements, log.Zerolog()).
		WithCache(stockCache).
		WithEvents(hub)
	queryUC := inventory.NewQueryUseCase(repos.Movements, repos.Stock, repos.Users).
		WithCache(stockCache)
	projectUC := usecase.NewProjectUseCase(repos.Projects)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Materiales de Obra API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		Materials:        materialUC,
		Query:            queryUC,
		ProjectUC:        projectUC,
		Hub:              hub,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
