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

	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
	"github.com/ukena18/Haci-sub000/internal/domain/repository"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/metrics"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/postgres"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/sqlite"
	httpRouter "github.com/ukena18/Haci-sub000/internal/interfaces/http"
	"github.com/ukena18/Haci-sub000/pkg/clock"
	"github.com/ukena18/Haci-sub000/pkg/config"
	"github.com/ukena18/Haci-sub000/pkg/logger"
)

// backend almacén elegido por STORE_DRIVER.
type backend struct {
	store repository.StateStore
	tx    repository.Transactor
	ping  func(ctx context.Context) error
	close func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Store.Driver == config.DriverSQLite {
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath, ledger.NewID)
		if err != nil {
			return nil, err
		}
		return &backend{store: store, tx: store, ping: store.Ping, close: func() { _ = store.Close() }}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &backend{
		store: postgres.NewStateRepository(pool, ledger.NewID),
		tx:    postgres.NewTxRunner(pool, ledger.NewID),
		ping:  pool.Ping,
		close: pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("abrir almacén de estado")
	}
	defer be.close()

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
	}

	svc := workspace.New(workspace.Deps{
		Store:    be.store,
		Tx:       be.tx,
		Clock:    clock.System{},
		Log:      log,
		Observer: rec,
	}, workspace.Options{
		Policy:          ledger.DuePolicy{SkipWeekends: cfg.Ledger.SkipWeekends},
		Totals:          ledger.Options{CountPaidJobs: cfg.Ledger.CountPaidJobs},
		DefaultCurrency: cfg.Ledger.DefaultCurrency,
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
		Title:    "Haci Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workspace:   svc,
		JWTSecret:   cfg.JWT.Secret,
		Metrics:     rec,
		MetricsPath: cfg.Metrics.Path,
		Health:      be.ping,
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
