package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router. Metrics y Health son opcionales.
type RouterDeps struct {
	Workspace   *workspace.Service
	JWTSecret   string
	Metrics     *metrics.Recorder
	MetricsPath string
	Health      func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "almacén no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Vista pública (sin credencial)
	shareHandler := NewShareHandler(deps.Workspace)
	app.Get("/share/:shareId", shareHandler.Get)

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	stateHandler := NewStateHandler(deps.Workspace)
	protected.Post("/state/ensure", stateHandler.Ensure)
	protected.Get("/state", stateHandler.Get)
	protected.Put("/state", stateHandler.Put)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.Workspace)
	customers.Post("/", customerHandler.Create)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/totals", customerHandler.Totals)
	customers.Post("/:id/share", customerHandler.Share)

	jobs := protected.Group("/jobs")
	jobHandler := NewJobHandler(deps.Workspace)
	jobs.Post("/", jobHandler.Save)
	jobs.Delete("/:id", jobHandler.Delete)
	jobs.Get("/:id/cost", jobHandler.Cost)
	jobs.Post("/:id/clock-in", jobHandler.ClockIn)
	jobs.Post("/:id/clock-out", jobHandler.ClockOut)
	jobs.Post("/:id/complete", jobHandler.Complete)
	jobs.Post("/:id/pay", jobHandler.Pay)

	txs := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Workspace)
	txs.Post("/payments", txHandler.CollectPayment)
	txs.Post("/debts", txHandler.AddDebt)
	txs.Post("/:id/settle", txHandler.Settle)
	txs.Delete("/:id", txHandler.Delete)

	watch := protected.Group("/watchlist")
	watchHandler := NewWatchHandler(deps.Workspace)
	watch.Get("/", watchHandler.List)
	watch.Get("/dismissed", watchHandler.Dismissed)
	watch.Post("/:kind/:id/dismiss", watchHandler.Dismiss)
	watch.Post("/:kind/:id/restore", watchHandler.Restore)

	vaults := protected.Group("/vaults")
	vaultHandler := NewVaultHandler(deps.Workspace)
	vaults.Get("/", vaultHandler.List)
	vaults.Post("/", vaultHandler.Create)
	vaults.Put("/active", vaultHandler.SetActive) // antes de /:id
	vaults.Put("/:id", vaultHandler.Rename)
	vaults.Delete("/:id", vaultHandler.Delete)
	vaults.Get("/:id/totals", vaultHandler.Totals)

	profileHandler := NewProfileHandler(deps.Workspace)
	protected.Put("/profile", profileHandler.Update)
}

// MetricsMiddleware cuenta peticiones por ruta registrada (no por URL, para
// no multiplicar series con los IDs).
func MetricsMiddleware(rec *metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		rec.ObserveHTTP(c.Method(), c.Route().Path, strconv.Itoa(status))
		return err
	}
}
