package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-sync/internal/application/auth"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/application/usecase"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	StockUC   *usecase.StockUseCase
	UserUC    *usecase.UserUseCase
	JWTSecret string
	// RunCtx contexto de vida del proceso para las corridas de sincronización.
	RunCtx   context.Context
	Gatherer prometheus.Gatherer
	Mode     string // modo del cliente Shopee, se informa en /health
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Mode: deps.Mode})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyOperator := RequireRole(entity.RoleAdmin, entity.RoleOperator)

	// Stock
	stock := protected.Group("/stock", anyOperator)
	stockHandler := NewStockHandler(deps.StockUC, deps.RunCtx, deps.Log)
	stock.Get("/", stockHandler.List)
	stock.Get("/search", stockHandler.Search)
	stock.Post("/refresh", stockHandler.Refresh)
	stock.Post("/", adminOnly, stockHandler.Create)
	stock.Get("/:sku", stockHandler.Get)
	stock.Post("/:sku/sync", stockHandler.Sync)

	// Operadores (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Delete("/:username", userHandler.Delete)
}
