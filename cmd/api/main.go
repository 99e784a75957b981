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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-sync/internal/application/auth"
	"github.com/jhoicas/stock-sync/internal/application/board"
	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/application/usecase"
	infraredis "github.com/jhoicas/stock-sync/internal/infrastructure/redis"
	"github.com/jhoicas/stock-sync/internal/infrastructure/shopee"
	"github.com/jhoicas/stock-sync/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/stock-sync/internal/interfaces/http"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("shopee_mode", cfg.Marketplace.Mode).
		Msg("iniciando aplicación")

	// Sin identidad del marketplace no se arranca: nunca se firma con valores por defecto.
	if err := cfg.Marketplace.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración de Shopee")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET vacío")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén local")
	}
	defer stores.Close()

	authUC := auth.NewAuthUseCase(stores.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err := authUC.EnsureOperators(ctx, cfg.Operators); err != nil {
		log.Fatal().Err(err).Msg("alta de operadores")
	}

	// Guardia por SKU: Redis si hay varias instancias, si no en memoria.
	var guard stocksync.Guard = stocksync.NewMemoryGuard()
	if cfg.Redis.Addr != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		guard = infraredis.NewGuard(rdb, infraredis.TTLFor(cfg.Marketplace.Timeout))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("guardia de SKU en Redis")
	}

	syncLog := log.WithStr("component", "stocksync")
	remote, err := shopee.NewRemoteClient(cfg.Marketplace, syncLog)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente Shopee")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	syncMetrics := stocksync.NewMetrics(reg)
	httpMetrics := httpRouter.NewHTTPMetrics(reg)

	consoleBoard := board.New(256, log.WithStr("component", "board"))
	orchestrator := stocksync.NewOrchestrator(stores.Stock, remote, syncMetrics, syncLog)
	dispatcher := stocksync.NewDispatcher(orchestrator, guard, consoleBoard, syncMetrics, syncLog)

	stockUC := usecase.NewStockUseCase(stores.Stock, consoleBoard, dispatcher)
	userUC := usecase.NewUserUseCase(stores.Users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.WithStr("component", "http"), httpMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Sync API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		StockUC:   stockUC,
		UserUC:    userUC,
		JWTSecret: cfg.JWT.Secret,
		RunCtx:    ctx,
		Gatherer:  reg,
		Mode:      cfg.Marketplace.Mode,
		Log:       log,
	})

	g, gCtx := errgroup.WithContext(ctx)

	// Bucle único del estado visible.
	g.Go(func() error {
		return consoleBoard.Run(gCtx)
	})

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	// Carga inicial de la consola (el botón "recargar" del operador hace lo mismo).
	if out, err := stockUC.Refresh(gCtx); err != nil {
		log.Error().Err(err).Msg("carga inicial del stock")
	} else {
		log.Info().Int("rows", out.Total).Msg("consola cargada")
	}

	waitErr := g.Wait()
	if waitErr != nil {
		log.Error().Err(waitErr).Msg("servidor finalizado con error")
	}

	// Las corridas ya comprometidas terminan su llamada remota antes de salir.
	dispatcher.Wait()
	log.Info().Msg("aplicación detenida")
	if waitErr != nil {
		stores.Close()
		os.Exit(1)
	}
}
