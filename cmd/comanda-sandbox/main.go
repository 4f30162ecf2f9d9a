package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/jhoicas/comanda-client/internal/infrastructure/memory"
	"github.com/jhoicas/comanda-client/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/comanda-client/internal/interfaces/http"
	"github.com/jhoicas/comanda-client/pkg/config"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "archivo de configuración")
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.Sandbox.Addr()).
		Str("store", cfg.Sandbox.Store).
		Msg("iniciando servidor sandbox")

	// precios como números JSON, igual que el servidor real
	decimal.MarshalJSONWithoutQuotes = true

	var deps httpRouter.RouterDeps
	switch cfg.Sandbox.Store {
	case config.SandboxStorePostgres:
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
		store := postgres.NewStore(pool)
		deps = httpRouter.RouterDeps{Users: store, Catalog: store, Comandas: store}
	default:
		store := memory.NewStore()
		deps = httpRouter.RouterDeps{Users: store, Catalog: store, Comandas: store}
	}
	deps.JWT = httpRouter.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name + "-sandbox",
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 60,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Msg("petición")
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-sandbox"})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.Sandbox.Addr()); err != nil {
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

	log.Info().Msg("servidor sandbox detenido")
}
