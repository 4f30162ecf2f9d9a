package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jhoicas/comanda-client/internal/application/auth"
	"github.com/jhoicas/comanda-client/internal/application/session"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/infrastructure/api"
	infrapdf "github.com/jhoicas/comanda-client/internal/infrastructure/pdf"
	"github.com/jhoicas/comanda-client/internal/infrastructure/tokenstore"
	"github.com/jhoicas/comanda-client/internal/interfaces/cli"
	"github.com/jhoicas/comanda-client/pkg/config"
	"github.com/jhoicas/comanda-client/pkg/logger"
	"github.com/jhoicas/comanda-client/pkg/money"
)

func main() {
	var (
		configFile string
		apiURL     string
		logLevel   string
		tokenStore string
	)
	pflag.StringVarP(&configFile, "config", "c", "", "archivo de configuración (.env, .yaml, .json)")
	pflag.StringVar(&apiURL, "api-url", "", "URL base del servidor de comandas")
	pflag.StringVar(&logLevel, "log-level", "", "nivel de log (trace, debug, info, warn, error)")
	pflag.StringVar(&tokenStore, "token-store", "", "almacén del token (file, memory, redis)")
	pflag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if tokenStore != "" {
		cfg.Token.Store = tokenStore
	}

	// los logs van a stderr para no mezclarse con las pantallas
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Out:   os.Stderr,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("api", cfg.API.BaseURL).
		Str("token_store", cfg.Token.Store).
		Msg("iniciando cliente")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := tokenstore.Open(ctx, *cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del almacén de token inválida")
	}
	defer func() {
		if err := closeTokens(); err != nil {
			log.Warn().Err(err).Msg("cerrar almacén de token")
		}
	}()

	client, err := api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Tokens:    tokens,
		TokenKey:  cfg.Token.Key,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear cliente HTTP")
	}

	format, err := money.NewFormatter(cfg.UI.Locale, cfg.UI.Currency)
	if err != nil {
		log.Fatal().Err(err).Msg("formato de moneda")
	}

	sess := session.NewController(tokens, session.Config{
		TokenKey:    cfg.Token.Key,
		SplashDelay: cfg.UI.SplashDelay,
	}, log)

	term := cli.NewTerminal(os.Stdin, os.Stdout)
	app := cli.NewApp(term, cli.Config{
		AppName:       cfg.App.Name,
		MenuAnimation: cfg.UI.MenuAnimation,
		ReceiptDir:    cfg.UI.ReceiptDir,
	}, cli.Deps{
		Session:        sess,
		Auth:           auth.NewAuthUseCase(client, sess, log),
		Orders:         usecase.NewOrderUseCase(client, log),
		Products:       usecase.NewProductUseCase(client, term, log),
		OrderGateway:   client,
		CatalogGateway: client,
		Receipts:       infrapdf.NewMarotoReceiptGenerator(cfg.App.Name, format),
		Money:          format,
		Logger:         log,
	})

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("cliente finalizado con error")
		os.Exit(1)
	}
	log.Info().Msg("cliente detenido")
}
