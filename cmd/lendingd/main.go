package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"booklending/internal/infra/config"
	"booklending/internal/infra/logging"
	http_ "booklending/internal/infra/transport/http"
	"booklending/internal/repo/document"
	"booklending/internal/svc/authsvc"
	"booklending/internal/svc/lendingsvc"
)

const (
	appName = "booklend"
	svcName = "lendingd"
)

type Config struct {
	config.EnvConfig

	Log   logging.LoggerConfig      `envPrefix:"LOG_"`
	HTTP  http_.HTTPTransportConfig `envPrefix:"HTTP_"`
	Auth  authsvc.AuthConfig        `envPrefix:"AUTH_"`
	Store document.StoreConfig      `envPrefix:"STORE_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.lendingd")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	store, err := document.NewStoreFactory(cfg.Store)()
	if err != nil {
		return fmt.Errorf("new document store: %w", err)
	}

	transactor := document.NewTransactor(store)
	defer transactor.Close()

	authSvc, err := authsvc.NewAuthService(transactor, cfg.Auth)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}

	lendingSvc := lendingsvc.NewLendingService(transactor)

	authHTTP := authsvc.NewHTTPTransport(authSvc)
	lendingHTTP := lendingsvc.NewHTTPTransport(lendingSvc, authSvc)

	mux := http.NewServeMux()
	mux.Handle("/api/register", authHTTP)
	mux.Handle("/api/login", authHTTP)
	mux.Handle("/", lendingHTTP)

	if err := http_.ListenAndServe(ctx, mux, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
