// Package main Invoicer API
//
// @title           Invoicer API
// @version         1.0
// @description     API для выставления счетов: учётные записи, адресная книга, счета, шаблоны и каталог

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/invoicer/docs"
	"github.com/magabrotheeeer/invoicer/internal/app/invoicer"
	"github.com/magabrotheeeer/invoicer/internal/config"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env)

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Error("invalid config", sl.Err(err))
		os.Exit(1)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	logger.Info("starting invoicer", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := invoicer.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("invoicer stopped gracefully")
}
