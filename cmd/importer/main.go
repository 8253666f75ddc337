package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillbase/competency-search/internal/adapters/importhttp"
	"github.com/skillbase/competency-search/internal/bootstrap"
	"github.com/skillbase/competency-search/internal/config"
	"github.com/skillbase/competency-search/internal/observability/logging"
	"github.com/skillbase/competency-search/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup("importer", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics("importer")
	router := importhttp.NewRouter(app.ImportUC, app.Audit, serverMetrics)
	server := &http.Server{
		Addr:         ":" + cfg.ImporterPort,
		Handler:      router.Handler(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("importer listening", "port", cfg.ImporterPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("importer server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("importer shutdown failed", "error", err)
	}
}
