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

	"github.com/skillbase/competency-search/internal/bootstrap"
	"github.com/skillbase/competency-search/internal/config"
	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/observability/logging"
	"github.com/skillbase/competency-search/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker metrics server failed", "error", err)
		}
	}()

	app.ProcessUC.ObserveRateWait(func(wait time.Duration) {
		workerMetrics.ObserveRateWait("worker", wait)
	})

	jobTimeout := time.Duration(cfg.WorkerJobTimeout) * time.Second
	slog.Info("worker subscribed", "subject", cfg.NATSSubject)

	err = app.Queue.SubscribeImportJobs(ctx, func(handlerCtx context.Context, job domain.ImportJob) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, jobTimeout)
		defer cancel()

		workerMetrics.StartJob()
		start := time.Now()
		processErr := app.ProcessUC.Process(processCtx, job)
		workerMetrics.FinishJob("worker", time.Since(start), processErr)
		return processErr
	})
	if err != nil {
		slog.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
