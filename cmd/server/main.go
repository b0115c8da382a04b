package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/classifier"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/monitoring"
	"github.com/spacesedan/reviewlens/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clf, cleanup, err := classifier.FromEnv(ctx)
	if err != nil {
		slog.Error("[Main] Failed to initialize classifier",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	slog.Info("[Main] Classifier ready",
		slog.String("backend", clf.Name()),
		slog.String("model", clf.ModelID()))

	var predictionCache *cache.PredictionCache
	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		predictionCache, err = cache.InitPredictionCache()
		if err != nil {
			slog.Warn("[Main] Prediction cache unavailable, running uncached",
				slog.String("error", err.Error()))
		} else {
			defer cache.ClosePredictionCache()
		}
	}

	var healthy atomic.Bool
	go monitoring.MonitorClassifierHealth(ctx, clf, &healthy)

	router := server.Setup(clf, predictionCache, &healthy)

	addr := config.GetEnvOr("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("[Main] Listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed",
				slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Warn("[Main] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed",
			slog.String("error", err.Error()))
	}
}
