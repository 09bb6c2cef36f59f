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

	"github.com/honeynil/rotrade/internal/app"
	"github.com/honeynil/rotrade/internal/config"
	"github.com/honeynil/rotrade/internal/observability"
)

const serviceName = "rotrade"

func main() {
	cfg := config.Load()

	shutdownTracing := observability.Setup(serviceName, cfg)
	defer shutdownTracing(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	application, err := app.New(startCtx, cfg, app.Options{
		ServeMetrics: cfg.MetricsAddr == "",
		ServeHealth:  true,
	})
	cancel()
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if consumer := application.StartConsumer(ctx); consumer != nil {
		defer consumer.Close()
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           application.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
