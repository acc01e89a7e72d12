package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"chessduel/config"
	"chessduel/server"
)

func main() {
	cfg, err := config.Setup(".env")
	if err != nil {
		panic("failed to setup configuration: " + err.Error())
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync() //nolint:errcheck

	registry := server.NewRegistry()
	handler := server.NewHandler(*cfg, logger, registry)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewRouter(handler, cfg.IsLocalCors),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, logger)

	go func() {
		logger.Infof("Server is running on port %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := registry.CloseAll(); err != nil {
		logger.Warnw("closing games", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
