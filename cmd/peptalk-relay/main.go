package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peptalk/peptalk-cli/internal/logger"
	"github.com/peptalk/peptalk-cli/internal/relay"
)

func main() {
	// The logger comes up first so configuration warnings are not lost.
	logger.InitServer(os.Getenv("DEBUG") == "true")

	cfg, err := relay.LoadConfig()
	if err != nil {
		logger.Fatal("Invalid relay configuration", "error", err)
	}

	srv := relay.NewServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("OAuth relay listening", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}
}
