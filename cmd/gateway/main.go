package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magodo/slog2hclog"

	"github.com/openkcm/scim-gateway/internal/auth"
	"github.com/openkcm/scim-gateway/internal/directory"
	"github.com/openkcm/scim-gateway/internal/paging"
	"github.com/openkcm/scim-gateway/internal/server"
	"github.com/openkcm/scim-gateway/pkg/clients/graph"
	"github.com/openkcm/scim-gateway/pkg/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the gateway configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("gateway exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	logger := slog2hclog.New(slog.Default(), level).Named(cfg.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := auth.NewTokenSource(ctx, cfg)
	if err != nil {
		if !errors.Is(err, auth.ErrNoCredentials) {
			return err
		}

		// Without client credentials every request must bring its own token.
		logger.Info("no client credentials configured, requests must carry a bearer token")
		tokens = nil
	}

	client, err := graph.NewClient(cfg, logger)
	if err != nil {
		return err
	}

	svc := directory.NewService(client, paging.Mode(cfg.Pagination), logger)
	gateway := server.New(svc, tokens, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           gateway.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		logger.Info("listening", "address", cfg.ListenAddress, "upstream", cfg.Upstream.Host)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
