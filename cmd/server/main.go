package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/muletrace/internal/config"
	"github.com/vanshika/muletrace/internal/graph"
	"github.com/vanshika/muletrace/internal/logging"
	"github.com/vanshika/muletrace/internal/repository"
	"github.com/vanshika/muletrace/internal/server"
	"github.com/vanshika/muletrace/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient := buildMirrorClient(ctx, logger, cfg)
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	var mirror service.Mirror
	if graphClient != nil {
		mirror = repository.New(graphClient)
	}

	analysisService := service.NewAnalysisService(logger, mirror, cfg.Engine.MaxTransactions)
	apiHandlers := server.NewAPIHandlers(logger, analysisService, cfg.HTTP.MaxUploadBytes)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildMirrorClient connects to the graph store only when mirroring is
// enabled; the server runs fine without one.
func buildMirrorClient(ctx context.Context, logger *slog.Logger, cfg config.Config) graph.Client {
	if !cfg.Engine.MirrorEnabled {
		return nil
	}
	if cfg.Graph.URI == "" {
		logger.Warn("mirror enabled but GRAPH_URI not set, mirroring disabled")
		return nil
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client, mirroring disabled", "error", err)
		return nil
	}
	logger.Info("connected to graph mirror", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client
}

func parseAllowedOrigins(csv string) []string {
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
