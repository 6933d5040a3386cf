package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pricepulse-lab/pricepulse/internal/analytics"
	"github.com/pricepulse-lab/pricepulse/internal/catalog"
	corecfg "github.com/pricepulse-lab/pricepulse/internal/core/config"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage/postgres"
	"github.com/pricepulse-lab/pricepulse/internal/migrations"
	"github.com/pricepulse-lab/pricepulse/internal/seed"
	"github.com/pricepulse-lab/pricepulse/internal/server"
)

func main() {
	configPath := flag.String("config", "pricepulse.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	if err := dbAdapter.ValidateSchema(); err != nil {
		slog.Error("Schema validation failed", "error", err)
		os.Exit(1)
	}

	// 3. Seed catalog fixtures (optional)
	if cfg.Seed.Enabled {
		if err := seed.NewLoader(dbAdapter).Run(context.Background(), cfg.Seed.Path); err != nil {
			slog.Error("Failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	// 4. Initialize Services
	analyticsStore := postgres.NewAnalyticsAdapter(dbAdapter.DB())
	catalogSvc := catalog.NewService(dbAdapter, dbAdapter)
	analyticsSvc := analytics.NewService(analyticsStore)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter.DB(), cfg.Server.Mode, cfg.Server.MaxBodySizeMB)
	catalogSvc.RegisterRoutes(srv.Engine)
	analyticsSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
