package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/ledgerio/internal/config"
	"github.com/JonMunkholm/ledgerio/internal/core"
	_ "github.com/JonMunkholm/ledgerio/internal/core/tables" // Register all entities
	"github.com/JonMunkholm/ledgerio/internal/logging"
	"github.com/JonMunkholm/ledgerio/internal/observability"
	"github.com/JonMunkholm/ledgerio/internal/report"
	"github.com/JonMunkholm/ledgerio/internal/store/memory"
	"github.com/JonMunkholm/ledgerio/internal/store/postgres"
	"github.com/JonMunkholm/ledgerio/internal/web"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"driver", cfg.Database.Driver,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"import_workers", cfg.Import.Workers,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Amounts are plain JSON numbers in API responses.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	shutdownTracing, err := observability.Setup(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
		Pretty:      cfg.Tracing.Pretty,
	})
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	loc, err := cfg.Report.Location()
	if err != nil {
		slog.Error("invalid report timezone", "error", err)
		os.Exit(1)
	}

	service := core.NewService(store, core.ServiceConfig{
		Workers:       cfg.Import.Workers,
		MaxRows:       cfg.Import.MaxRows,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Timeout:       cfg.Upload.Timeout,
		Location:      loc,
	})

	entities := service.ListEntities()
	slog.Info("entities registered", "count", len(entities))
	for _, e := range entities {
		slog.Debug("entity", "key", e.Key, "label", e.Label)
	}

	server := web.NewServer(service, report.NewEngine(store, loc), cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active imports to complete (with timeout)
		if status := service.ImportStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("trace flush failed", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// openStore selects the record store named by the configured driver.
func openStore(ctx context.Context, cfg *config.Config) (core.Store, func(), error) {
	if !cfg.Database.UsesPostgres() {
		slog.Warn("using in-memory store; data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pool, err := postgres.Connect(ctx, postgres.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return nil, nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	store := postgres.New(pool)
	if cfg.Database.EnsureSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("database schema ensured")
	}
	return store, pool.Close, nil
}
