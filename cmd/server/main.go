package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/afamplan/internal/config"
	"github.com/JonMunkholm/afamplan/internal/core"
	"github.com/JonMunkholm/afamplan/internal/logging"
	"github.com/JonMunkholm/afamplan/internal/reference"
	"github.com/JonMunkholm/afamplan/internal/web"
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
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	src, closeSrc, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	schema, err := reference.ParseSchema(cfg.Reference.Schema)
	if err != nil {
		return err
	}
	areas, err := reference.LoadAreas(cfg.Reference.AreasPath)
	if err != nil {
		return err
	}

	store := reference.NewStore(src, schema)
	limiter := core.NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWait)
	service := core.NewService(store, areas, core.Options{
		HintFallback:  cfg.Reference.HintFallback,
		MaxActivities: cfg.Export.MaxActivities,
		DefaultTitle:  cfg.Export.DefaultTitle,
		FetchTimeout:  cfg.Reference.FetchTimeout,
		Exports:       limiter,
	})

	// The table must load once before serving; a bad source is fatal here
	// but only logged on later reloads.
	t, err := service.Reload(ctx)
	if err != nil {
		return fmt.Errorf("initial reference load from %s: %w", src, err)
	}
	slog.Info("reference table ready",
		"records", t.Len(),
		"areas", len(t.Areas()),
		"catalog", areas.Name,
	)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Reference.Watch {
		w, err := reference.NewWatcher(store, cfg.Reference.Path, 0)
		if err != nil {
			return err
		}
		go w.Run(jobCtx)
	}
	go service.StartReloadScheduler(jobCtx, cfg.Reference.ReloadInterval)

	server := web.NewServer(service, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := limiter.Active(); active > 0 {
			slog.Info("waiting for exports to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("exports did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
