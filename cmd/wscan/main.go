package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcalzada-xor/wscan/internal/adapters/reporting"
	"github.com/lcalzada-xor/wscan/internal/app"
	"github.com/lcalzada-xor/wscan/internal/config"
	"github.com/lcalzada-xor/wscan/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return 2
	}

	// Setup Structured Logging. stdout is reserved for -once output.
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize Tracing
	var traceOut io.Writer = io.Discard
	if cfg.Debug {
		traceOut = os.Stderr
	}
	shutdownTracer, err := telemetry.InitTracer(traceOut)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	// Initialize Application
	application, err := app.New(cfg, logger)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	// Root Context with cancellation on Interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Once {
		s, err := application.RunOnce(ctx)
		if err != nil {
			slog.Error("Scan failed", "error", err)
			return 1
		}
		if err := reporting.WriteResultsTable(os.Stdout, s.Results); err != nil {
			slog.Error("Failed to print results", "error", err)
			return 1
		}
		return 0
	}

	slog.Info("wscan Starting...", "driver", cfg.Driver, "interface", cfg.Interface)

	// Run Application
	if err := application.Run(ctx); err != nil {
		slog.Error("Application error", "error", err)
		return 1
	}
	return 0
}
