// Package app wires the driver transport, the scan controller and the
// outer surfaces into one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/nl80211"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/replay"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/sim"
	grpcadapter "github.com/lcalzada-xor/wscan/internal/adapters/grpc"
	"github.com/lcalzada-xor/wscan/internal/adapters/reporting"
	"github.com/lcalzada-xor/wscan/internal/adapters/storage"
	webserver "github.com/lcalzada-xor/wscan/internal/adapters/web/server"
	"github.com/lcalzada-xor/wscan/internal/adapters/web/websocket"
	"github.com/lcalzada-xor/wscan/internal/config"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
	"github.com/lcalzada-xor/wscan/internal/core/services/scan"
	"github.com/lcalzada-xor/wscan/internal/core/services/session"
	"github.com/lcalzada-xor/wscan/internal/telemetry"
)

// Application holds the core components of the application.
type Application struct {
	Config       *config.Config
	Transport    ports.Transport
	Controller   *scan.Controller
	Runner       *session.Runner
	Store        *storage.SQLiteAdapter
	WSManager    *websocket.WSManager
	WebServer    *webserver.Server
	HealthServer *grpcadapter.HealthServer

	logger *slog.Logger
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &Application{
		Config: cfg,
		logger: logger,
	}

	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	store, err := app.initStorage()
	if err != nil {
		return err
	}
	app.Store = store

	// 2. Driver & Controller
	transport, err := app.initTransport()
	if err != nil {
		return err
	}
	app.Transport = transport

	ctrl, err := scan.NewController(transport, scan.Options{
		InterfaceName:     app.Config.Interface,
		DefaultMaxBSS:     app.Config.DefaultMaxBSS,
		TwoFourOnly:       app.Config.TwoFourOnly,
		SkipLocalAdminMAC: app.Config.SkipLocalAdminMAC,
		FixedMAC:          app.Config.FixedMAC,
	}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create scan controller: %w", err)
	}
	app.Controller = ctrl

	// 3. Sessions & Servers
	app.WSManager = websocket.NewWSManager(app.Config.AllowedOrigins)
	app.Runner = session.NewRunner(ctrl, store, session.Options{
		PollInterval: app.Config.PollInterval,
		Timeout:      app.Config.ScanTimeout,
		ChannelMax:   app.Config.ChannelMax,
		SSIDMax:      app.Config.SSIDMax,
	}, app.logger, app.WSManager)

	app.WebServer = webserver.NewServer(webserver.Options{
		Addr:          app.Config.Addr,
		TokenHash:     []byte(app.Config.TokenHash),
		ScanRateLimit: app.Config.ScanRateLimit,
	}, app.Runner, ctrl, store, reporting.NewPDFExporter(), app.WSManager)

	if app.Config.GRPCAddr != "" {
		app.HealthServer = grpcadapter.NewHealthServer(ctrl, 0, app.logger)
	}
	if app.Config.TokenHash == "" {
		app.logger.Warn("API token hash not configured, HTTP API is unauthenticated")
	}
	return nil
}

func (app *Application) initStorage() (*storage.SQLiteAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init scan storage: %w", err)
	}
	return store, nil
}

func (app *Application) initTransport() (ports.Transport, error) {
	switch app.Config.Driver {
	case config.DriverSim:
		app.logger.Info("Mock Mode Active: simulating radio")
		return sim.NewTransport(sim.Options{ScanDelay: 300 * time.Millisecond}), nil
	case config.DriverReplay:
		app.logger.Info("Replaying capture", "path", app.Config.PcapPath)
		return replay.NewTransport(replay.Options{Path: app.Config.PcapPath})
	default:
		t, err := nl80211.NewTransport(nl80211.Options{
			ScanTimeout: app.Config.ScanTimeout,
			Logger:      app.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open driver: %w", err)
		}
		return t, nil
	}
}

// Request returns the configured scan request.
func (app *Application) Request() session.Request {
	c := app.Config
	return session.Request{
		Channels:     c.Channels,
		Bands:        c.Bands,
		SSIDs:        c.SSIDs,
		MaxBSS:       c.MaxBSS,
		Passive:      c.Passive,
		DwellActive:  c.DwellActive,
		DwellPassive: c.DwellPassive,
	}
}

// RunOnce brings the interface up and runs a single scan session.
func (app *Application) RunOnce(ctx context.Context) (domain.ScanSession, error) {
	if err := app.Controller.Init(ctx); err != nil {
		return domain.ScanSession{}, err
	}
	return app.Runner.RunOnce(ctx, app.Request())
}

// Run starts the servers and the periodic scan loop and blocks until ctx
// is cancelled or a component fails.
func (app *Application) Run(ctx context.Context) error {
	app.logger.Info("Starting wscan components...")

	if err := app.Controller.Init(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 3)

	go func() {
		if err := app.WebServer.Run(ctx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	if app.HealthServer != nil {
		go func() {
			if err := app.HealthServer.Run(ctx, app.Config.GRPCAddr); err != nil {
				errChan <- fmt.Errorf("grpc server error: %w", err)
			}
		}()
	}

	go func() {
		if err := app.Runner.Loop(ctx, app.Request(), app.Config.ScanInterval); err != nil {
			errChan <- fmt.Errorf("scan loop error: %w", err)
		}
	}()

	app.logger.Info("wscan Ready. Press Ctrl+C to terminate.")

	select {
	case <-ctx.Done():
		app.logger.Info("Termination signal received")
		return nil
	case err := <-errChan:
		return err
	}
}

// Close removes the interface and releases the driver and storage.
func (app *Application) Close() error {
	var errs []error
	if app.Controller != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Controller.Teardown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if app.Transport != nil {
		if err := app.Transport.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close driver: %w", err))
		}
	}
	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
