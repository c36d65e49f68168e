// Package grpc serves the standard gRPC health protocol for the scanner.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

// ServiceName is the health service name clients should query.
const ServiceName = "wscan.Scanner"

const defaultCheckInterval = 5 * time.Second

// HealthServer reports SERVING while the station interface is up.
type HealthServer struct {
	scanner  ports.Scanner
	health   *health.Server
	server   *grpc.Server
	interval time.Duration
	logger   *slog.Logger
}

// NewHealthServer creates a gRPC server with the health service registered.
func NewHealthServer(scanner ports.Scanner, interval time.Duration, logger *slog.Logger) *HealthServer {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	h := &HealthServer{
		scanner:  scanner,
		health:   health.NewServer(),
		server:   grpc.NewServer(),
		interval: interval,
		logger:   logger.With("component", "grpc"),
	}
	healthpb.RegisterHealthServer(h.server, h.health)
	h.Update()
	return h
}

// Update refreshes the serving status from the interface state.
func (h *HealthServer) Update() healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	vif := h.scanner.VIF()
	if vif.Valid() && vif.OpState == domain.OpStateUp {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(ServiceName, status)
	h.health.SetServingStatus("", status)
	return status
}

// Serve serves on lis until ctx is cancelled, refreshing the status every
// interval.
func (h *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(lis)
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	last := h.Update()
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			h.server.GracefulStop()
			return nil
		case err := <-errCh:
			return fmt.Errorf("grpc serve: %w", err)
		case <-ticker.C:
			if s := h.Update(); s != last {
				h.logger.Info("health status changed", "status", s.String())
				last = s
			}
		}
	}
}

// Run listens on addr and serves until ctx is cancelled.
func (h *HealthServer) Run(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", addr, err)
	}
	h.logger.Info("gRPC health server listening", "addr", lis.Addr().String())
	return h.Serve(ctx, lis)
}
