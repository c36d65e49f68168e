package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

type stubScanner struct {
	mu  sync.Mutex
	vif domain.VIF
}

func (s *stubScanner) StartScan(context.Context, *domain.ScanParams, domain.ResultCallback) error {
	return nil
}
func (s *stubScanner) ScanDone() bool          { return false }
func (s *stubScanner) State() domain.ScanState { return domain.StateIdle }
func (s *stubScanner) Stats(context.Context, domain.StatsKind) (domain.RadioStats, error) {
	return domain.RadioStats{}, nil
}
func (s *stubScanner) VIF() domain.VIF {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vif
}

func (s *stubScanner) set(v domain.VIF) {
	s.mu.Lock()
	s.vif = v
	s.mu.Unlock()
}

func TestHealthServer_Update(t *testing.T) {
	scanner := &stubScanner{vif: domain.VIF{Index: domain.InvalidVIFIndex}}
	h := NewHealthServer(scanner, time.Second, nil)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Update())

	scanner.set(domain.VIF{Index: 1, OpState: domain.OpStateDown})
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Update())

	scanner.set(domain.VIF{Index: 1, OpState: domain.OpStateUp})
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Update())
}

func TestHealthServer_Serve(t *testing.T) {
	scanner := &stubScanner{vif: domain.VIF{Index: domain.InvalidVIFIndex}}
	h := NewHealthServer(scanner, 20*time.Millisecond, nil)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.Status
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())

	scanner.set(domain.VIF{Index: 3, OpState: domain.OpStateUp})
	assert.Eventually(t, func() bool {
		return check() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
