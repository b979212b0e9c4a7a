package grpcapi

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func servingStatus(t *testing.T, s *Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestCheckOnce(t *testing.T) {
	var down atomic.Bool
	s := NewServer(func(ctx context.Context) error {
		if down.Load() {
			return errors.New("connection refused")
		}
		return nil
	}, time.Minute)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, s, ServiceName))

	down.Store(true)
	s.CheckOnce(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, s, ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, s, ""))

	down.Store(false)
	s.CheckOnce(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, s, ServiceName))
}

func TestCheckOnce_NilPing(t *testing.T) {
	s := NewServer(nil, 0)
	assert.Equal(t, 15*time.Second, s.interval)

	s.CheckOnce(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, s, ""))
}

func TestWatchHealth_StopsWithContext(t *testing.T) {
	var calls atomic.Int32
	s := NewServer(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.WatchHealth(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchHealth did not return after cancel")
	}
}
