package grpcapi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-checked service; "" reports overall serving status.
const ServiceName = "booking.BookingService"

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	ping       func(ctx context.Context) error
	interval   time.Duration
}

// NewServer registers grpc.health.v1 and reflection. ping is polled to flip
// the serving status when the database becomes unreachable.
func NewServer(ping func(ctx context.Context) error, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		ping:       ping,
		interval:   interval,
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)
	s.setServing(true)
	return s
}

func (s *Server) setServing(ok bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !ok {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// CheckOnce pings the database and updates the health status.
func (s *Server) CheckOnce(ctx context.Context) {
	if s.ping == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.ping(ctx); err != nil {
		slog.Warn("database health check failed", "error", err)
		s.setServing(false)
		return
	}
	s.setServing(true)
}

// WatchHealth runs CheckOnce on an interval until ctx is done.
func (s *Server) WatchHealth(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		s.CheckOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

func (s *Server) ListenAndServe(host, port string) error {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", host, port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
