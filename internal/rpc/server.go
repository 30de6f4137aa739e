package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server wraps a grpc.Server exposing the user service and the standard
// health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// NewServer builds a gRPC server for svc. Every call is logged and
// panics are turned into Internal errors.
func NewServer(svc UserServiceServer, log *slog.Logger) *Server {
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(log),
		recoveryInterceptor(log),
	))
	RegisterUserServiceServer(gs, svc)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{grpc: gs, health: hs, log: log}
}

// ListenAndServe listens on addr and blocks until the server stops.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// Serve accepts connections on lis and blocks until the server stops.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc listening", "addr", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Shutdown marks the services as not serving and waits for in-flight
// calls, falling back to a hard stop when ctx expires.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.grpc.Stop()
	}
}

func loggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("rpc",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
		return resp, err
	}
}

func recoveryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", "method", info.FullMethod, "error", rec)
				err = status.Errorf(codes.Internal, "%v", rec)
			}
		}()
		return handler(ctx, req)
	}
}
