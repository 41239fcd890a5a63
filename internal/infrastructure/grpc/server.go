package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/learnhub/lms-platform/internal/core/ports"
)

// Server is the RPC transport of the identity core.
type Server struct {
	address string
	srv     *grpc.Server
	health  *health.Server
	log     zerolog.Logger
}

// NewServer builds a gRPC server exposing the mark management service
// behind the logging and authorization interceptors.
func NewServer(address string, marks ports.MarkService, codec ports.SessionCodec, log zerolog.Logger) *Server {
	reqs := DefaultRequirements()
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(codec, reqs, log),
		),
		grpc.ChainStreamInterceptor(
			StreamAuthInterceptor(codec, reqs, log),
		),
	)
	RegisterExamSubmissionServer(srv, NewMarksHandler(marks, log))

	hs := health.NewServer()
	hs.SetServingStatus(ExamSubmissionServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{address: address, srv: srv, health: hs, log: log}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("stopping gRPC server")
		s.health.Shutdown()
		s.srv.GracefulStop()
	}()

	s.log.Info().Str("address", s.address).Msg("starting gRPC server")
	return s.Serve(lis)
}

// Serve accepts connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Stop terminates the server immediately.
func (s *Server) Stop() { s.srv.Stop() }
