// Package server wires the rollbot chat gateway and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/rollbot/internal/platform/timeouts"
	rollgrpc "github.com/louisbranch/rollbot/internal/services/rollbot/api/grpc/roll"
	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config defines the inputs for the rollbot process.
type Config struct {
	HTTPAddr          string
	GRPCAddr          string
	CommandPrefix     string
	MaxDice           int
	RollsPerSecond    float64
	RollBurst         int
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	IdleTimeout       time.Duration
}

// Server hosts the chat gateway and, when configured, the gRPC roll API.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	grpcListener    net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
}

// NewServer validates config and prepares listeners without serving.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	rollService := rolls.New(config.MaxDice)
	handler, err := newHandler(rollService, handlerConfigFrom(config))
	if err != nil {
		return nil, err
	}

	server := &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
		},
	}

	if grpcAddr := strings.TrimSpace(config.GRPCAddr); grpcAddr != "" {
		listener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
		}
		server.grpcListener = listener
		server.grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		server.health = health.NewServer()
		rollgrpc.RegisterRollServiceServer(server.grpcServer, rollgrpc.NewService(rollService))
		grpc_health_v1.RegisterHealthServer(server.grpcServer, server.health)
		server.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		server.health.SetServingStatus(rollgrpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	}

	return server, nil
}

func handlerConfigFrom(config Config) handlerConfig {
	limit := rate.Limit(config.RollsPerSecond)
	if config.RollsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := config.RollBurst
	if burst <= 0 {
		burst = 1
	}
	idle := config.IdleTimeout
	if idle <= 0 {
		idle = timeouts.WebsocketIdle
	}
	return handlerConfig{
		commandPrefix: config.CommandPrefix,
		rollLimit:     limit,
		rollBurst:     burst,
		idleTimeout:   idle,
	}
}

// Run creates and serves a rollbot server until context cancellation.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init rollbot server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve rollbot: %w", err)
	}
	return nil
}

// GRPCAddr returns the gRPC listener address, or "" when gRPC is disabled.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// ListenAndServe serves HTTP and gRPC until ctx is cancelled or either fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("rollbot server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 2)
	log.Printf("rollbot chat gateway listening on %s", s.httpAddr)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			err = fmt.Errorf("serve http: %w", err)
		}
		serveErr <- err
	}()
	if s.grpcServer != nil {
		log.Printf("rollbot gRPC listening at %v", s.grpcListener.Addr())
		go func() {
			err := s.grpcServer.Serve(s.grpcListener)
			if errors.Is(err, grpc.ErrServerStopped) {
				err = nil
			}
			if err != nil {
				err = fmt.Errorf("serve gRPC: %w", err)
			}
			serveErr <- err
		}()
	}

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-serveErr:
		shutdownErr := s.shutdown()
		if err != nil {
			return err
		}
		return shutdownErr
	}
}

func (s *Server) shutdown() error {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.httpServer != nil {
		if err := s.httpServer.Close(); err != nil {
			log.Printf("close rollbot http server: %v", err)
		}
	}
}
