package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/louisbranch/rollbot/internal/services/mcp/domain"
	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "rollbot"
	serverVersion = "1.0.0"
)

// Transport names how the MCP server is exposed.
type Transport string

const (
	// TransportStdio serves a single client over stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves streamable HTTP sessions.
	TransportHTTP Transport = "http"
)

// Config holds the MCP server settings.
type Config struct {
	MaxDice      int
	Transport    Transport
	HTTPAddr     string
	AllowedHosts []string
}

// Server hosts the MCP dice tools.
type Server struct {
	mcpServer *mcp.Server
}

// New creates an MCP server exposing the roll_dice tool.
func New(rollService *rolls.Service) (*Server, error) {
	if rollService == nil {
		return nil, errors.New("roll service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, domain.RollDiceTool(), domain.RollDiceHandler(rollService))
	return &Server{mcpServer: mcpServer}, nil
}

// Run creates an MCP server and serves it on the configured transport until
// ctx ends. Stdio is the default.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(rolls.New(cfg.MaxDice))
	if err != nil {
		return fmt.Errorf("init MCP server: %w", err)
	}

	switch cfg.Transport {
	case "", TransportStdio:
		log.Printf("rollbot MCP server serving on stdio")
		return server.Serve(ctx)
	case TransportHTTP:
		transport, err := NewHTTPTransport(cfg.HTTPAddr, server, cfg.AllowedHosts)
		if err != nil {
			return err
		}
		return transport.Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
