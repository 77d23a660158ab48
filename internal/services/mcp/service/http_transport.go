package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/rollbot/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultHTTPAddr binds to localhost so the tool server is not exposed by accident.
const defaultHTTPAddr = "localhost:8092"

// HTTPTransport serves MCP streamable HTTP sessions for one Server.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	handler      http.Handler
	listener     net.Listener
}

// NewHTTPTransport binds addr and prepares the streamable HTTP handler.
// When allowedHosts is non-empty, requests whose Host header is not listed
// are rejected.
func NewHTTPTransport(addr string, server *Server, allowedHosts []string) (*HTTPTransport, error) {
	if server == nil || server.mcpServer == nil {
		return nil, errors.New("MCP server is not configured")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = defaultHTTPAddr
	}

	hosts := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			hosts[host] = struct{}{}
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server.mcpServer
	}, nil)

	t := &HTTPTransport{
		addr:         listener.Addr().String(),
		allowedHosts: hosts,
		listener:     listener,
	}
	mux := http.NewServeMux()
	mux.Handle("/mcp", t.hostGuard(streamable))
	mux.HandleFunc("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	t.handler = mux
	return t, nil
}

// Addr returns the bound listen address.
func (t *HTTPTransport) Addr() string {
	if t == nil {
		return ""
	}
	return t.addr
}

// Start serves HTTP until ctx ends, then shuts the server down gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	if t == nil || t.listener == nil {
		return errors.New("HTTP transport is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpServer := &http.Server{
		Handler:           t.handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(t.listener)
	}()
	log.Printf("rollbot MCP server serving HTTP on %s", t.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("MCP HTTP shutdown: %v; closing open sessions", err)
			_ = httpServer.Close()
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP: %w", err)
	}
}

func (t *HTTPTransport) hostGuard(next http.Handler) http.Handler {
	if len(t.allowedHosts) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if _, ok := t.allowedHosts[strings.ToLower(host)]; !ok {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
