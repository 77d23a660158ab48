// Package mcp parses MCP command flags and starts the dice tool server.
package mcp

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/rollbot/internal/dice"
	entrypoint "github.com/louisbranch/rollbot/internal/platform/cmd"
	mcpservice "github.com/louisbranch/rollbot/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	MaxDice      int      `env:"MAX_DICE"          envDefault:"100"`
	Transport    string   `env:"MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string   `env:"MCP_HTTP_ADDR"     envDefault:"localhost:8092"`
	AllowedHosts []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum dice per roll")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "listen address for the http transport")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.MaxDice < 1 || cfg.MaxDice > dice.MaxDiceLimit {
		return Config{}, fmt.Errorf("max dice must be between 1 and %d, got %d", dice.MaxDiceLimit, cfg.MaxDice)
	}
	switch mcpservice.Transport(cfg.Transport) {
	case mcpservice.TransportStdio, mcpservice.TransportHTTP:
	default:
		return Config{}, fmt.Errorf("transport must be %q or %q, got %q", mcpservice.TransportStdio, mcpservice.TransportHTTP, cfg.Transport)
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter on the configured transport.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			MaxDice:      cfg.MaxDice,
			Transport:    mcpservice.Transport(cfg.Transport),
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
		})
	})
}
