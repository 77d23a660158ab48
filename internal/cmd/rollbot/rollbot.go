// Package rollbot parses rollbot command flags and composes the chat gateway.
package rollbot

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/rollbot/internal/dice"
	entrypoint "github.com/louisbranch/rollbot/internal/platform/cmd"
	server "github.com/louisbranch/rollbot/internal/services/rollbot/app"
)

// Config holds rollbot command configuration.
type Config struct {
	HTTPAddr       string  `env:"HTTP_ADDR"        envDefault:":8090"`
	GRPCAddr       string  `env:"GRPC_ADDR"        envDefault:":8091"`
	CommandPrefix  string  `env:"COMMAND_PREFIX"   envDefault:"!roll"`
	MaxDice        int     `env:"MAX_DICE"         envDefault:"100"`
	RollsPerSecond float64 `env:"ROLLS_PER_SECOND" envDefault:"5"`
	RollBurst      int     `env:"ROLL_BURST"       envDefault:"10"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "chat gateway HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC listen address (empty disables gRPC)")
	fs.StringVar(&cfg.CommandPrefix, "prefix", cfg.CommandPrefix, "chat command prefix that triggers a roll")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum dice per roll")
	fs.Float64Var(&cfg.RollsPerSecond, "rolls-per-second", cfg.RollsPerSecond, "sustained rolls per connection per second (0 disables)")
	fs.IntVar(&cfg.RollBurst, "roll-burst", cfg.RollBurst, "burst of rolls allowed per connection")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.MaxDice < 1 || cfg.MaxDice > dice.MaxDiceLimit {
		return Config{}, fmt.Errorf("max dice must be between 1 and %d, got %d", dice.MaxDiceLimit, cfg.MaxDice)
	}
	if cfg.RollsPerSecond < 0 {
		return Config{}, fmt.Errorf("rolls per second must not be negative, got %v", cfg.RollsPerSecond)
	}
	return cfg, nil
}

// Run builds the rollbot app and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRollBot, func(ctx context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr:       cfg.HTTPAddr,
			GRPCAddr:       cfg.GRPCAddr,
			CommandPrefix:  cfg.CommandPrefix,
			MaxDice:        cfg.MaxDice,
			RollsPerSecond: cfg.RollsPerSecond,
			RollBurst:      cfg.RollBurst,
		}); err != nil {
			return fmt.Errorf("serve rollbot: %w", err)
		}
		return nil
	})
}
