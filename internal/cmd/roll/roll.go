// Package roll implements the one-shot roll command used from a terminal.
package roll

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/rollbot/internal/dice"
	entrypoint "github.com/louisbranch/rollbot/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/rollbot/internal/platform/grpc"
	rollv1 "github.com/louisbranch/rollbot/internal/services/rollbot/api/grpc/roll"
	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultDialTimeout = 5 * time.Second

// Config holds roll command configuration.
type Config struct {
	MaxDice     int `env:"MAX_DICE" envDefault:"100"`
	Seed        int64
	HasSeed     bool
	ShowSeed    bool
	Addr        string
	DialTimeout time.Duration
	Notation    string
}

// ParseConfig parses environment, flags, and the notation arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum dice per roll")
	fs.Int64Var(&cfg.Seed, "seed", 0, "seed for a reproducible roll")
	fs.BoolVar(&cfg.ShowSeed, "show-seed", false, "print the seed used for the roll")
	fs.StringVar(&cfg.Addr, "addr", "", "rollbot gRPC address; rolls locally when empty")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", defaultDialTimeout, "time to wait for the remote roll service")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.HasSeed = true
		}
	})
	if cfg.MaxDice < 1 || cfg.MaxDice > dice.MaxDiceLimit {
		return Config{}, fmt.Errorf("max dice must be between 1 and %d, got %d", dice.MaxDiceLimit, cfg.MaxDice)
	}
	if cfg.Addr != "" && (cfg.HasSeed || cfg.ShowSeed) {
		return Config{}, errors.New("seed flags are not supported with -addr")
	}
	cfg.Notation = strings.Join(fs.Args(), " ")
	if strings.TrimSpace(cfg.Notation) == "" {
		return Config{}, errors.New("dice notation is required (e.g. 2d6 or 1d8+1)")
	}
	return cfg, nil
}

// Run rolls the configured notation once and writes the response to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output writer is required")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		if cfg.Addr != "" {
			return rollRemote(ctx, cfg, out)
		}
		rollService := rolls.New(cfg.MaxDice)

		var result dice.Result
		if cfg.HasSeed {
			result = rollService.RollWithSeed(ctx, cfg.Notation, cfg.Seed)
		} else {
			var err error
			result, err = rollService.Roll(ctx, cfg.Notation)
			if err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(out, result.Text); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if cfg.ShowSeed && result.Recognized {
			if _, err := fmt.Fprintf(out, "seed: %d\n", result.Seed); err != nil {
				return fmt.Errorf("write seed: %w", err)
			}
		}
		return nil
	})
}

func rollRemote(ctx context.Context, cfg Config, out io.Writer) error {
	conn, err := platformgrpc.DialWithHealth(ctx, cfg.Addr, rollv1.ServiceName, cfg.DialTimeout, log.Printf)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Addr, err)
	}
	defer conn.Close()

	resp, err := rollv1.NewRollServiceClient(conn).Roll(ctx, wrapperspb.String(cfg.Notation))
	if err != nil {
		return fmt.Errorf("remote roll: %w", err)
	}
	if _, err := fmt.Fprintln(out, resp.GetValue()); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
