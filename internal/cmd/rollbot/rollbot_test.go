package rollbot

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("rollbot", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":8091" {
		t.Fatalf("expected default grpc addr, got %q", cfg.GRPCAddr)
	}
	if cfg.CommandPrefix != "!roll" {
		t.Fatalf("expected default prefix, got %q", cfg.CommandPrefix)
	}
	if cfg.MaxDice != 100 {
		t.Fatalf("expected default max dice, got %d", cfg.MaxDice)
	}
	if cfg.RollsPerSecond != 5 || cfg.RollBurst != 10 {
		t.Fatalf("expected default rate limit 5/10, got %v/%d", cfg.RollsPerSecond, cfg.RollBurst)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ROLLBOT_HTTP_ADDR", "env-http")
	t.Setenv("ROLLBOT_GRPC_ADDR", "env-grpc")
	t.Setenv("ROLLBOT_MAX_DICE", "20")

	fs := flag.NewFlagSet("rollbot", flag.ContinueOnError)
	args := []string{
		"-http-addr", "flag-http",
		"-prefix", "/roll",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != "env-grpc" {
		t.Fatalf("expected env grpc addr, got %q", cfg.GRPCAddr)
	}
	if cfg.CommandPrefix != "/roll" {
		t.Fatalf("expected flag prefix, got %q", cfg.CommandPrefix)
	}
	if cfg.MaxDice != 20 {
		t.Fatalf("expected env max dice, got %d", cfg.MaxDice)
	}
}

func TestParseConfigRejectsInvalidLimits(t *testing.T) {
	tcs := [][]string{
		{"-max-dice", "0"},
		{"-max-dice", "10001"},
		{"-rolls-per-second", "-1"},
	}
	for _, args := range tcs {
		fs := flag.NewFlagSet("rollbot", flag.ContinueOnError)
		if _, err := ParseConfig(fs, args); err == nil {
			t.Fatalf("ParseConfig(%v) expected error", args)
		}
	}
}
