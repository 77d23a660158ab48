// Package main rolls dice notation once from the command line.
//
// Usage:
//
//	roll [-seed N] [-show-seed] [-max-dice N] 2d6+1
package main

import (
	"context"
	"flag"
	"os"

	rollcmd "github.com/louisbranch/rollbot/internal/cmd/roll"
	"github.com/louisbranch/rollbot/internal/platform/config"
)

func main() {
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("roll: %v", err)
	}
	if err := rollcmd.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("roll: %v", err)
	}
}
