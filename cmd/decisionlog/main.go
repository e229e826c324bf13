// Package main starts the decisionlog HTTP API process lifecycle.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	decisionlogcmd "github.com/louisbranch/decisionlog/internal/cmd/decisionlog"
	"github.com/louisbranch/decisionlog/internal/platform/config"
)

func main() {
	cfg, err := decisionlogcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := decisionlogcmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
