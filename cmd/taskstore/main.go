// Package main is the entry point for the taskstore CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskstore/internal/backend/googletasks"
	"taskstore/internal/backend/rest"
	"taskstore/internal/cli"
	"taskstore/internal/commands"
	"taskstore/internal/config"
	"taskstore/internal/service"
)

func main() {
	// Cancel on interrupt; watch runs until then.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newBackend)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newBackend selects the transport named in config.
func newBackend(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendREST:
		return rest.New(ctx, cfg)
	case config.BackendGoogle:
		return googletasks.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
}
