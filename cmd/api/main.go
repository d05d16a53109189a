package main

import (
	"context"
	"fmt"
	"os"

	"github.com/carefleet/carefleet-backend/internal/config"
	"github.com/carefleet/carefleet-backend/internal/di"
	"github.com/carefleet/carefleet-backend/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	rt, err := observability.InitRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer rt.Shutdown(context.Background())

	application, err := di.InitializeApp(cfg, rt.Logger)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	return application.Run(ctx)
}
