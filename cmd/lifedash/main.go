package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifedash/lifedash/adapter/cli"
	"github.com/lifedash/lifedash/internal/app"
	"github.com/lifedash/lifedash/pkg/config"
	"github.com/lifedash/lifedash/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetContainer(container)
	cli.Execute(ctx)
}
