package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/homepoint/internal/buildinfo"
	"github.com/dmitrijs2005/homepoint/internal/client/cli"
	"github.com/dmitrijs2005/homepoint/internal/client/config"
	"github.com/dmitrijs2005/homepoint/internal/client/metrics"
	"github.com/dmitrijs2005/homepoint/internal/logging"
)

func main() {

	buildinfo.Print(os.Stdout)

	cfg := config.LoadConfig(os.Args[1:])
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "cannot start admin console", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)

}
