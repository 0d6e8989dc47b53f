package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/themisai/themis/internal/client/cli"
	"github.com/themisai/themis/internal/client/config"
	"github.com/themisai/themis/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, logging.FormatText, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
