package main

import (
	"context"
	"fmt"
	"os"

	"FilmBlend/internal/app"
	"FilmBlend/internal/config"
	"FilmBlend/internal/logging"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: filmblend <username1> <username2>")
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx, os.Args[1], os.Args[2]); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
