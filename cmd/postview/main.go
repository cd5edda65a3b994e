package main

import (
	"context"

	"github.com/joho/godotenv"

	"postview/internal/app"
	"postview/pkg/config"
	"postview/pkg/logger"
	"postview/pkg/shutdown"
)

// build metadata - set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load(".env")
	flags := config.ParseCommandFlags()

	eff, err := config.LoadEffective(flags)
	if err != nil {
		logger.Init("info", "text")
		shutdown.Abort("failed to load config", err)
	}
	logger.Init(eff.Config.Logging.Level, eff.Config.Logging.Format)

	a, err := app.New(eff, version, commit, buildDate)
	if err != nil {
		shutdown.Abort("failed to initialize", err)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server failed", err)
	}
	logger.Info("shutdown_complete")
}
