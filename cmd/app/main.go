package main

import (
	"os"

	"arena/config"
	"arena/di"
	"arena/helper"
	"arena/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetOutput(cfg, os.Stdout)
	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	app, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run service")
	}
}
