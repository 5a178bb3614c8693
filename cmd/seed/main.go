package main

import (
	"catalog-service/internal/seed"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Running database seeder...", zap.String("environment", cfg.Server.Env))

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := seed.Run(database.GetDB(), log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}
