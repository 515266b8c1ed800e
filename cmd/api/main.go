package main

import (
	"log"

	"churnboard/adapters/postgres"
	"churnboard/internal"
	"churnboard/internal/config"
	"churnboard/internal/dataset"
	"churnboard/internal/model"
	"churnboard/ui"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	store, err := dataset.NewWorkbookStore(cfg.Paths.UploadDir)
	if err != nil {
		log.Fatalf("failed to initialize workbook store: %v", err)
	}

	// Model artifacts load once at startup and stay immutable for the
	// process lifetime.
	artifacts, err := model.Load(cfg.Paths.ModelDir)
	if err != nil {
		log.Fatalf("failed to load model artifacts: %v", err)
	}
	logger.Info("model artifacts loaded from %s (%d features)",
		cfg.Paths.ModelDir, len(artifacts.Classifier.FeatureNames))

	var registry postgres.UploadRegistry
	if cfg.Database.URL != "" {
		registry, err = postgres.NewUploadRegistry(cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to initialize upload registry: %v", err)
		}
		logger.Info("upload registry enabled")
	}

	server := ui.NewServer(ui.Config{GinMode: cfg.Server.GinMode}, store, artifacts, registry, logger)

	logger.Info("listening on :%s", cfg.Server.Port)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
