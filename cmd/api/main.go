package main

import (
	"log"

	"printpod/internal/api"
	"printpod/internal/config"
	"printpod/internal/database"
	"printpod/internal/events"
	"printpod/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Initialize event publisher
	publisher := events.NewKafkaPublisher(cfg, logger)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, publisher)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
