package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"printpod/internal/config"
	"printpod/internal/database"
	"printpod/internal/logger"
	"printpod/internal/worker"
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

	// Initialize worker
	w := worker.New(cfg, logger, db)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		w.Stop()
		os.Exit(0)
	}()

	// Start worker
	w.Start()
}
