package worker

import (
	"context"
	"encoding/json"
	"time"

	"printpod/internal/config"
	"printpod/internal/database"
	"printpod/internal/events"
	"printpod/internal/logger"
	"printpod/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

// Worker consumes order item lifecycle events and hands them to the
// audit processor.
type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor *processors.EventProcessor
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "pdc-pod-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	processor := processors.NewEventProcessor(db.DB, logger)

	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for order item events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.processor.Process(event); err != nil {
			w.logger.Error("Failed to process %s event: %v", event.Type, err)
			continue
		}

		w.logger.Debug("Recorded %s for order item %s", event.Type, event.OrderItemID)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
