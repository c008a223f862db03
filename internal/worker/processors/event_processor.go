package processors

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"printpod/internal/events"
	"printpod/internal/logger"
	"printpod/internal/models"
)

// EventProcessor records order item lifecycle events in the audit table.
type EventProcessor struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewEventProcessor(db *gorm.DB, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{db: db, logger: logger}
}

func (ep *EventProcessor) Process(event events.Event) error {
	if event.Type == "" {
		return fmt.Errorf("event without type")
	}

	payload := ""
	if event.Data != nil {
		encoded, err := json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("failed to encode event data: %w", err)
		}
		payload = string(encoded)
	}

	record := models.OrderEvent{
		Type:        event.Type,
		OrderID:     event.OrderID,
		OrderItemID: event.OrderItemID,
		Payload:     payload,
		CreatedAt:   event.Timestamp,
	}

	if err := ep.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}
