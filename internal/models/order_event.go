package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderEvent is an audit row written by the worker for every order item
// lifecycle event consumed from Kafka.
type OrderEvent struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type        string    `json:"type" gorm:"index;not null"`
	OrderID     string    `json:"order_id" gorm:"index"`
	OrderItemID string    `json:"order_item_id" gorm:"index"`
	Payload     string    `json:"payload" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderEventType string

const (
	EventOrderItemPurchased  OrderEventType = "order_item.purchased"
	EventOrderItemProduction OrderEventType = "order_item.production"
	EventOrderItemShipped    OrderEventType = "order_item.shipped"
)

func (e *OrderEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
