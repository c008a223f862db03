package orders

import (
	"context"
	"fmt"

	"printpod/internal/events"
	"printpod/internal/logger"
	"printpod/internal/models"
	"printpod/internal/printcom"
)

const (
	eventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	eventShipmentCreated    = "SHIPMENT_CREATED"

	statusAcceptedBySupplier = "ACCEPTEDBYSUPPLIER"
)

// WebhookParams are the query parameters embedded in the webhook URL at
// purchase time, identifying the affected order item without any
// server-side session state.
type WebhookParams struct {
	OrderID     string
	OrderItemID string
}

// WebhookProcessor applies asynchronous Print.com status events to local
// order items. The endpoint is public and the remote caller expects a 2xx
// no matter what, so every failure is logged and swallowed: malformed or
// unknown input is a no-op, never a crash.
type WebhookProcessor struct {
	store     *Store
	lookup    *LookupIndex
	logger    *logger.Logger
	publisher events.Publisher
}

func NewWebhookProcessor(store *Store, lookup *LookupIndex, logger *logger.Logger, publisher events.Publisher) *WebhookProcessor {
	return &WebhookProcessor{
		store:     store,
		lookup:    lookup,
		logger:    logger,
		publisher: publisher,
	}
}

// Handle dispatches an inbound webhook event. Unmatched event types are
// ignored.
func (p *WebhookProcessor) Handle(ctx context.Context, event printcom.WebhookEvent, params WebhookParams) {
	if event.EventType == "" {
		p.logger.Warn("webhook without event_type ignored")
		return
	}
	if event.Payload == nil {
		p.logger.Warn("webhook %s without payload ignored", event.EventType)
		return
	}

	switch event.EventType {
	case eventOrderStatusChanged:
		p.handleOrderStatusChanged(ctx, event.Payload, params)
	case eventShipmentCreated:
		p.handleShipmentCreated(ctx, event.Payload)
	default:
		p.logger.Debug("unhandled webhook event type: %s", event.EventType)
	}
}

// handleOrderStatusChanged moves the order item into production when the
// supplier accepts it. Other statuses under this event type are ignored.
func (p *WebhookProcessor) handleOrderStatusChanged(ctx context.Context, payload *printcom.WebhookPayload, params WebhookParams) {
	if payload.Status != statusAcceptedBySupplier {
		p.logger.Debug("ignoring order status %q", payload.Status)
		return
	}
	if params.OrderItemID == "" {
		p.logger.Warn("%s webhook without order_item_id param ignored", eventOrderStatusChanged)
		return
	}

	if err := p.store.SetItemMeta(params.OrderItemID, models.MetaOrderItemStatus, models.ItemStatusProduction); err != nil {
		p.logger.Error("failed to mark item %s in production: %v", params.OrderItemID, err)
		return
	}

	orderID := params.OrderID
	if orderID == "" {
		order, err := p.store.GetOrderByItemID(params.OrderItemID)
		if err != nil {
			p.logger.Error("failed to resolve order for item %s: %v", params.OrderItemID, err)
			return
		}
		orderID = order.ID
	}

	if err := p.store.AddOrderNote(orderID, "Item is being produced at Print.com."); err != nil {
		p.logger.Error("failed to add production note: %v", err)
	}

	p.publish(ctx, events.Event{
		Type:        string(models.EventOrderItemProduction),
		OrderID:     orderID,
		OrderItemID: params.OrderItemID,
	})
}

// handleShipmentCreated marks the item shipped and stores the tracking
// URL. This event is per-item: the affected item is resolved from the
// Print.com order item number in the payload, not from query params.
func (p *WebhookProcessor) handleShipmentCreated(ctx context.Context, payload *printcom.WebhookPayload) {
	if payload.OrderItemNumber == "" {
		p.logger.Warn("%s webhook without order_item_number ignored", eventShipmentCreated)
		return
	}

	orderItemID, ok := p.lookup.ResolveOrderItemID(payload.OrderItemNumber)
	if !ok {
		p.logger.Warn("no order item found for order item number %s", payload.OrderItemNumber)
		return
	}

	if err := p.store.SetItemMeta(orderItemID, models.MetaOrderItemTntURL, payload.TrackingCode); err != nil {
		p.logger.Error("failed to store tracking url for item %s: %v", orderItemID, err)
		return
	}
	if err := p.store.SetItemMeta(orderItemID, models.MetaOrderItemStatus, models.ItemStatusShipped); err != nil {
		p.logger.Error("failed to mark item %s shipped: %v", orderItemID, err)
		return
	}

	order, err := p.store.GetOrderByItemID(orderItemID)
	if err != nil {
		p.logger.Error("failed to resolve order for item %s: %v", orderItemID, err)
		return
	}

	note := fmt.Sprintf(`Item has been shipped by Print.com. Track & Trace code: <a href="%s">%s</a>.`,
		payload.TrackingCode, payload.TrackingCode)
	if err := p.store.AddOrderNote(order.ID, note); err != nil {
		p.logger.Error("failed to add shipment note: %v", err)
	}

	p.publish(ctx, events.Event{
		Type:        string(models.EventOrderItemShipped),
		OrderID:     order.ID,
		OrderItemID: orderItemID,
		Data:        map[string]interface{}{"tracking_url": payload.TrackingCode},
	})
}

func (p *WebhookProcessor) publish(ctx context.Context, event events.Event) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("failed to publish %s event: %v", event.Type, err)
	}
}
