package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printpod/internal/logger"
	"printpod/internal/models"
	"printpod/internal/printcom"
)

func newTestWebhookProcessor(store *Store) *WebhookProcessor {
	log := logger.New("error")
	return NewWebhookProcessor(store, NewLookupIndex(store, log), log, nil)
}

func TestWebhookAcceptedBySupplierMarksProduction(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)
	processor := newTestWebhookProcessor(store)
	orderItemID := order.Items[0].ID

	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "ORDER_STATUS_CHANGED",
		Payload:   &printcom.WebhookPayload{Status: "ACCEPTEDBYSUPPLIER"},
	}, WebhookParams{OrderID: order.ID, OrderItemID: orderItemID})

	assert.Equal(t, models.ItemStatusProduction, itemMetaString(t, store, orderItemID, models.MetaOrderItemStatus))
	assert.Equal(t, 1, countNotes(t, store, order.ID))
	assert.Contains(t, lastNote(t, store, order.ID), "being produced")
}

func TestWebhookOtherOrderStatusIsIgnored(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)
	processor := newTestWebhookProcessor(store)
	orderItemID := order.Items[0].ID

	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "ORDER_STATUS_CHANGED",
		Payload:   &printcom.WebhookPayload{Status: "CANCELLED"},
	}, WebhookParams{OrderID: order.ID, OrderItemID: orderItemID})

	assert.Empty(t, itemMetaString(t, store, orderItemID, models.MetaOrderItemStatus))
	assert.Equal(t, 0, countNotes(t, store, order.ID))
}

func TestWebhookShipmentCreatedResolvesByOrderItemNumber(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)
	processor := newTestWebhookProcessor(store)
	orderItemID := order.Items[0].ID

	require.NoError(t, store.SetItemMeta(orderItemID, models.MetaOrderItemNumber, "6000012345-1"))

	// Query params deliberately absent: the shipment event is per-item
	// and must resolve through the payload's order item number.
	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "SHIPMENT_CREATED",
		Payload: &printcom.WebhookPayload{
			OrderItemNumber: "6000012345-1",
			TrackingCode:    "https://track.example.com/abc",
		},
	}, WebhookParams{})

	assert.Equal(t, models.ItemStatusShipped, itemMetaString(t, store, orderItemID, models.MetaOrderItemStatus))
	assert.Equal(t, "https://track.example.com/abc", itemMetaString(t, store, orderItemID, models.MetaOrderItemTntURL))
	assert.Contains(t, lastNote(t, store, order.ID), "https://track.example.com/abc")
}

func TestWebhookShipmentForUnknownItemIsIgnored(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)
	processor := newTestWebhookProcessor(store)

	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "SHIPMENT_CREATED",
		Payload: &printcom.WebhookPayload{
			OrderItemNumber: "9999999999-9",
			TrackingCode:    "https://track.example.com/abc",
		},
	}, WebhookParams{})

	assert.Empty(t, itemMetaString(t, store, order.Items[0].ID, models.MetaOrderItemStatus))
	assert.Equal(t, 0, countNotes(t, store, order.ID))
}

func TestWebhookMalformedInputIsANoOp(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)
	processor := newTestWebhookProcessor(store)
	orderItemID := order.Items[0].ID

	// Missing event type.
	processor.Handle(context.Background(), printcom.WebhookEvent{}, WebhookParams{OrderItemID: orderItemID})

	// Missing payload.
	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "ORDER_STATUS_CHANGED",
	}, WebhookParams{OrderItemID: orderItemID})

	// Unknown event type.
	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "SOMETHING_ELSE",
		Payload:   &printcom.WebhookPayload{Status: "ACCEPTEDBYSUPPLIER"},
	}, WebhookParams{OrderItemID: orderItemID})

	// Production event without an order item id.
	processor.Handle(context.Background(), printcom.WebhookEvent{
		EventType: "ORDER_STATUS_CHANGED",
		Payload:   &printcom.WebhookPayload{Status: "ACCEPTEDBYSUPPLIER"},
	}, WebhookParams{})

	assert.Empty(t, itemMetaString(t, store, orderItemID, models.MetaOrderItemStatus))
	assert.Equal(t, 0, countNotes(t, store, order.ID))
}
