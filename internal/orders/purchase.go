package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"printpod/internal/config"
	"printpod/internal/events"
	"printpod/internal/logger"
	"printpod/internal/models"
	"printpod/internal/printcom"
)

// Preset configuration fields that must not be sent on a purchase.
var strippedOptionFields = []string{"_accessories", "variants", "deliveryPromise"}

// PurchaseOptions controls how a purchase payload is assembled.
type PurchaseOptions struct {
	// UsePresetCopies keeps the copy count baked into the preset. When
	// false the ordered quantity overrides it.
	UsePresetCopies bool
}

// RequestHook can rewrite the assembled purchase payload right before
// submission, keyed by order item id. Deployment-specific adjustments go
// here instead of into the engine.
type RequestHook func(request *printcom.OrderRequest, orderItemID string) *printcom.OrderRequest

// Engine assembles and submits purchase orders for local order items.
type Engine struct {
	store     *Store
	client    *printcom.Client
	config    *config.Config
	logger    *logger.Logger
	publisher events.Publisher
	hook      RequestHook

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store *Store, client *printcom.Client, cfg *config.Config, logger *logger.Logger, publisher events.Publisher) *Engine {
	return &Engine{
		store:     store,
		client:    client,
		config:    cfg,
		logger:    logger,
		publisher: publisher,
		locks:     make(map[string]*sync.Mutex),
	}
}

// SetRequestHook installs the optional payload-rewrite hook.
func (e *Engine) SetRequestHook(hook RequestHook) {
	e.hook = hook
}

// Purchase builds a purchase payload from the order item's stored
// configuration and the remote preset, submits it, and persists the
// resulting purchase record. At most one purchase can run per order item,
// and an item that already carries a remote order number is refused.
func (e *Engine) Purchase(ctx context.Context, orderItemID string, opts PurchaseOptions) (*printcom.Order, error) {
	lock := e.itemLock(orderItemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := e.store.GetOrderItem(orderItemID)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.GetItemMetaString(orderItemID, models.MetaOrderNumber)
	if err != nil {
		return nil, err
	}
	if existing != "" {
		return nil, &AlreadyPurchasedError{OrderItemID: orderItemID, OrderNumber: existing}
	}

	order, err := e.store.GetOrderByItemID(orderItemID)
	if err != nil {
		return nil, err
	}
	if !order.HasShippingAddress() {
		return nil, &MissingShippingAddressError{OrderID: order.ID, OrderNumber: order.Number}
	}

	presetID, err := e.store.GetItemMetaString(orderItemID, models.MetaPresetID)
	if err != nil {
		return nil, err
	}
	pdfURL, err := e.store.GetItemMetaString(orderItemID, models.MetaPDFURL)
	if err != nil {
		return nil, err
	}

	preset, err := e.fetchPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}

	options := preset.Configuration
	if options == nil {
		options = make(map[string]interface{})
	}
	if !opts.UsePresetCopies {
		options["copies"] = item.Quantity
	}
	for _, field := range strippedOptionFields {
		delete(options, field)
	}

	request := &printcom.OrderRequest{
		CustomerReference: order.Number + "-" + item.ID,
		WebhookURL: fmt.Sprintf("%s/pdc/v1/orders/webhook?order_item_id=%s&order_id=%s",
			e.config.PublicBaseURL, item.ID, order.ID),
		Items: []printcom.OrderRequestItem{
			{
				SKU:           preset.SKU,
				FileURL:       pdfURL,
				Options:       options,
				ApproveDesign: true,
				Shipments: []printcom.Shipment{
					{
						Address: printcom.Address{
							City:        order.ShippingCity,
							Country:     order.ShippingCountry,
							FirstName:   order.ShippingFirstName,
							LastName:    order.ShippingLastName,
							CompanyName: order.ShippingCompany,
							Postcode:    order.ShippingPostcode,
							Fullstreet:  order.ShippingAddress1,
							Telephone:   order.ShippingPhone,
						},
						Copies: options["copies"],
					},
				},
			},
		},
	}

	if e.hook != nil {
		request = e.hook(request, orderItemID)
	}

	remoteOrder, err := e.client.PlaceOrder(ctx, request)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	if remoteOrder == nil {
		return nil, &EmptyResponseError{CustomerReference: request.CustomerReference}
	}

	if err := e.persistPurchase(order, item, remoteOrder); err != nil {
		return nil, err
	}

	e.publish(ctx, events.Event{
		Type:        string(models.EventOrderItemPurchased),
		OrderID:     order.ID,
		OrderItemID: item.ID,
		Data:        map[string]interface{}{"order_number": remoteOrder.OrderNumber},
	})

	return remoteOrder, nil
}

// fetchPreset retrieves the preset and maps remote failures onto the
// purchase error taxonomy.
func (e *Engine) fetchPreset(ctx context.Context, presetID string) (*printcom.Preset, error) {
	preset, err := e.client.GetPreset(ctx, presetID)
	if err != nil {
		var apiErr *printcom.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 && strings.Contains(apiErr.Body, "Preset not found.") {
			return nil, &PresetNotFoundError{PresetID: presetID, Environment: e.client.Environment()}
		}
		return nil, &PresetFetchError{PresetID: presetID, Err: err}
	}
	if preset == nil {
		return nil, &PresetNotFoundError{PresetID: presetID, Environment: e.client.Environment()}
	}
	return preset, nil
}

// persistPurchase writes the purchase record meta and the order note.
func (e *Engine) persistPurchase(order *models.Order, item *models.OrderItem, remote *printcom.Order) error {
	metaValues := map[string]interface{}{
		models.MetaOrder:        remote.Raw,
		models.MetaPurchaseDate: time.Now().UTC().Format(time.RFC3339),
		models.MetaOrderNumber:  remote.OrderNumber,
		models.MetaGrandTotal:   remote.GrandTotal,
		models.MetaOrderStatus:  remote.Status,
	}

	if len(remote.Items) > 0 {
		remoteItem := remote.Items[0]
		metaValues[models.MetaOrderItem] = remoteItem
		metaValues[models.MetaOrderItemNumber] = remoteItem.OrderItemNumber
		metaValues[models.MetaOrderItemStatus] = remoteItem.Status
		metaValues[models.MetaOrderItemGrandTotal] = remoteItem.GrandTotal
		if len(remoteItem.Shipments) > 0 {
			metaValues[models.MetaOrderItemShipment] = remoteItem.Shipments[0]
		}
	} else {
		e.logger.Warn("purchase response for item %s carries no items", item.ID)
	}

	for key, value := range metaValues {
		if err := e.store.SetItemMeta(item.ID, key, value); err != nil {
			return err
		}
	}

	note := fmt.Sprintf("Item purchased at Print.com with order number: %s.", remote.OrderNumber)
	if err := e.store.AddOrderNote(order.ID, note); err != nil {
		return err
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Error("failed to publish %s event: %v", event.Type, err)
	}
}

func (e *Engine) itemLock(orderItemID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[orderItemID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[orderItemID] = lock
	}
	return lock
}
