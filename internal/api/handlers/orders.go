package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"printpod/internal/config"
	"printpod/internal/logger"
	"printpod/internal/models"
	"printpod/internal/orders"
	"printpod/internal/printcom"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	store    *orders.Store
	engine   *orders.Engine
	webhooks *orders.WebhookProcessor
	config   *config.Config
	logger   *logger.Logger
}

func NewOrderHandler(store *orders.Store, engine *orders.Engine, webhooks *orders.WebhookProcessor, cfg *config.Config, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		store:    store,
		engine:   engine,
		webhooks: webhooks,
		config:   cfg,
		logger:   logger,
	}
}

type shippingAddress struct {
	City      string `json:"city"`
	Country   string `json:"country"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Postcode  string `json:"postcode"`
	Address1  string `json:"address_1"`
	Phone     string `json:"phone"`
}

type createOrderItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Quantity    int    `json:"quantity"`
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id"`
	PDFURL      string `json:"pdf_url"`
	PresetID    string `json:"preset_id"`
}

type createOrderRequest struct {
	Number   string                   `json:"number" binding:"required"`
	Shipping shippingAddress          `json:"shipping"`
	Items    []createOrderItemRequest `json:"items" binding:"required,min=1"`
}

// Create stores an order synced from the storefront. Items without
// explicit print configuration inherit it from their variation or parent
// product.
func (h *OrderHandler) Create(c *gin.Context) {
	var request createOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := &models.Order{
		Number:            request.Number,
		ShippingCity:      request.Shipping.City,
		ShippingCountry:   request.Shipping.Country,
		ShippingFirstName: request.Shipping.FirstName,
		ShippingLastName:  request.Shipping.LastName,
		ShippingCompany:   request.Shipping.Company,
		ShippingPostcode:  request.Shipping.Postcode,
		ShippingAddress1:  request.Shipping.Address1,
		ShippingPhone:     request.Shipping.Phone,
	}

	configs := make([]orders.ItemConfig, 0, len(request.Items))
	for _, item := range request.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		order.Items = append(order.Items, models.OrderItem{
			Name:        item.Name,
			Quantity:    quantity,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
		})
		configs = append(configs, orders.ItemConfig{
			PDFURL:   item.PDFURL,
			PresetID: item.PresetID,
		})
	}

	if err := h.store.CreateOrder(order, configs); err != nil {
		h.logger.Error("Failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// Get returns an order with its items, item meta and notes.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.store.GetOrder(c.Param("id"))
	if errors.Is(err, orders.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to fetch order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AttachPDF stores an artwork PDF URL against an order item.
func (h *OrderHandler) AttachPDF(c *gin.Context) {
	orderItemID := c.Param("id")

	var request struct {
		PDFURL string `json:"pdfUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetOrderItem(orderItemID); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}
		h.logger.Error("Failed to fetch order item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order item"})
		return
	}

	if err := h.store.SetItemMeta(orderItemID, models.MetaPDFURL, request.PDFURL); err != nil {
		h.logger.Error("Failed to attach pdf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach PDF"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pdf_url": request.PDFURL})
}

// Purchase submits the order item to Print.com and returns the remote
// order object untransformed.
func (h *OrderHandler) Purchase(c *gin.Context) {
	orderItemID := c.Param("id")

	var request struct {
		UsePresetCopies *bool `json:"use_preset_copies"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	opts := orders.PurchaseOptions{UsePresetCopies: h.config.UsePresetCopies}
	if request.UsePresetCopies != nil {
		opts.UsePresetCopies = *request.UsePresetCopies
	}

	remoteOrder, err := h.engine.Purchase(c.Request.Context(), orderItemID, opts)
	if err != nil {
		h.renderPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": json.RawMessage(remoteOrder.Raw)})
}

// renderPurchaseError maps the purchase error taxonomy onto HTTP statuses.
func (h *OrderHandler) renderPurchaseError(c *gin.Context, err error) {
	var missingAddr *orders.MissingShippingAddressError
	var alreadyPurchased *orders.AlreadyPurchasedError
	var presetNotFound *orders.PresetNotFoundError

	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "pdc_order_item_not_found",
			"error": "Order item not found",
		})
	case errors.As(err, &missingAddr):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":     "pdc_missing_shipping_address",
			"error":    "No shipping address found",
			"order_id": missingAddr.OrderID,
		})
	case errors.As(err, &alreadyPurchased):
		c.JSON(http.StatusConflict, gin.H{
			"code":         "pdc_already_purchased",
			"error":        "Order item was already purchased",
			"order_number": alreadyPurchased.OrderNumber,
		})
	case errors.As(err, &presetNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":        "pdc_preset_not_found",
			"error":       "Preset does not exist.",
			"preset_id":   presetNotFound.PresetID,
			"environment": presetNotFound.Environment,
		})
	default:
		h.logger.Error("Purchase failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "pdc_purchase_failed",
			"error": err.Error(),
		})
	}
}

// Webhook receives asynchronous status events from Print.com. The
// endpoint is public and fire-and-forget: whatever happens inside, the
// caller gets a success response.
func (h *OrderHandler) Webhook(c *gin.Context) {
	params := orders.WebhookParams{
		OrderID:     c.Query("order_id"),
		OrderItemID: c.Query("order_item_id"),
	}

	var event printcom.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("Undecodable webhook body ignored: %v", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	h.webhooks.Handle(c.Request.Context(), event, params)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// SetProductPrintConfig stores default print configuration on a product
// or variation.
func (h *OrderHandler) SetProductPrintConfig(c *gin.Context) {
	productID := c.Param("id")

	var request struct {
		ProductSKU string `json:"product_sku"`
		PresetID   string `json:"preset_id"`
		PDFURL     string `json:"pdf_url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	values := map[string]string{
		models.MetaProductSKU: request.ProductSKU,
		models.MetaPresetID:   request.PresetID,
		models.MetaPDFURL:     request.PDFURL,
	}
	for key, value := range values {
		if value == "" {
			continue
		}
		if err := h.store.SetProductMeta(productID, key, value); err != nil {
			h.logger.Error("Failed to set product meta: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save print configuration"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}
