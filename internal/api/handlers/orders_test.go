package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"printpod/internal/config"
	"printpod/internal/logger"
	"printpod/internal/models"
	"printpod/internal/orders"
	"printpod/internal/printcom"
)

type handlerFixture struct {
	router *gin.Engine
	store  *orders.Store
	order  *models.Order
}

// newHandlerFixture wires the order routes against an in-memory store and
// a fake remote API.
func newHandlerFixture(t *testing.T, remoteURL string) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemMeta{},
		&models.OrderNote{},
		&models.ProductMeta{},
	))

	cfg := &config.Config{
		PublicBaseURL:   "https://shop.example.com",
		PrintAPIBaseURL: remoteURL,
		PrintAPIKey:     "test-key",
	}
	log := logger.New("error")
	client := printcom.NewClient(cfg, log)
	store := orders.NewStore(db, log)
	lookup := orders.NewLookupIndex(store, log)
	engine := orders.NewEngine(store, client, cfg, log, nil)
	webhooks := orders.NewWebhookProcessor(store, lookup, log, nil)

	handler := NewOrderHandler(store, engine, webhooks, cfg, log)

	router := gin.New()
	router.POST("/pdc/v1/orders", handler.Create)
	router.GET("/pdc/v1/orders/:id", handler.Get)
	router.POST("/pdc/v1/orders/items/:id/attach-pdf", handler.AttachPDF)
	router.POST("/pdc/v1/orders/items/:id/purchase", handler.Purchase)
	router.POST("/pdc/v1/orders/webhook", handler.Webhook)

	order := &models.Order{
		Number:          "100",
		ShippingCity:    "Amsterdam",
		ShippingCountry: "NL",
		Items:           []models.OrderItem{{Name: "Flyer", Quantity: 2}},
	}
	require.NoError(t, store.CreateOrder(order, []orders.ItemConfig{
		{PDFURL: "https://files.example.com/flyer.pdf", PresetID: "preset-1"},
	}))

	return &handlerFixture{router: router, store: store, order: order}
}

func (f *handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	request.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func TestWebhookEndpointAlwaysSucceeds(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")

	for _, body := range []string{
		``,
		`not json at all`,
		`{}`,
		`{"event_type": "ORDER_STATUS_CHANGED"}`,
		`{"event_type": "SHIPMENT_CREATED", "payload": {}}`,
	} {
		resp := fixture.do(http.MethodPost, "/pdc/v1/orders/webhook", body)
		assert.Equal(t, http.StatusOK, resp.Code, "body: %q", body)
	}
}

func TestWebhookEndpointAppliesProductionStatus(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")
	orderItemID := fixture.order.Items[0].ID

	resp := fixture.do(http.MethodPost,
		"/pdc/v1/orders/webhook?order_item_id="+orderItemID+"&order_id="+fixture.order.ID,
		`{"event_type": "ORDER_STATUS_CHANGED", "payload": {"status": "ACCEPTEDBYSUPPLIER"}}`)
	require.Equal(t, http.StatusOK, resp.Code)

	status, err := fixture.store.GetItemMetaString(orderItemID, models.MetaOrderItemStatus)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusProduction, status)
}

func TestPurchaseEndpointMapsMissingShippingAddress(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")

	bare := &models.Order{
		Number: "101",
		Items:  []models.OrderItem{{Name: "Flyer", Quantity: 1}},
	}
	require.NoError(t, fixture.store.CreateOrder(bare, []orders.ItemConfig{{PresetID: "preset-1"}}))

	resp := fixture.do(http.MethodPost, "/pdc/v1/orders/items/"+bare.Items[0].ID+"/purchase", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "pdc_missing_shipping_address")
}

func TestPurchaseEndpointMapsPresetNotFound(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/customerpresets/") {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Preset not found."))
		}
	}))
	defer remote.Close()

	fixture := newHandlerFixture(t, remote.URL)

	resp := fixture.do(http.MethodPost, "/pdc/v1/orders/items/"+fixture.order.Items[0].ID+"/purchase", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "pdc_preset_not_found")
	assert.Contains(t, resp.Body.String(), "preset-1")
}

func TestPurchaseEndpointUnknownItem(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")

	resp := fixture.do(http.MethodPost, "/pdc/v1/orders/items/missing/purchase", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "pdc_order_item_not_found")
}

func TestAttachPDFStoresURL(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")
	orderItemID := fixture.order.Items[0].ID

	resp := fixture.do(http.MethodPost, "/pdc/v1/orders/items/"+orderItemID+"/attach-pdf",
		`{"pdfUrl": "https://files.example.com/new.pdf"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	stored, err := fixture.store.GetItemMetaString(orderItemID, models.MetaPDFURL)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/new.pdf", stored)
}

func TestAttachPDFUnknownItem(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")

	resp := fixture.do(http.MethodPost, "/pdc/v1/orders/items/missing/attach-pdf",
		`{"pdfUrl": "https://files.example.com/new.pdf"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	fixture := newHandlerFixture(t, "http://unreachable.invalid")

	resp := fixture.do(http.MethodGet, "/pdc/v1/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
