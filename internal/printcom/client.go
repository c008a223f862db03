package printcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"printpod/internal/config"
	"printpod/internal/logger"
)

const (
	productCacheKey = "products"
	productCacheTTL = 24 * time.Hour

	// requestSourceHeader tags purchase submissions with their origin.
	requestSourceHeader = "pdc-request-source"
	requestSourceValue  = "pdc-woocommerce"
)

// Client exposes the Print.com catalog and order operations on top of the
// authenticated transport.
type Client struct {
	transport *Transport
	cache     *ttlCache
	logger    *logger.Logger
}

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		transport: NewTransport(cfg, logger),
		cache:     newTTLCache(),
		logger:    logger,
	}
}

// Environment returns the API base URL the client talks to, used in
// error diagnostics.
func (c *Client) Environment() string {
	return c.transport.BaseURL()
}

// GetPresets fetches the full preset collection and filters it down to the
// presets for one SKU. The API offers no server-side SKU filter. A SKU with
// no presets yields an empty slice, not an error.
func (c *Client) GetPresets(ctx context.Context, sku string) ([]Preset, error) {
	body, err := c.transport.Request(ctx, http.MethodGet, "/customerpresets", nil)
	if err != nil {
		return nil, err
	}

	var listResp presetListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}

	presets := make([]Preset, 0, len(listResp.Items))
	for _, item := range listResp.Items {
		if item.SKU != sku {
			continue
		}
		presets = append(presets, Preset{
			ID:            item.ID,
			SKU:           item.SKU,
			Title:         item.Title.EN,
			Configuration: item.Configuration,
		})
	}
	return presets, nil
}

// GetPreset fetches a single preset by ID. A successful response with an
// empty body yields (nil, nil); the caller decides how to treat that.
func (c *Client) GetPreset(ctx context.Context, presetID string) (*Preset, error) {
	body, err := c.transport.Request(ctx, http.MethodGet, "/customerpresets/"+url.PathEscape(presetID), nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var payload presetPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode preset: %w", err)
	}

	return &Preset{
		ID:            payload.ID,
		SKU:           payload.SKU,
		Title:         payload.Title.EN,
		Configuration: payload.Configuration,
	}, nil
}

// SearchProducts returns the remote product catalog for the admin picklist.
// The raw response is cached for a day; entries without a SKU or plural
// title are dropped and the rest is sorted case-insensitively by title.
func (c *Client) SearchProducts(ctx context.Context) ([]Product, error) {
	raw, hit := c.cache.Get(productCacheKey)
	if !hit {
		body, err := c.transport.Request(ctx, http.MethodGet, "/products", nil)
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, fmt.Errorf("no products found")
		}
		c.cache.Set(productCacheKey, body, productCacheTTL)
		raw = body
	}

	var payloads []productPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	filtered := payloads[:0]
	for _, p := range payloads {
		if p.SKU == "" || p.TitlePlural == "" {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return strings.ToLower(filtered[i].TitlePlural) < strings.ToLower(filtered[j].TitlePlural)
	})

	products := make([]Product, 0, len(filtered))
	for _, p := range filtered {
		products = append(products, Product{SKU: p.SKU, Title: p.TitlePlural})
	}
	return products, nil
}

// ClearProductCache drops the cached product list, forcing the next
// SearchProducts call to hit the API.
func (c *Client) ClearProductCache() {
	c.cache.Clear(productCacheKey)
}

// IsAuthenticated probes the API with a product listing and reports
// whether the configured credentials work. It never returns an error.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	_, err := c.transport.Request(ctx, http.MethodGet, "/products", nil)
	return err == nil
}

// PlaceOrder submits a purchase. A success status with an empty body
// yields (nil, nil).
func (c *Client) PlaceOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	body, err := c.transport.Request(ctx, http.MethodPost, "/orders", request, map[string]string{
		requestSourceHeader: requestSourceValue,
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	if len(resp.Order) == 0 {
		return nil, nil
	}

	var order Order
	if err := json.Unmarshal(resp.Order, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	order.Raw = resp.Order
	return &order, nil
}
