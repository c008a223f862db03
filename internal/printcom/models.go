package printcom

import "encoding/json"

// Preset is a customer-defined print configuration template, scoped to one
// product SKU. The configuration bag is owned by the remote API and is
// echoed back (minus preset-only metadata) on purchase.
type Preset struct {
	ID            string                 `json:"id"`
	SKU           string                 `json:"sku"`
	Title         string                 `json:"title"`
	Configuration map[string]interface{} `json:"configuration"`
}

// Product is a remote catalog entry used for the admin picklist.
type Product struct {
	SKU   string `json:"sku"`
	Title string `json:"title"`
}

// Wire shapes of the preset endpoints.
type presetPayload struct {
	ID            string                 `json:"id"`
	SKU           string                 `json:"sku"`
	Title         localizedTitle         `json:"title"`
	Configuration map[string]interface{} `json:"configuration"`
}

type localizedTitle struct {
	EN string `json:"en"`
}

type presetListResponse struct {
	Items []presetPayload `json:"items"`
}

type productPayload struct {
	SKU         string `json:"sku"`
	TitlePlural string `json:"titlePlural"`
}

// OrderRequest is the purchase submission sent to POST /orders.
type OrderRequest struct {
	CustomerReference string             `json:"customerReference"`
	WebhookURL        string             `json:"webhookUrl"`
	Items             []OrderRequestItem `json:"items"`
}

type OrderRequestItem struct {
	SKU           string                 `json:"sku"`
	FileURL       string                 `json:"fileUrl"`
	Options       map[string]interface{} `json:"options"`
	ApproveDesign bool                   `json:"approveDesign"`
	Shipments     []Shipment             `json:"shipments"`
}

type Shipment struct {
	Address Address `json:"address"`
	// Copies mirrors options["copies"] untouched, so whatever type the
	// preset carried (or the override set) survives the round trip.
	Copies interface{} `json:"copies"`
}

type Address struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
	Postcode    string `json:"postcode"`
	Fullstreet  string `json:"fullstreet"`
	Telephone   string `json:"telephone"`
}

// Order is the remote order object returned by a purchase. Raw keeps the
// response untransformed for persistence and for the REST caller.
type Order struct {
	OrderNumber string            `json:"orderNumber"`
	Status      string            `json:"status"`
	GrandTotal  json.Number       `json:"grandTotal"`
	Items       []OrderItemResult `json:"items"`

	Raw json.RawMessage `json:"-"`
}

type OrderItemResult struct {
	OrderItemNumber string            `json:"orderItemNumber"`
	Status          string            `json:"status"`
	GrandTotal      json.Number       `json:"grandTotal"`
	Shipments       []json.RawMessage `json:"shipments"`
}

type orderResponse struct {
	Order json.RawMessage `json:"order"`
}

// WebhookEvent is an inbound asynchronous notification from Print.com.
// The endpoint is public, so every field is optional until validated.
type WebhookEvent struct {
	EventType string          `json:"event_type"`
	Payload   *WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Status          string `json:"status"`
	OrderItemNumber string `json:"order_item_number"`
	TrackingCode    string `json:"tracking_code"`
}
