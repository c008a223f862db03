package models

// Meta keys are namespaced and prefixed with an underscore so generic
// metadata listings can treat them as hidden keys.
const metaPrefix = "_pdc_pod_"

// MetaKey returns the fully qualified meta key for a base name,
// e.g. MetaKey("pdf_url") == "_pdc_pod_pdf_url".
func MetaKey(name string) string {
	return metaPrefix + name
}

// Order item configuration, written at checkout or by the admin surface.
var (
	MetaPDFURL   = MetaKey("pdf_url")
	MetaPresetID = MetaKey("preset_id")
)

// Product and variation defaults, inherited by order items at checkout.
var (
	MetaProductSKU   = MetaKey("product_sku")
	MetaProductTitle = MetaKey("product_title")
	MetaPresetTitle  = MetaKey("preset_title")
)

// Purchase record fields, written after a successful remote purchase and
// mutated later by webhook events.
var (
	MetaOrder               = MetaKey("order")
	MetaOrderNumber         = MetaKey("order_number")
	MetaGrandTotal          = MetaKey("grand_total")
	MetaOrderStatus         = MetaKey("order_status")
	MetaOrderItem           = MetaKey("order_item")
	MetaOrderItemShipment   = MetaKey("order_item_shipment")
	MetaOrderItemNumber     = MetaKey("order_item_number")
	MetaOrderItemStatus     = MetaKey("order_item_status")
	MetaOrderItemGrandTotal = MetaKey("order_item_grand_total")
	MetaOrderItemTntURL     = MetaKey("order_item_tnt_url")
	MetaPurchaseDate        = MetaKey("purchase_date")
)

// Order item production statuses, advanced only by inbound webhook events.
const (
	ItemStatusProduction = "production"
	ItemStatusShipped    = "shipped"
)
