package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Number    string    `json:"number" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Shipping address. Billing is deliberately not modeled: purchases
	// only ever use the shipping address.
	ShippingCity      string `json:"shipping_city"`
	ShippingCountry   string `json:"shipping_country"`
	ShippingFirstName string `json:"shipping_first_name"`
	ShippingLastName  string `json:"shipping_last_name"`
	ShippingCompany   string `json:"shipping_company"`
	ShippingPostcode  string `json:"shipping_postcode"`
	ShippingAddress1  string `json:"shipping_address_1"`
	ShippingPhone     string `json:"shipping_phone"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Notes []OrderNote `json:"notes" gorm:"foreignKey:OrderID"`
}

// HasShippingAddress reports whether any shipping field has been filled in.
func (o *Order) HasShippingAddress() bool {
	return o.ShippingCity != "" || o.ShippingCountry != "" ||
		o.ShippingFirstName != "" || o.ShippingLastName != "" ||
		o.ShippingCompany != "" || o.ShippingPostcode != "" ||
		o.ShippingAddress1 != "" || o.ShippingPhone != ""
}

type OrderItem struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID     string    `json:"order_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	ProductID   string    `json:"product_id"`
	VariationID string    `json:"variation_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Meta []OrderItemMeta `json:"meta" gorm:"foreignKey:OrderItemID"`
}

// OrderItemMeta is a key/value row attached to an order item. Values are
// stored as JSON so structured records (the remote order snapshot) and
// scalars share one table.
type OrderItemMeta struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderItemID string    `json:"order_item_id" gorm:"type:uuid;uniqueIndex:idx_item_meta_key;not null"`
	MetaKey     string    `json:"meta_key" gorm:"uniqueIndex:idx_item_meta_key;index;not null"`
	MetaValue   string    `json:"meta_value" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderNote struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID   string    `json:"order_id" gorm:"type:uuid;index;not null"`
	Note      string    `json:"note" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName keeps the singular metadata table name, mirroring the
// storefront's itemmeta table.
func (OrderItemMeta) TableName() string {
	return "order_item_meta"
}

func (m *OrderItemMeta) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (n *OrderNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
