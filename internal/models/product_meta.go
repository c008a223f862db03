package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductMeta stores per-product (or per-variation) print defaults: the
// Print.com SKU, the preset and the artwork PDF URL. Order items inherit
// these at checkout when the cart did not carry explicit values.
type ProductMeta struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID string    `json:"product_id" gorm:"uniqueIndex:idx_product_meta_key;not null"`
	MetaKey   string    `json:"meta_key" gorm:"uniqueIndex:idx_product_meta_key;index;not null"`
	MetaValue string    `json:"meta_value" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductMeta) TableName() string {
	return "product_meta"
}

func (m *ProductMeta) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
