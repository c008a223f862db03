package orders

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printpod/internal/logger"
	"printpod/internal/models"
)

// ErrNotFound is returned when an order or order item does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the relational storage for orders, order items and their
// metadata.
type Store struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewStore(db *gorm.DB, logger *logger.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DB exposes the underlying handle for components that need raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// CreateOrder persists an order with its items. Items without explicit
// print configuration inherit pdf_url and preset_id from their variation,
// falling back to the parent product.
func (s *Store) CreateOrder(order *models.Order, configs []ItemConfig) error {
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		var cfg ItemConfig
		if i < len(configs) {
			cfg = configs[i]
		}
		if err := s.applyItemConfig(&order.Items[i], cfg); err != nil {
			return err
		}
	}
	return nil
}

// ItemConfig is the print configuration captured for a cart line at
// checkout. Empty fields trigger the inheritance chain.
type ItemConfig struct {
	PDFURL   string
	PresetID string
}

func (s *Store) applyItemConfig(item *models.OrderItem, cfg ItemConfig) error {
	pdfURL := cfg.PDFURL
	if pdfURL == "" {
		pdfURL = s.inheritedProductMeta(item, models.MetaPDFURL)
	}
	presetID := cfg.PresetID
	if presetID == "" {
		presetID = s.inheritedProductMeta(item, models.MetaPresetID)
	}

	if err := s.SetItemMeta(item.ID, models.MetaPDFURL, pdfURL); err != nil {
		return err
	}
	return s.SetItemMeta(item.ID, models.MetaPresetID, presetID)
}

// inheritedProductMeta resolves a default from the variation first, then
// the parent product.
func (s *Store) inheritedProductMeta(item *models.OrderItem, key string) string {
	if item.VariationID != "" {
		if v := s.GetProductMeta(item.VariationID, key); v != "" {
			return v
		}
	}
	if item.ProductID != "" {
		return s.GetProductMeta(item.ProductID, key)
	}
	return ""
}

func (s *Store) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Meta").Preload("Notes").
		First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

func (s *Store) GetOrderItem(orderItemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := s.db.First(&item, "id = ?", orderItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order item: %w", err)
	}
	return &item, nil
}

// GetOrderByItemID resolves the order owning an order item.
func (s *Store) GetOrderByItemID(orderItemID string) (*models.Order, error) {
	item, err := s.GetOrderItem(orderItemID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.db.First(&order, "id = ?", item.OrderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

// SetItemMeta upserts a metadata value for an order item. Values are
// JSON-encoded so scalars and structured records share one table.
func (s *Store) SetItemMeta(orderItemID, key string, value interface{}) error {
	encoded, err := encodeMetaValue(value)
	if err != nil {
		return err
	}

	meta := models.OrderItemMeta{
		OrderItemID: orderItemID,
		MetaKey:     key,
		MetaValue:   encoded,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_item_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to set item meta %s: %w", key, err)
	}
	return nil
}

// GetItemMeta returns the raw JSON-encoded metadata value, or "" when the
// key is absent.
func (s *Store) GetItemMeta(orderItemID, key string) (string, error) {
	var meta models.OrderItemMeta
	err := s.db.First(&meta, "order_item_id = ? AND meta_key = ?", orderItemID, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch item meta %s: %w", key, err)
	}
	return meta.MetaValue, nil
}

// GetItemMetaString decodes a string-valued metadata key, returning ""
// when absent.
func (s *Store) GetItemMetaString(orderItemID, key string) (string, error) {
	raw, err := s.GetItemMeta(orderItemID, key)
	if err != nil || raw == "" {
		return "", err
	}
	var value string
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", fmt.Errorf("item meta %s is not a string: %w", key, err)
	}
	return value, nil
}

// FindOrderItemIDByMeta looks up the order item carrying the given
// metadata value. Used by the reverse index for remote order item numbers.
func (s *Store) FindOrderItemIDByMeta(key, value string) (string, error) {
	encoded, err := encodeMetaValue(value)
	if err != nil {
		return "", err
	}

	var ids []string
	err = s.db.Table("order_item_meta").
		Select("order_item_meta.order_item_id").
		Joins("JOIN order_items ON order_items.id = order_item_meta.order_item_id").
		Where("order_item_meta.meta_key = ? AND order_item_meta.meta_value = ?", key, encoded).
		Limit(1).
		Scan(&ids).Error
	if err != nil {
		return "", fmt.Errorf("failed to query item meta: %w", err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func (s *Store) AddOrderNote(orderID, note string) error {
	record := models.OrderNote{OrderID: orderID, Note: note}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	return nil
}

// SetProductMeta upserts a default print configuration value on a product
// or variation.
func (s *Store) SetProductMeta(productID, key, value string) error {
	meta := models.ProductMeta{
		ProductID: productID,
		MetaKey:   key,
		MetaValue: value,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to set product meta %s: %w", key, err)
	}
	return nil
}

func (s *Store) GetProductMeta(productID, key string) string {
	var meta models.ProductMeta
	err := s.db.First(&meta, "product_id = ? AND meta_key = ?", productID, key).Error
	if err != nil {
		return ""
	}
	return meta.MetaValue
}

func encodeMetaValue(value interface{}) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode meta value: %w", err)
	}
	return string(encoded), nil
}
