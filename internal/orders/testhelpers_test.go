package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"printpod/internal/logger"
	"printpod/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

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
		&models.OrderEvent{},
	))

	return NewStore(db, logger.New("error"))
}

// seedOrder creates an order with one item configured for purchase:
// quantity 3, a preset and an artwork URL.
func seedOrder(t *testing.T, store *Store, withShipping bool) *models.Order {
	t.Helper()

	order := &models.Order{
		Number: "100",
		Items: []models.OrderItem{
			{Name: "Flyer A5", Quantity: 3},
		},
	}
	if withShipping {
		order.ShippingCity = "Amsterdam"
		order.ShippingCountry = "NL"
		order.ShippingFirstName = "Jip"
		order.ShippingLastName = "Janneke"
		order.ShippingCompany = "Print BV"
		order.ShippingPostcode = "1012AB"
		order.ShippingAddress1 = "Damrak 1"
		order.ShippingPhone = "+31612345678"
	}

	require.NoError(t, store.CreateOrder(order, []ItemConfig{
		{PDFURL: "https://files.example.com/flyer.pdf", PresetID: "preset-1"},
	}))
	return order
}

func countNotes(t *testing.T, store *Store, orderID string) int {
	t.Helper()

	var count int64
	require.NoError(t, store.DB().Model(&models.OrderNote{}).
		Where("order_id = ?", orderID).Count(&count).Error)
	return int(count)
}

func lastNote(t *testing.T, store *Store, orderID string) string {
	t.Helper()

	var note models.OrderNote
	require.NoError(t, store.DB().
		Where("order_id = ?", orderID).
		Order("created_at desc").
		First(&note).Error)
	return note.Note
}

func itemMetaString(t *testing.T, store *Store, orderItemID, key string) string {
	t.Helper()

	value, err := store.GetItemMetaString(orderItemID, key)
	require.NoError(t, err)
	return value
}
