package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printpod/internal/models"
)

func TestCreateOrderInheritsConfigFromVariation(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetProductMeta("prod-1", models.MetaPDFURL, "https://files.example.com/product.pdf"))
	require.NoError(t, store.SetProductMeta("prod-1", models.MetaPresetID, "preset-product"))
	require.NoError(t, store.SetProductMeta("var-1", models.MetaPresetID, "preset-variation"))

	order := &models.Order{
		Number: "200",
		Items: []models.OrderItem{
			{Name: "Flyer", Quantity: 1, ProductID: "prod-1", VariationID: "var-1"},
		},
	}
	require.NoError(t, store.CreateOrder(order, []ItemConfig{{}}))

	orderItemID := order.Items[0].ID
	// Variation wins where it has a value, parent product fills the rest.
	assert.Equal(t, "preset-variation", itemMetaString(t, store, orderItemID, models.MetaPresetID))
	assert.Equal(t, "https://files.example.com/product.pdf", itemMetaString(t, store, orderItemID, models.MetaPDFURL))
}

func TestCreateOrderExplicitConfigWins(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetProductMeta("prod-1", models.MetaPresetID, "preset-product"))

	order := &models.Order{
		Number: "201",
		Items: []models.OrderItem{
			{Name: "Flyer", Quantity: 1, ProductID: "prod-1"},
		},
	}
	require.NoError(t, store.CreateOrder(order, []ItemConfig{
		{PDFURL: "https://files.example.com/cart.pdf", PresetID: "preset-cart"},
	}))

	orderItemID := order.Items[0].ID
	assert.Equal(t, "preset-cart", itemMetaString(t, store, orderItemID, models.MetaPresetID))
	assert.Equal(t, "https://files.example.com/cart.pdf", itemMetaString(t, store, orderItemID, models.MetaPDFURL))
}

func TestSetItemMetaOverwrites(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)
	orderItemID := order.Items[0].ID

	require.NoError(t, store.SetItemMeta(orderItemID, models.MetaOrderItemStatus, "production"))
	require.NoError(t, store.SetItemMeta(orderItemID, models.MetaOrderItemStatus, "shipped"))

	assert.Equal(t, "shipped", itemMetaString(t, store, orderItemID, models.MetaOrderItemStatus))

	var count int64
	require.NoError(t, store.DB().Model(&models.OrderItemMeta{}).
		Where("order_item_id = ? AND meta_key = ?", orderItemID, models.MetaOrderItemStatus).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrderByItemID(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)

	resolved, err := store.GetOrderByItemID(order.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, resolved.ID)

	_, err = store.GetOrderByItemID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetItemMetaMissingKeyIsEmpty(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, true)

	value, err := store.GetItemMetaString(order.Items[0].ID, models.MetaOrderNumber)
	require.NoError(t, err)
	assert.Empty(t, value)
}
