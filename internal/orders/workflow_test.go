package orders_test

import (
	"testing"
	"time"

	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/orders"
	"dagitim-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrderCatalog(t *testing.T, db *gorm.DB) (*models.Vendor, *models.Restaurant, *models.MenuItem) {
	t.Helper()

	vendor := models.Vendor{Name: "Anadolu Dağıtım"}
	require.NoError(t, db.Create(&vendor).Error)

	restaurant := models.Restaurant{VendorID: vendor.ID, Name: "Merkez Mutfak"}
	require.NoError(t, db.Create(&restaurant).Error)

	item := models.MenuItem{
		RestaurantID:  restaurant.ID,
		Name:          "Adana Dürüm",
		SalePrice:     180,
		PurchasePrice: 120,
		ImagePath:     "/item-images/adana.jpg",
	}
	require.NoError(t, db.Create(&item).Error)

	return &vendor, &restaurant, &item
}

func orderItems(vendor *models.Vendor, restaurant *models.Restaurant, item *models.MenuItem, qty int) []models.OrderItem {
	return []models.OrderItem{
		{
			VendorID:     vendor.ID,
			RestaurantID: restaurant.ID,
			MenuItemID:   item.ID,
			Name:         item.Name,
			Price:        item.SalePrice,
			Quantity:     qty,
			TotalPrice:   item.SalePrice * float64(qty),
			ImagePath:    item.ImagePath,
		},
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		PriceType: models.PriceTypeSale,
		Subtotal:  360,
		Taxes:     36,
		Total:     396,
		Items:     orderItems(vendor, restaurant, item, 2),
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderStatusBooked, order.Status)
	assert.Len(t, order.OrderNumber, 16)
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	// Boş sepet
	_, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
	})
	assert.Error(t, err)

	// Vendor referansı eksik satır
	items := orderItems(vendor, restaurant, item, 1)
	items[0].VendorID = 0
	_, err = orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     items,
	})
	assert.Error(t, err)

	// Görsel yolu eksik satır
	items = orderItems(vendor, restaurant, item, 1)
	items[0].ImagePath = ""
	_, err = orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     items,
	})
	assert.Error(t, err)

	// Geçersiz priceType
	_, err = orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceType("toptan"),
		Items:     orderItems(vendor, restaurant, item, 1),
	})
	assert.Error(t, err)

	// Hiçbir başarısız deneme sipariş yaratmamalı
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSetStatusConfirmDecrementsStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 10))

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     orderItems(vendor, restaurant, item, 4),
	})
	require.NoError(t, err)

	updated, skipped, err := orders.SetStatus(db, order.OrderNumber, models.OrderStatusConfirmed, nil)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, record.Lines[0].InStock)
}

func TestSetStatusConfirmInsufficientStockRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 2))

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     orderItems(vendor, restaurant, item, 5),
	})
	require.NoError(t, err)

	_, _, err = orders.SetStatus(db, order.OrderNumber, models.OrderStatusConfirmed, nil)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	// Durum değişmemiş, stok düşülmemiş olmalı
	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusBooked, stored.Status)

	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Lines[0].InStock)
}

func TestSetStatusConfirmSkipsUnknownItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	// Stok kaydı var ama bu ürün için satır yok
	other := models.MenuItem{RestaurantID: restaurant.ID, Name: "Ayran", SalePrice: 30, PurchasePrice: 20, ImagePath: "/item-images/ayran.jpg"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, other.ID, 50))

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     orderItems(vendor, restaurant, item, 3),
	})
	require.NoError(t, err)

	updated, skipped, err := orders.SetStatus(db, order.OrderNumber, models.OrderStatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
}

func TestSetStatusInvalidTransition(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     orderItems(vendor, restaurant, item, 1),
	})
	require.NoError(t, err)

	_, _, err = orders.SetStatus(db, order.OrderNumber, models.OrderStatusShipped, nil)
	require.NoError(t, err)

	// Geri geçiş reddedilir
	_, _, err = orders.SetStatus(db, order.OrderNumber, models.OrderStatusProcessing, nil)
	assert.ErrorIs(t, err, orders.ErrInvalidTransition)

	// Terminal durumdan sonra değişiklik yok
	_, _, err = orders.SetStatus(db, order.OrderNumber, models.OrderStatusDelivered, nil)
	require.NoError(t, err)
	_, _, err = orders.SetStatus(db, order.OrderNumber, models.OrderStatusCancelled, nil)
	assert.ErrorIs(t, err, orders.ErrInvalidTransition)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, _, err := orders.SetStatus(db, "yok-boyle-bir-no", models.OrderStatusConfirmed, nil)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestSetStatusWithCartOverride(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Subtotal:  180,
		Total:     180,
		Items:     orderItems(vendor, restaurant, item, 1),
	})
	require.NoError(t, err)

	newSubtotal := 360.0
	newTotal := 396.0
	updated, _, err := orders.SetStatus(db, order.OrderNumber, models.OrderStatusProcessing, &orders.CartOverride{
		Items:    orderItems(vendor, restaurant, item, 2),
		Subtotal: &newSubtotal,
		Total:    &newTotal,
	})
	require.NoError(t, err)

	assert.Equal(t, 360.0, updated.Subtotal)
	assert.Equal(t, 396.0, updated.Total)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 2, updated.Items[0].Quantity)

	// Taxes verilmedi, eski değer korunur
	assert.Equal(t, order.Taxes, updated.Taxes)
}

func TestSearchOrders(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	order, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     orderItems(vendor, restaurant, item, 1),
	})
	require.NoError(t, err)

	// Büyük/küçük harf duyarsız substring
	fragment := order.OrderNumber[4:10]
	results, err := orders.Search(db, fragment)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, order.OrderNumber, results[0].OrderNumber)

	results, err = orders.Search(db, "eslesmeyenbirsey")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListByVendor(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedOrderCatalog(t, db)

	otherVendor := models.Vendor{Name: "Marmara Dağıtım"}
	require.NoError(t, db.Create(&otherVendor).Error)

	_, err := orders.PlaceOrder(db, orders.PlaceOrderOptions{
		VendorID:  vendor.ID,
		Date:      time.Now(),
		PriceType: models.PriceTypeSale,
		Items:     orderItems(vendor, restaurant, item, 1),
	})
	require.NoError(t, err)

	results, err := orders.ListByVendor(db, vendor.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = orders.ListByVendor(db, otherVendor.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}
