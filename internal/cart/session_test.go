package cart_test

import (
	"testing"
	"time"

	"dagitim-backend/internal/cart"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCartCatalog(t *testing.T, db *gorm.DB) (*models.Vendor, *models.Restaurant, *models.MenuItem) {
	t.Helper()

	vendor := models.Vendor{Name: "Anadolu Dağıtım"}
	require.NoError(t, db.Create(&vendor).Error)

	restaurant := models.Restaurant{VendorID: vendor.ID, Name: "Merkez Mutfak"}
	require.NoError(t, db.Create(&restaurant).Error)

	item := models.MenuItem{
		RestaurantID:  restaurant.ID,
		Name:          "Lahmacun",
		SalePrice:     90,
		PurchasePrice: 60,
		ImagePath:     "/item-images/lahmacun.jpg",
		AddOns: []models.MenuAddOn{
			{Name: "Acılı", Price: 0},
			{Name: "Ekstra Kaşar", Price: 25},
		},
	}
	require.NoError(t, db.Create(&item).Error)

	return &vendor, &restaurant, &item
}

func TestLineKey(t *testing.T) {
	// Ekstra yoksa sadece ürün adı
	assert.Equal(t, "Lahmacun", cart.LineKey("Lahmacun", nil))

	// Ekstralar sıralanır; giriş sırası anahtarı değiştirmez
	key1 := cart.LineKey("Lahmacun", []string{"Acılı", "Ekstra Kaşar"})
	key2 := cart.LineKey("Lahmacun", []string{"Ekstra Kaşar", "Acılı"})
	assert.Equal(t, key1, key2)
	assert.Equal(t, "Lahmacun|Acılı,Ekstra Kaşar", key1)

	// Farklı kombinasyon farklı anahtar
	assert.NotEqual(t, key1, cart.LineKey("Lahmacun", []string{"Acılı"}))
}

func TestUnitPrice(t *testing.T) {
	item := &models.MenuItem{
		SalePrice:     90,
		PurchasePrice: 60,
		AddOns: []models.MenuAddOn{
			{Name: "Ekstra Kaşar", Price: 25},
		},
	}

	price, err := cart.UnitPrice(item, models.PriceTypeSale, nil)
	require.NoError(t, err)
	assert.Equal(t, 90.0, price)

	price, err = cart.UnitPrice(item, models.PriceTypePurchase, nil)
	require.NoError(t, err)
	assert.Equal(t, 60.0, price)

	price, err = cart.UnitPrice(item, models.PriceTypeSale, []string{"Ekstra Kaşar"})
	require.NoError(t, err)
	assert.Equal(t, 115.0, price)

	_, err = cart.UnitPrice(item, models.PriceTypeSale, []string{"Olmayan Ekstra"})
	assert.ErrorIs(t, err, cart.ErrAddOnNotFound)
}

func TestLoadOrCreateReusesSession(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, _, _ := seedCartCatalog(t, db)

	s1, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)
	require.NotEmpty(t, s1.Token)

	s2, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)
	assert.Equal(t, s1.ID, s2.ID)
	assert.Equal(t, s1.Token, s2.Token)

	// Farklı priceType ayrı session
	s3, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypePurchase)
	require.NoError(t, err)
	assert.NotEqual(t, s1.ID, s3.ID)
}

func TestAddItemSumsQuantities(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, _, item := seedCartCatalog(t, db)

	session, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)

	line, err := cart.AddItem(db, session, item, models.PriceTypeSale, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 180.0, line.TotalPrice)

	// Aynı ürün + aynı ekstralar: miktar toplanır
	line, err = cart.AddItem(db, session, item, models.PriceTypeSale, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 450.0, line.TotalPrice)

	// Farklı ekstra kombinasyonu ayrı satır açar
	_, err = cart.AddItem(db, session, item, models.PriceTypeSale, 1, []string{"Ekstra Kaşar"})
	require.NoError(t, err)

	session, err = cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)
	assert.Len(t, session.Lines, 2)
}

func TestAddItemPriceTypeConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, _, item := seedCartCatalog(t, db)

	session, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)

	_, err = cart.AddItem(db, session, item, models.PriceTypeSale, 1, nil)
	require.NoError(t, err)

	// Uyuşmayan priceType mutation'dan önce reddedilir
	_, err = cart.AddItem(db, session, item, models.PriceTypePurchase, 1, nil)
	assert.ErrorIs(t, err, cart.ErrPriceTypeConflict)

	session, err = cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)
	require.Len(t, session.Lines, 1)
	assert.Equal(t, 1, session.Lines[0].Quantity)
}

func TestRemoveLineAndClear(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, _, item := seedCartCatalog(t, db)

	session, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)

	line, err := cart.AddItem(db, session, item, models.PriceTypeSale, 1, nil)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveLine(db, session.ID, line.ID))
	assert.ErrorIs(t, cart.RemoveLine(db, session.ID, line.ID), gorm.ErrRecordNotFound)

	_, err = cart.AddItem(db, session, item, models.PriceTypeSale, 1, nil)
	require.NoError(t, err)
	_, err = cart.AddItem(db, session, item, models.PriceTypeSale, 1, []string{"Acılı"})
	require.NoError(t, err)

	require.NoError(t, cart.Clear(db, session.ID))

	session, err = cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)
	assert.Empty(t, session.Lines)
}

func TestSubtotal(t *testing.T) {
	lines := []models.CartLine{
		{TotalPrice: 180},
		{TotalPrice: 115},
	}
	assert.Equal(t, 295.0, cart.Subtotal(lines))
	assert.Zero(t, cart.Subtotal(nil))
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, _, item := seedCartCatalog(t, db)

	session, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)

	_, err = cart.AddItem(db, session, item, models.PriceTypeSale, 2, nil)
	require.NoError(t, err)

	session, err = cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)

	order, err := cart.Checkout(db, session, time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC), 18)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderStatusBooked, order.Status)
	assert.Equal(t, models.PriceTypeSale, order.PriceType)
	assert.Equal(t, 180.0, order.Subtotal)
	assert.Equal(t, 18.0, order.Taxes)
	assert.Equal(t, 198.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, item.ImagePath, order.Items[0].ImagePath)

	// Sepet temizlenmiş olmalı (session kalır)
	session, err = cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)
	assert.Empty(t, session.Lines)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, _, _ := seedCartCatalog(t, db)

	session, err := cart.LoadOrCreate(db, 1, vendor.ID, models.PriceTypeSale)
	require.NoError(t, err)

	_, err = cart.Checkout(db, session, time.Now(), 0)
	assert.ErrorIs(t, err, cart.ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
