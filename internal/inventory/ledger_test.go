package inventory_test

import (
	"testing"

	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRestaurant(t *testing.T, db *gorm.DB) (*models.Vendor, *models.Restaurant, *models.MenuItem) {
	t.Helper()

	vendor := models.Vendor{Name: "Anadolu Dağıtım"}
	require.NoError(t, db.Create(&vendor).Error)

	restaurant := models.Restaurant{VendorID: vendor.ID, Name: "Merkez Mutfak"}
	require.NoError(t, db.Create(&restaurant).Error)

	item := models.MenuItem{
		RestaurantID:  restaurant.ID,
		Name:          "İskender Kebap",
		SalePrice:     250,
		PurchasePrice: 180,
		ImagePath:     "/item-images/iskender.jpg",
	}
	require.NoError(t, db.Create(&item).Error)

	return &vendor, &restaurant, &item
}

func TestIncrementCreatesRecordAndLine(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedRestaurant(t, db)

	err := inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 10)
	require.NoError(t, err)

	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, record.VendorID)
	require.Len(t, record.Lines, 1)
	assert.Equal(t, item.ID, record.Lines[0].MenuItemID)
	assert.Equal(t, 10, record.Lines[0].InStock)
}

func TestIncrementAddsToExistingLine(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedRestaurant(t, db)

	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 10))
	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 5))

	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, record.Lines, 1)
	assert.Equal(t, 15, record.Lines[0].InStock)
}

func TestIncrementRejectsNonPositiveQty(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedRestaurant(t, db)

	assert.Error(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 0))
	assert.Error(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, -3))

	_, err := inventory.Read(db, restaurant.ID)
	assert.ErrorIs(t, err, inventory.ErrRecordNotFound)
}

func TestDecrementSequence(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedRestaurant(t, db)

	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 10))

	require.NoError(t, inventory.Decrement(db, restaurant.ID, item.ID, 4))
	require.NoError(t, inventory.Decrement(db, restaurant.ID, item.ID, 4))

	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, record.Lines, 1)
	assert.Equal(t, 2, record.Lines[0].InStock)
}

func TestDecrementInsufficientStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedRestaurant(t, db)

	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 3))

	err := inventory.Decrement(db, restaurant.ID, item.ID, 5)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	// Başarısız düşüm stok değiştirmemeli
	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, record.Lines[0].InStock)
}

func TestDecrementUnknownItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, item := seedRestaurant(t, db)

	require.NoError(t, inventory.Increment(db, vendor.ID, restaurant.ID, item.ID, 3))

	err := inventory.Decrement(db, restaurant.ID, item.ID+999, 1)
	assert.ErrorIs(t, err, inventory.ErrLineNotFound)
}

func TestDecrementWithoutRecord(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, restaurant, item := seedRestaurant(t, db)

	err := inventory.Decrement(db, restaurant.ID, item.ID, 1)
	assert.ErrorIs(t, err, inventory.ErrRecordNotFound)
}

func TestReadUnknownRestaurant(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := inventory.Read(db, 42)
	assert.ErrorIs(t, err, inventory.ErrRecordNotFound)
}
