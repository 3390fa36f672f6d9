package production_test

import (
	"testing"
	"time"

	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/production"
	"dagitim-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Vendor, *models.Restaurant, []models.MenuItem) {
	t.Helper()

	vendor := models.Vendor{Name: "Anadolu Dağıtım"}
	require.NoError(t, db.Create(&vendor).Error)

	restaurant := models.Restaurant{VendorID: vendor.ID, Name: "Merkez Mutfak"}
	require.NoError(t, db.Create(&restaurant).Error)

	items := []models.MenuItem{
		{RestaurantID: restaurant.ID, Name: "Mercimek Çorbası", SalePrice: 80, PurchasePrice: 50},
		{RestaurantID: restaurant.ID, Name: "Adana Dürüm", SalePrice: 180, PurchasePrice: 120},
	}
	require.NoError(t, db.Create(&items).Error)

	return &vendor, &restaurant, items
}

func TestRecordCreatesEntryAndIncrementsStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, items := seedCatalog(t, db)

	entry, err := production.Record(db, production.RecordOptions{
		Date:           time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		ProductionCode: "PRD-001",
		Batch:          "BATCH-A",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities: map[uint]int{
			items[0].ID: 20,
			items[1].ID: 5,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "PRD-001", entry.ProductionCode)
	require.Len(t, entry.Items, 2)

	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, record.Lines, 2)

	stockByItem := make(map[uint]int)
	for _, line := range record.Lines {
		stockByItem[line.MenuItemID] = line.InStock
	}
	assert.Equal(t, 20, stockByItem[items[0].ID])
	assert.Equal(t, 5, stockByItem[items[1].ID])
}

func TestRecordFreezesItemNames(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, items := seedCatalog(t, db)

	entry, err := production.Record(db, production.RecordOptions{
		Date:           time.Now(),
		ProductionCode: "PRD-002",
		Batch:          "BATCH-B",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities:     map[uint]int{items[0].ID: 3},
	})
	require.NoError(t, err)

	// Ürün sonradan yeniden adlandırılıyor
	require.NoError(t, db.Model(&models.MenuItem{}).
		Where("id = ?", items[0].ID).
		Update("name", "Ezogelin Çorbası").Error)

	var stored models.ProductionEntry
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", entry.ID).Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Mercimek Çorbası", stored.Items[0].MenuItemName)
}

func TestRecordDuplicateProductionCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, items := seedCatalog(t, db)

	opts := production.RecordOptions{
		Date:           time.Now(),
		ProductionCode: "PRD-003",
		Batch:          "BATCH-C",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities:     map[uint]int{items[0].ID: 10},
	}
	_, err := production.Record(db, opts)
	require.NoError(t, err)

	opts.Batch = "BATCH-FARKLI"
	_, err = production.Record(db, opts)
	assert.ErrorIs(t, err, production.ErrDuplicateProductionCode)

	// Başarısız kayıt stok değiştirmemeli
	record, err := inventory.Read(db, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, record.Lines[0].InStock)
}

func TestRecordDuplicateBatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, items := seedCatalog(t, db)

	opts := production.RecordOptions{
		Date:           time.Now(),
		ProductionCode: "PRD-004",
		Batch:          "BATCH-D",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities:     map[uint]int{items[0].ID: 10},
	}
	_, err := production.Record(db, opts)
	require.NoError(t, err)

	opts.ProductionCode = "PRD-FARKLI"
	_, err = production.Record(db, opts)
	assert.ErrorIs(t, err, production.ErrDuplicateBatch)
}

func TestRecordUnknownMenuItemRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, items := seedCatalog(t, db)

	_, err := production.Record(db, production.RecordOptions{
		Date:           time.Now(),
		ProductionCode: "PRD-005",
		Batch:          "BATCH-E",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities: map[uint]int{
			items[0].ID:      10,
			items[1].ID + 99: 5, // Olmayan ürün
		},
	})
	assert.ErrorIs(t, err, production.ErrMenuItemNotFound)

	// Transaction geri alınmış olmalı: ne kayıt ne stok
	var count int64
	require.NoError(t, db.Model(&models.ProductionEntry{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = inventory.Read(db, restaurant.ID)
	assert.ErrorIs(t, err, inventory.ErrRecordNotFound)
}

func TestRecordValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	vendor, restaurant, items := seedCatalog(t, db)

	// Boş production_code
	_, err := production.Record(db, production.RecordOptions{
		Date:         time.Now(),
		Batch:        "BATCH-F",
		VendorID:     vendor.ID,
		RestaurantID: restaurant.ID,
		Quantities:   map[uint]int{items[0].ID: 1},
	})
	assert.Error(t, err)

	// Boş miktar listesi
	_, err = production.Record(db, production.RecordOptions{
		Date:           time.Now(),
		ProductionCode: "PRD-006",
		Batch:          "BATCH-F",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities:     map[uint]int{},
	})
	assert.Error(t, err)

	// Sıfır miktar
	_, err = production.Record(db, production.RecordOptions{
		Date:           time.Now(),
		ProductionCode: "PRD-006",
		Batch:          "BATCH-F",
		VendorID:       vendor.ID,
		RestaurantID:   restaurant.ID,
		Quantities:     map[uint]int{items[0].ID: 0},
	})
	assert.Error(t, err)
}
