package testutil

import (
	"testing"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB: Testler için in-memory sqlite veritabanı açar ve şemayı kurar.
// TranslateError sayesinde unique ihlalleri production'daki gibi
// gorm.ErrDuplicatedKey olarak döner.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Her test kendi adıyla izole bir in-memory veritabanı alır; cache=shared
	// GORM'un connection pool'u için gereklidir.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_fk=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	err = db.AutoMigrate(
		&models.Vendor{},
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.MenuAddOn{},
		&models.InventoryRecord{},
		&models.InventoryLine{},
		&models.ProductionEntry{},
		&models.ProductionItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartSession{},
		&models.CartLine{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("test şeması kurulamadı: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// NewTestDBWithGlobal: Handler testleri için test veritabanını database.DB
// global'ine de bağlar ve test sonunda eski değeri geri koyar.
func NewTestDBWithGlobal(t *testing.T) *gorm.DB {
	t.Helper()

	db := NewTestDB(t)

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
	})

	return db
}
