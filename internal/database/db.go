package database

import (
	"log"

	"dagitim-backend/internal/config"
	"dagitim-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError: unique constraint ihlalleri gorm.ErrDuplicatedKey olarak
	// yakalanabilsin diye (üretim kodu, batch, sipariş numarası)
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
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
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Eski kurulumlarda order_number unique index'i eksik olabilir (AutoMigrate
	// mevcut tabloya sonradan eklenen uniqueIndex'i her zaman oluşturmuyor).
	// Sipariş numarası çakışması 409 olarak yakalanabilsin diye elle garanti et.
	if DB.Migrator().HasTable(&models.Order{}) {
		if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)").Error; err != nil {
			log.Printf("order_number unique index oluşturulurken hata (zaten var olabilir): %v", err)
		}
	}

	// Aynı şekilde üretim kodları: duplicate kontrolü lookup ile değil,
	// veritabanı constraint'i ile yapılıyor.
	if DB.Migrator().HasTable(&models.ProductionEntry{}) {
		if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_production_entries_code ON production_entries(production_code)").Error; err != nil {
			log.Printf("production_code unique index oluşturulurken hata (zaten var olabilir): %v", err)
		}
		if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_production_entries_batch ON production_entries(batch)").Error; err != nil {
			log.Printf("batch unique index oluşturulurken hata (zaten var olabilir): %v", err)
		}
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
