package production

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDuplicateProductionCode = errors.New("bu üretim kodu zaten kayıtlı")
	ErrDuplicateBatch          = errors.New("bu batch kodu zaten kayıtlı")
	ErrMenuItemNotFound        = errors.New("menü ürünü bulunamadı")
)

type RecordOptions struct {
	Date           time.Time
	ProductionCode string
	Batch          string
	VendorID       uint
	RestaurantID   uint
	Quantities     map[uint]int // menuItemID -> üretilen adet
}

// Record: Üretim kaydını ve stok artışlarını TEK transaction içinde uygular.
// Kayıt başarılı ama artışlar yarım kalmış bir durum oluşamaz; herhangi bir
// adım başarısız olursa tamamı geri alınır.
//
// Duplicate production_code/batch kontrolü lookup ile değil, unique index ile
// yapılır: insert çakışırsa transaction iptal olur ve hangi alanın çakıştığı
// sonradan tespit edilir.
func Record(db *gorm.DB, opts RecordOptions) (*models.ProductionEntry, error) {
	if opts.ProductionCode == "" || opts.Batch == "" {
		return nil, fmt.Errorf("production_code ve batch zorunlu")
	}
	if len(opts.Quantities) == 0 {
		return nil, fmt.Errorf("en az bir ürün miktarı girilmelidir")
	}
	for _, qty := range opts.Quantities {
		if qty <= 0 {
			return nil, fmt.Errorf("üretim miktarları 0'dan büyük olmalı")
		}
	}

	// Map sırası rastgele; deterministik işlem için ürün ID'lerine göre sırala
	itemIDs := make([]uint, 0, len(opts.Quantities))
	for itemID := range opts.Quantities {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	var entry *models.ProductionEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		// Ürün adlarını kayıt anında çöz ve dondur (sonraki rename'ler
		// geçmiş üretim kayıtlarını değiştirmez)
		items := make([]models.ProductionItem, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, "id = ? AND restaurant_id = ?", itemID, opts.RestaurantID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w (ID: %d)", ErrMenuItemNotFound, itemID)
				}
				return fmt.Errorf("menü ürünü okunamadı: %w", err)
			}

			items = append(items, models.ProductionItem{
				MenuItemID:   menuItem.ID,
				MenuItemName: menuItem.Name,
				Quantity:     opts.Quantities[itemID],
			})
		}

		e := models.ProductionEntry{
			Date:           opts.Date,
			ProductionCode: opts.ProductionCode,
			Batch:          opts.Batch,
			VendorID:       opts.VendorID,
			RestaurantID:   opts.RestaurantID,
			Items:          items,
		}

		if err := tx.Create(&e).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return classifyDuplicate(db, opts.ProductionCode, opts.Batch)
			}
			return fmt.Errorf("üretim kaydı oluşturulamadı: %w", err)
		}

		// Her ürün için stok artışı (aynı transaction içinde)
		for _, item := range e.Items {
			if err := inventory.Increment(tx, opts.VendorID, opts.RestaurantID, item.MenuItemID, item.Quantity); err != nil {
				return err
			}
		}

		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// classifyDuplicate: Çakışan unique alanın hangisi olduğunu bulur.
// Transaction dışındaki bağlantıyla bakılır (iptal olan tx okunamaz).
func classifyDuplicate(db *gorm.DB, productionCode, batch string) error {
	var count int64
	db.Model(&models.ProductionEntry{}).
		Where("production_code = ?", productionCode).
		Count(&count)
	if count > 0 {
		return ErrDuplicateProductionCode
	}

	db.Model(&models.ProductionEntry{}).
		Where("batch = ?", batch).
		Count(&count)
	if count > 0 {
		return ErrDuplicateBatch
	}

	// Yarışta kayıt silinmiş olabilir; genel conflict olarak raporla
	return ErrDuplicateProductionCode
}
