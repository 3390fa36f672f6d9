package inventory

import (
	"errors"
	"fmt"

	"dagitim-backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound: Restoran için stok kaydı yok
	ErrRecordNotFound = errors.New("stok kaydı bulunamadı")
	// ErrLineNotFound: Stok kaydı var ama ürün satırı yok
	ErrLineNotFound = errors.New("stok satırı bulunamadı")
	// ErrInsufficientStock: Düşüm sonrası stok negatife inecekti
	ErrInsufficientStock = errors.New("yetersiz stok")
)

// Increment: (vendor, restaurant) stok kaydındaki ürün satırına qty ekler.
// Kayıt veya satır yoksa oluşturur. Çağıran, her üretim olayı için en fazla bir
// kez çağrıldığını garanti eder (üretim kaydı + transaction bunu sağlıyor).
func Increment(tx *gorm.DB, vendorID, restaurantID, menuItemID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty 0'dan büyük olmalı")
	}

	var record models.InventoryRecord
	err := tx.Where("vendor_id = ? AND restaurant_id = ?", vendorID, restaurantID).
		First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("stok kaydı okunamadı: %w", err)
		}
		record = models.InventoryRecord{
			VendorID:     vendorID,
			RestaurantID: restaurantID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("stok kaydı oluşturulamadı: %w", err)
		}
	}

	// Önce mevcut satırı atomik olarak artırmayı dene (read-modify-write yok)
	res := tx.Model(&models.InventoryLine{}).
		Where("inventory_record_id = ? AND menu_item_id = ?", record.ID, menuItemID).
		Update("in_stock", gorm.Expr("in_stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("stok satırı güncellenemedi: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Satır yok, oluştur. Unique index (record, menu_item) yarışta ikinci satırı engeller.
	line := models.InventoryLine{
		InventoryRecordID: record.ID,
		MenuItemID:        menuItemID,
		InStock:           qty,
	}
	if err := tx.Create(&line).Error; err != nil {
		return fmt.Errorf("stok satırı oluşturulamadı: %w", err)
	}

	return nil
}

// Decrement: Restoranın stok kaydındaki ürün satırından qty düşer.
// Düşüm tek bir koşullu UPDATE ile yapılır (in_stock >= qty), böylece iki
// eşzamanlı düşüm kaybolan güncelleme üretmez ve stok negatife inemez.
func Decrement(tx *gorm.DB, restaurantID, menuItemID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty 0'dan büyük olmalı")
	}

	var record models.InventoryRecord
	if err := tx.Where("restaurant_id = ?", restaurantID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("stok kaydı okunamadı: %w", err)
	}

	res := tx.Model(&models.InventoryLine{}).
		Where("inventory_record_id = ? AND menu_item_id = ? AND in_stock >= ?", record.ID, menuItemID, qty).
		Update("in_stock", gorm.Expr("in_stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("stok satırı güncellenemedi: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Güncelleme eşleşmedi: satır mı yok, stok mu yetersiz?
	var count int64
	if err := tx.Model(&models.InventoryLine{}).
		Where("inventory_record_id = ? AND menu_item_id = ?", record.ID, menuItemID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("stok satırı okunamadı: %w", err)
	}
	if count == 0 {
		return ErrLineNotFound
	}
	return ErrInsufficientStock
}

// Read: Restoranın stok satırlarını döndürür.
func Read(db *gorm.DB, restaurantID uint) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := db.Preload("Lines").
		Where("restaurant_id = ?", restaurantID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("stok kaydı okunamadı: %w", err)
	}
	return &record, nil
}
