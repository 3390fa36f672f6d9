package orders

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("sipariş bulunamadı")
	ErrInvalidTransition   = errors.New("geçersiz durum geçişi")
	ErrOrderNumberConflict = errors.New("sipariş numarası çakıştı, tekrar deneyin")
)

// generateOrderNumber: 8 byte'lık rastgele hex token (16 karakter).
// Çakışma veritabanındaki unique index ile yakalanır; sessiz retry yok.
func generateOrderNumber() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sipariş numarası üretilemedi: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

type PlaceOrderOptions struct {
	VendorID  uint
	Date      time.Time
	PriceType models.PriceType
	Subtotal  float64
	Taxes     float64
	Total     float64
	Items     []models.OrderItem
}

// PlaceOrder: Sepet görüntüsünden yeni sipariş oluşturur (status=booked).
// Her satırın vendor referansı ve görsel yolu taşıması zorunludur.
func PlaceOrder(db *gorm.DB, opts PlaceOrderOptions) (*models.Order, error) {
	if opts.PriceType != models.PriceTypeSale && opts.PriceType != models.PriceTypePurchase {
		return nil, fmt.Errorf("priceType 'sale' veya 'purchase' olmalı")
	}
	if len(opts.Items) == 0 {
		return nil, fmt.Errorf("sepet boş olamaz")
	}

	for i, item := range opts.Items {
		if item.VendorID == 0 {
			return nil, fmt.Errorf("sepet satırı %d: vendor referansı eksik", i+1)
		}
		if item.ImagePath == "" {
			return nil, fmt.Errorf("sepet satırı %d: görsel yolu eksik", i+1)
		}
		if item.Name == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("sepet satırı %d: ürün adı ve miktar zorunlu", i+1)
		}
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber: orderNumber,
		VendorID:    opts.VendorID,
		Date:        opts.Date,
		PriceType:   opts.PriceType,
		Status:      models.OrderStatusBooked,
		Subtotal:    opts.Subtotal,
		Taxes:       opts.Taxes,
		Total:       opts.Total,
		Items:       opts.Items,
	}

	if err := db.Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOrderNumberConflict
		}
		return nil, fmt.Errorf("sipariş oluşturulamadı: %w", err)
	}

	return &order, nil
}

type CartOverride struct {
	Items    []models.OrderItem
	Subtotal *float64
	Taxes    *float64
	Total    *float64
	Date     *time.Time
}

// SetStatus: Sipariş durumunu geçiş tablosuna göre günceller.
// "confirmed" geçişinde her sipariş satırı için stok düşümü AYNI transaction
// içinde yapılır: ya durum değişikliği ve düşümlerin tamamı işlenir ya da hiçbiri.
// Stokta satırı olmayan ürünler atlanır ve sayısı döndürülür; yetersiz stok
// tüm işlemi geri alır.
func SetStatus(db *gorm.DB, orderNumber string, newStatus models.OrderStatus, override *CartOverride) (*models.Order, int, error) {
	if !ValidStatus(newStatus) {
		return nil, 0, fmt.Errorf("%w: bilinmeyen durum '%s'", ErrInvalidTransition, newStatus)
	}

	var order models.Order
	skipped := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("sipariş okunamadı: %w", err)
		}

		if !CanTransition(order.Status, newStatus) {
			return fmt.Errorf("%w: '%s' -> '%s'", ErrInvalidTransition, order.Status, newStatus)
		}

		// Opsiyonel sepet override'ı: verilen alanlar değişir, verilmeyenler korunur
		if override != nil {
			if len(override.Items) > 0 {
				if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
					return fmt.Errorf("eski sipariş satırları silinemedi: %w", err)
				}
				for i := range override.Items {
					override.Items[i].OrderID = order.ID
				}
				if err := tx.Create(&override.Items).Error; err != nil {
					return fmt.Errorf("yeni sipariş satırları kaydedilemedi: %w", err)
				}
				order.Items = override.Items
			}
			if override.Subtotal != nil {
				order.Subtotal = *override.Subtotal
			}
			if override.Taxes != nil {
				order.Taxes = *override.Taxes
			}
			if override.Total != nil {
				order.Total = *override.Total
			}
			if override.Date != nil {
				order.Date = *override.Date
			}
		}

		// Stok düşümü sadece confirmed geçişinde ve durum değişikliğiyle atomik
		if newStatus == models.OrderStatusConfirmed {
			for _, item := range order.Items {
				err := inventory.Decrement(tx, item.RestaurantID, item.MenuItemID, item.Quantity)
				if err != nil {
					if errors.Is(err, inventory.ErrRecordNotFound) || errors.Is(err, inventory.ErrLineNotFound) {
						skipped++
						continue
					}
					return err
				}
			}
		}

		order.Status = newStatus
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("sipariş güncellenemedi: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return &order, skipped, nil
}

// Search: Sipariş numarasında büyük/küçük harf duyarsız substring araması.
func Search(db *gorm.DB, substring string) ([]models.Order, error) {
	var results []models.Order
	err := db.Preload("Items").
		Where("LOWER(order_number) LIKE LOWER(?)", "%"+substring+"%").
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("sipariş araması başarısız: %w", err)
	}
	return results, nil
}

// ListByVendor: En az bir satırı verilen vendor'a ait olan siparişler.
func ListByVendor(db *gorm.DB, vendorID uint) ([]models.Order, error) {
	var results []models.Order
	err := db.Preload("Items").
		Where("id IN (?)", db.Model(&models.OrderItem{}).
			Select("order_id").
			Where("vendor_id = ?", vendorID)).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("siparişler listelenemedi: %w", err)
	}
	return results, nil
}
