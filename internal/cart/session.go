package cart

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dagitim-backend/internal/models"
	"dagitim-backend/internal/orders"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPriceTypeConflict: Sepette tek priceType bulunabilir; uyuşmayan ekleme
	// hiçbir değişiklik yapılmadan reddedilir.
	ErrPriceTypeConflict = errors.New("sepetin fiyat tipi ile uyuşmuyor")
	ErrEmptyCart         = errors.New("sepet boş")
	ErrAddOnNotFound     = errors.New("ekstra bulunamadı")
)

// LineKey: Ürün adı + sıralanmış ekstra adları. Aynı ürün + aynı ekstralar
// tek sepet satırında toplanır; ekstra kombinasyonu farklıysa ayrı satır açılır.
func LineKey(name string, addOnNames []string) string {
	if len(addOnNames) == 0 {
		return name
	}
	sorted := make([]string, len(addOnNames))
	copy(sorted, addOnNames)
	sort.Strings(sorted)
	return name + "|" + strings.Join(sorted, ",")
}

// UnitPrice: priceType'a göre birim fiyat + seçili ekstraların toplamı.
func UnitPrice(item *models.MenuItem, priceType models.PriceType, addOnNames []string) (float64, error) {
	price := item.SalePrice
	if priceType == models.PriceTypePurchase {
		price = item.PurchasePrice
	}

	for _, name := range addOnNames {
		found := false
		for _, addOn := range item.AddOns {
			if addOn.Name == name {
				price += addOn.Price
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %s", ErrAddOnNotFound, name)
		}
	}

	return price, nil
}

// LoadOrCreate: Kullanıcının (vendor, priceType) kapsamındaki aktif sepetini
// getirir, yoksa boş bir session oluşturur. Bu, client'taki ambient localStorage
// erişiminin yerini alan açık load/save sınırıdır.
func LoadOrCreate(db *gorm.DB, userID, vendorID uint, priceType models.PriceType) (*models.CartSession, error) {
	if priceType != models.PriceTypeSale && priceType != models.PriceTypePurchase {
		return nil, fmt.Errorf("priceType 'sale' veya 'purchase' olmalı")
	}

	var session models.CartSession
	err := db.Preload("Lines").
		Where("user_id = ? AND vendor_id = ? AND price_type = ?", userID, vendorID, priceType).
		First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sepet okunamadı: %w", err)
	}

	session = models.CartSession{
		Token:     uuid.NewString(),
		UserID:    userID,
		VendorID:  vendorID,
		PriceType: priceType,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("sepet oluşturulamadı: %w", err)
	}

	return &session, nil
}

// AddItem: Sepete ürün ekler. Aynı ürün + aynı ekstra kombinasyonu tekrar
// eklenirse miktarlar TOPLANIR (tek semantik; yerine yazma yok).
// priceType uyuşmazlığı mutation'dan önce reddedilir.
func AddItem(db *gorm.DB, session *models.CartSession, item *models.MenuItem, priceType models.PriceType, quantity int, addOnNames []string) (*models.CartLine, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity 0'dan büyük olmalı")
	}
	if priceType != session.PriceType {
		return nil, ErrPriceTypeConflict
	}

	unitPrice, err := UnitPrice(item, priceType, addOnNames)
	if err != nil {
		return nil, err
	}

	key := LineKey(item.Name, addOnNames)

	var line models.CartLine
	err = db.Where("cart_session_id = ? AND line_key = ?", session.ID, key).First(&line).Error
	if err == nil {
		// Mevcut satır: miktarları topla
		line.Quantity += quantity
		line.TotalPrice = float64(line.Quantity) * line.UnitPrice
		if err := db.Save(&line).Error; err != nil {
			return nil, fmt.Errorf("sepet satırı güncellenemedi: %w", err)
		}
		return &line, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sepet satırı okunamadı: %w", err)
	}

	line = models.CartLine{
		CartSessionID: session.ID,
		LineKey:       key,
		MenuItemID:    item.ID,
		RestaurantID:  item.RestaurantID,
		Name:          item.Name,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		AddOnNames:    strings.Join(addOnNames, ","),
		TotalPrice:    float64(quantity) * unitPrice,
		ImagePath:     item.ImagePath,
	}
	if err := db.Create(&line).Error; err != nil {
		return nil, fmt.Errorf("sepet satırı oluşturulamadı: %w", err)
	}

	return &line, nil
}

// RemoveLine: Sepetten satır çıkarır.
func RemoveLine(db *gorm.DB, sessionID, lineID uint) error {
	res := db.Where("cart_session_id = ? AND id = ?", sessionID, lineID).Delete(&models.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("sepet satırı silinemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear: Sepeti boşaltır (session kalır, satırlar silinir).
func Clear(db *gorm.DB, sessionID uint) error {
	if err := db.Where("cart_session_id = ?", sessionID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("sepet temizlenemedi: %w", err)
	}
	return nil
}

// Subtotal: Satır toplamlarının toplamı.
func Subtotal(lines []models.CartLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.TotalPrice
	}
	return sum
}

// Checkout: Sepeti siparişe çevirir ve sepeti AYNI transaction içinde temizler.
// Sipariş oluşur ama sepet dolu kalır (veya tersi) gibi bir ara durum oluşamaz.
func Checkout(db *gorm.DB, session *models.CartSession, date time.Time, taxes float64) (*models.Order, error) {
	if len(session.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(session.Lines))
	for _, line := range session.Lines {
		items = append(items, models.OrderItem{
			VendorID:     session.VendorID,
			RestaurantID: line.RestaurantID,
			MenuItemID:   line.MenuItemID,
			Name:         line.Name,
			Price:        line.UnitPrice,
			Quantity:     line.Quantity,
			TotalPrice:   line.TotalPrice,
			ImagePath:    line.ImagePath,
			AddOnNames:   line.AddOnNames,
		})
	}

	subtotal := Subtotal(session.Lines)

	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = orders.PlaceOrder(tx, orders.PlaceOrderOptions{
			VendorID:  session.VendorID,
			Date:      date,
			PriceType: session.PriceType,
			Subtotal:  subtotal,
			Taxes:     taxes,
			Total:     subtotal + taxes,
			Items:     items,
		})
		if err != nil {
			return err
		}

		return Clear(tx, session.ID)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
