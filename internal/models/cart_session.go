package models

import "time"

// CartSession: Kullanıcının (vendor, priceType) kapsamındaki aktif sepeti.
// Client'taki localStorage yerine sunucuda saklanır; checkout sonrası temizlenir.
// Bir session'da tek priceType bulunabilir (karışık sepet reddedilir).
type CartSession struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"size:40;not null;uniqueIndex"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_cart_user_vendor_type"`
	VendorID  uint   `gorm:"not null;uniqueIndex:idx_cart_user_vendor_type"`
	PriceType PriceType `gorm:"size:20;not null;uniqueIndex:idx_cart_user_vendor_type"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []CartLine `gorm:"foreignKey:CartSessionID;constraint:OnDelete:CASCADE"`
}

// CartLine: Sepet satırı. LineKey = ürün adı + "|" + sıralanmış ekstra adları;
// aynı ürün + aynı ekstralar tek satırda toplanır.
type CartLine struct {
	ID            uint   `gorm:"primaryKey"`
	CartSessionID uint   `gorm:"not null;uniqueIndex:idx_cart_line_key"`
	LineKey       string `gorm:"size:255;not null;uniqueIndex:idx_cart_line_key"`
	MenuItemID    uint   `gorm:"index;not null"`
	RestaurantID  uint   `gorm:"not null"`
	Name          string  `gorm:"size:100;not null"`
	UnitPrice     float64 `gorm:"not null"`
	Quantity      int     `gorm:"not null"`
	AddOnNames    string  `gorm:"size:255"`
	TotalPrice    float64 `gorm:"not null"`
	ImagePath     string  `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
