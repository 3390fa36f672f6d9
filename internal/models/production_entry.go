package models

import "time"

// ProductionEntry: Üretim kaydı. Bir kez oluşturulur, sonradan değiştirilmez.
// ProductionCode ve Batch unique constraint ile korunur; check-then-insert yok.
type ProductionEntry struct {
	ID             uint      `gorm:"primaryKey"`
	Date           time.Time `gorm:"index;not null"`
	ProductionCode string    `gorm:"size:50;not null;uniqueIndex"`
	Batch          string    `gorm:"size:50;not null;uniqueIndex"`
	VendorID       uint      `gorm:"index;not null"`
	Vendor         Vendor
	RestaurantID   uint `gorm:"index;not null"`
	Restaurant     Restaurant
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []ProductionItem `gorm:"foreignKey:ProductionEntryID;constraint:OnDelete:CASCADE"`
}

// ProductionItem: Üretilen ürün satırı.
// MenuItemName kayıt anındaki ürün adıdır (snapshot); ürün sonradan yeniden
// adlandırılsa bile geçmiş üretim kayıtları değişmez.
type ProductionItem struct {
	ID                uint `gorm:"primaryKey"`
	ProductionEntryID uint `gorm:"index;not null"`
	MenuItemID        uint `gorm:"index;not null"`
	MenuItemName      string `gorm:"size:100;not null"`
	Quantity          int    `gorm:"not null"`
	CreatedAt         time.Time
}
