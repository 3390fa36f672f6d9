package models

import "time"

// MenuItem: Restorana ait satılabilir ürün.
// SalePrice müşteri (sale) siparişleri, PurchasePrice iç (purchase) siparişleri için.
type MenuItem struct {
	ID            uint `gorm:"primaryKey"`
	RestaurantID  uint `gorm:"index;not null"`
	Restaurant    Restaurant
	Name          string  `gorm:"size:100;not null"`
	Description   string  `gorm:"size:255"`
	SalePrice     float64 `gorm:"not null"`
	PurchasePrice float64 `gorm:"not null"`
	StockCode     string  `gorm:"size:50;index"` // Opsiyonel stok kodu (toplu içe aktarma için)
	ImagePath     string  `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	AddOns []MenuAddOn `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
}

// MenuAddOn: Ürüne eklenebilen opsiyonel ekstra (sos, ekstra malzeme vb.)
type MenuAddOn struct {
	ID         uint   `gorm:"primaryKey"`
	MenuItemID uint   `gorm:"index;not null"`
	Name       string `gorm:"size:100;not null"`
	Price      float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
