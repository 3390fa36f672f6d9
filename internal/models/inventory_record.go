package models

import "time"

// InventoryRecord: (vendor, restaurant) başına tek stok kaydı.
// Teklik uygulama seviyesinde değil, composite unique index ile garanti edilir.
type InventoryRecord struct {
	ID           uint `gorm:"primaryKey"`
	VendorID     uint `gorm:"not null;uniqueIndex:idx_inventory_vendor_restaurant"`
	RestaurantID uint `gorm:"not null;uniqueIndex:idx_inventory_vendor_restaurant"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines []InventoryLine `gorm:"foreignKey:InventoryRecordID;constraint:OnDelete:CASCADE"`
}

// InventoryLine: Stok kaydındaki tek ürün satırı.
// Aynı kayıtta aynı ürün için ikinci satır açılamaz (unique index).
type InventoryLine struct {
	ID                uint `gorm:"primaryKey"`
	InventoryRecordID uint `gorm:"not null;uniqueIndex:idx_inventory_line_item"`
	MenuItemID        uint `gorm:"not null;uniqueIndex:idx_inventory_line_item"`
	InStock           int  `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
