package models

import "time"

// Restaurant: Bir vendor'a bağlı satış noktası / mutfak. Menü ona ait.
type Restaurant struct {
	ID        uint `gorm:"primaryKey"`
	VendorID  uint `gorm:"index;not null"`
	Vendor    Vendor
	Name      string `gorm:"size:100;not null"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time

	MenuItems []MenuItem
}
