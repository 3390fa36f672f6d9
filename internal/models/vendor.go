package models

import "time"

// Vendor: Dağıtım tarafındaki ana firma (tenant). Restoranlar ve stok ona bağlı.
type Vendor struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"` // Opsiyonel telefon
	CreatedAt time.Time
	UpdatedAt time.Time

	Users       []User
	Restaurants []Restaurant
}
