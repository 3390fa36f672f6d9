package models

import "time"

type OrderStatus string

const (
	OrderStatusBooked     OrderStatus = "booked"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPacked     OrderStatus = "packed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PriceType string

const (
	PriceTypeSale     PriceType = "sale"     // Müşteri siparişi
	PriceTypePurchase PriceType = "purchase" // İç (toptan) sipariş
)

// Order: Checkout edilmiş sepet + durum yaşam döngüsü.
// "confirmed" durumuna geçiş stok düşümü ile aynı transaction içinde yapılır.
type Order struct {
	ID          uint      `gorm:"primaryKey"`
	OrderNumber string    `gorm:"size:32;not null;uniqueIndex"`
	VendorID    uint      `gorm:"index;not null"`
	Date        time.Time `gorm:"index;not null"`
	PriceType   PriceType `gorm:"size:20;not null"`
	Status      OrderStatus `gorm:"size:20;not null;index"`
	Subtotal    float64   `gorm:"not null"`
	Taxes       float64   `gorm:"not null"`
	Total       float64   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem: Sipariş anındaki sepet satırının kopyası (fiyat ve ad snapshot'tır).
type OrderItem struct {
	ID           uint `gorm:"primaryKey"`
	OrderID      uint `gorm:"index;not null"`
	VendorID     uint `gorm:"index;not null"`
	RestaurantID uint `gorm:"index;not null"`
	MenuItemID   uint `gorm:"index;not null"`
	Name         string  `gorm:"size:100;not null"`
	Price        float64 `gorm:"not null"`
	Quantity     int     `gorm:"not null"`
	TotalPrice   float64 `gorm:"not null"`
	ImagePath    string  `gorm:"size:255"`
	AddOnNames   string  `gorm:"size:255"` // Virgülle ayrılmış seçili ekstra adları
	CreatedAt    time.Time
}
