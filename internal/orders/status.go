package orders

import "dagitim-backend/internal/models"

// Durum sırası: booked -> confirmed -> processing -> packed -> shipped -> delivered.
// cancelled, terminal olmayan her durumdan ulaşılabilen alternatif son durumdur.
var statusRank = map[models.OrderStatus]int{
	models.OrderStatusBooked:     0,
	models.OrderStatusConfirmed:  1,
	models.OrderStatusProcessing: 2,
	models.OrderStatusPacked:     3,
	models.OrderStatusShipped:    4,
	models.OrderStatusDelivered:  5,
}

// ValidStatus: Bilinen bir sipariş durumu mu?
func ValidStatus(s models.OrderStatus) bool {
	if s == models.OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal: delivered ve cancelled son durumlardır, değiştirilemez.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusDelivered || s == models.OrderStatusCancelled
}

// CanTransition: Geçiş tablosu. İleri geçişler (atlama dahil) ve iptal serbest;
// geri geçişler reddedilir.
func CanTransition(from, to models.OrderStatus) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if IsTerminal(from) {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}
