package orders_test

import (
	"testing"

	"dagitim-backend/internal/models"
	"dagitim-backend/internal/orders"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{"ileri tek adım", models.OrderStatusBooked, models.OrderStatusConfirmed, true},
		{"ileri atlama", models.OrderStatusBooked, models.OrderStatusShipped, true},
		{"ileri atlama confirmed->delivered", models.OrderStatusConfirmed, models.OrderStatusDelivered, true},
		{"geri geçiş", models.OrderStatusShipped, models.OrderStatusConfirmed, false},
		{"aynı durum", models.OrderStatusPacked, models.OrderStatusPacked, false},
		{"booked'dan iptal", models.OrderStatusBooked, models.OrderStatusCancelled, true},
		{"shipped'den iptal", models.OrderStatusShipped, models.OrderStatusCancelled, true},
		{"delivered terminal", models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{"cancelled terminal", models.OrderStatusCancelled, models.OrderStatusBooked, false},
		{"delivered'dan ileri", models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{"bilinmeyen hedef", models.OrderStatusBooked, models.OrderStatus("bilinmeyen"), false},
		{"bilinmeyen kaynak", models.OrderStatus("bilinmeyen"), models.OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, orders.CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, orders.ValidStatus(models.OrderStatusBooked))
	assert.True(t, orders.ValidStatus(models.OrderStatusCancelled))
	assert.False(t, orders.ValidStatus(models.OrderStatus("beklemede")))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, orders.IsTerminal(models.OrderStatusDelivered))
	assert.True(t, orders.IsTerminal(models.OrderStatusCancelled))
	assert.False(t, orders.IsTerminal(models.OrderStatusBooked))
	assert.False(t, orders.IsTerminal(models.OrderStatusShipped))
}
