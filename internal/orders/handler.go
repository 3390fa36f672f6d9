package orders

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OrderItemRequest struct {
	VendorID     uint    `json:"vendor_id"`
	RestaurantID uint    `json:"restaurant_id"`
	MenuItemID   uint    `json:"menu_item_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
	ImgPath      string  `json:"img_path"`
	AddOnNames   string  `json:"add_on_names"`
}

type PlaceOrderRequest struct {
	Date      string             `json:"date"` // "2025-12-09"
	PriceType string             `json:"price_type"`
	Cart      []OrderItemRequest `json:"cart"`
	Subtotal  float64            `json:"subtotal"`
	Taxes     float64            `json:"taxes"`
	Total     float64            `json:"total"`
	VendorID  *uint              `json:"vendor_id"` // super_admin için
}

type SetStatusRequest struct {
	Status   string             `json:"status"`
	Cart     []OrderItemRequest `json:"cart"` // Opsiyonel override
	Subtotal *float64           `json:"subtotal"`
	Taxes    *float64           `json:"taxes"`
	Total    *float64           `json:"total"`
	Date     *string            `json:"date"`
}

type OrderItemResponse struct {
	VendorID     uint    `json:"vendor_id"`
	RestaurantID uint    `json:"restaurant_id"`
	MenuItemID   uint    `json:"menu_item_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
	ImgPath      string  `json:"img_path"`
	AddOnNames   string  `json:"add_on_names"`
}

type OrderResponse struct {
	ID          uint                `json:"id"`
	OrderNumber string              `json:"order_number"`
	VendorID    uint                `json:"vendor_id"`
	Date        string              `json:"date"`
	PriceType   string              `json:"price_type"`
	Status      string              `json:"status"`
	Subtotal    float64             `json:"subtotal"`
	Taxes       float64             `json:"taxes"`
	Total       float64             `json:"total"`
	Items       []OrderItemResponse `json:"cart"`
	CreatedAt   string              `json:"created_at"`
}

// Yardımcı: Vendor ID'yi body veya role göre çöz
func resolveVendorIDFromBodyOrRole(c *fiber.Ctx, bodyVendorID *uint) (uint, error) {
	vVal := c.Locals(auth.CtxVendorIDKey)
	if vPtr, ok := vVal.(*uint); ok && vPtr != nil {
		return *vPtr, nil
	}

	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleSuperAdmin {
		if bodyVendorID == nil || *bodyVendorID == 0 {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Super admin için vendor_id gerekli")
		}
		return *bodyVendorID, nil
	}

	return 0, fiber.NewError(fiber.StatusForbidden, "Vendor bilgisi alınamadı")
}

func resolveVendorIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	vVal := c.Locals(auth.CtxVendorIDKey)
	if vPtr, ok := vVal.(*uint); ok && vPtr != nil {
		return *vPtr, nil
	}

	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleSuperAdmin {
		vendorIDStr := c.Query("vendor_id")
		if vendorIDStr == "" {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Super admin için vendor_id gerekli")
		}
		vendorID, err := strconv.ParseUint(vendorIDStr, 10, 32)
		if err != nil {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz vendor_id")
		}
		return uint(vendorID), nil
	}

	return 0, fiber.NewError(fiber.StatusForbidden, "Vendor bilgisi alınamadı")
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

func toOrderItems(reqs []OrderItemRequest) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.OrderItem{
			VendorID:     r.VendorID,
			RestaurantID: r.RestaurantID,
			MenuItemID:   r.MenuItemID,
			Name:         r.Name,
			Price:        r.Price,
			Quantity:     r.Quantity,
			TotalPrice:   r.TotalPrice,
			ImagePath:    r.ImgPath,
			AddOnNames:   r.AddOnNames,
		})
	}
	return items
}

func toOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			VendorID:     item.VendorID,
			RestaurantID: item.RestaurantID,
			MenuItemID:   item.MenuItemID,
			Name:         item.Name,
			Price:        item.Price,
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice,
			ImgPath:      item.ImagePath,
			AddOnNames:   item.AddOnNames,
		})
	}

	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		VendorID:    order.VendorID,
		Date:        order.Date.Format("2006-01-02"),
		PriceType:   string(order.PriceType),
		Status:      string(order.Status),
		Subtotal:    order.Subtotal,
		Taxes:       order.Taxes,
		Total:       order.Total,
		Items:       items,
		CreatedAt:   order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/orders
func PlaceOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if len(body.Cart) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sepet boş olamaz")
		}

		vendorID, err := resolveVendorIDFromBodyOrRole(c, body.VendorID)
		if err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		order, err := PlaceOrder(database.DB, PlaceOrderOptions{
			VendorID:  vendorID,
			Date:      d,
			PriceType: models.PriceType(body.PriceType),
			Subtotal:  body.Subtotal,
			Taxes:     body.Taxes,
			Total:     body.Total,
			Items:     toOrderItems(body.Cart),
		})
		if err != nil {
			if errors.Is(err, ErrOrderNumberConflict) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Audit log
		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    &vendorID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sipariş oluşturuldu: %s (%d satır, Toplam: %.2f TL)", order.OrderNumber, len(order.Items), order.Total),
				Before:      nil,
				After:       order,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
	}
}

// PUT /api/orders/:orderNumber/status
func SetStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderNumber := c.Params("orderNumber")

		var body SetStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status zorunlu")
		}

		var override *CartOverride
		if len(body.Cart) > 0 || body.Subtotal != nil || body.Taxes != nil || body.Total != nil || body.Date != nil {
			override = &CartOverride{
				Items:    toOrderItems(body.Cart),
				Subtotal: body.Subtotal,
				Taxes:    body.Taxes,
				Total:    body.Total,
			}
			if body.Date != nil {
				d, err := time.Parse("2006-01-02", *body.Date)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
				}
				override.Date = &d
			}
		}

		// Önceki durumu audit için sakla
		var before models.Order
		_ = database.DB.Where("order_number = ?", orderNumber).First(&before).Error

		order, skipped, err := SetStatus(database.DB, orderNumber, models.OrderStatus(body.Status), override)
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			case errors.Is(err, ErrInvalidTransition):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, inventory.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusConflict, "Yetersiz stok: sipariş onaylanamadı")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş durumu güncellenemedi")
			}
		}

		// Audit log
		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			desc := fmt.Sprintf("Sipariş durumu: %s -> %s (%s)", before.Status, order.Status, order.OrderNumber)
			if skipped > 0 {
				desc = fmt.Sprintf("%s - %d ürün stokta bulunamadı, atlandı", desc, skipped)
			}
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    &order.VendorID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionStatus,
				Description: desc,
				Before:      before,
				After:       order,
			})
		}

		resp := fiber.Map{
			"order": toOrderResponse(order),
		}
		if skipped > 0 {
			resp["unmatched_items"] = skipped
		}

		return c.JSON(resp)
	}
}

// GET /api/orders/search?q=abc
func SearchOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q parametresi zorunlu")
		}

		results, err := Search(database.DB, query)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş araması başarısız")
		}

		resp := make([]OrderResponse, 0, len(results))
		for i := range results {
			resp = append(resp, toOrderResponse(&results[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := resolveVendorIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		results, err := ListByVendor(database.DB, vendorID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(results))
		for i := range results {
			resp = append(resp, toOrderResponse(&results[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/orders/:orderNumber
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderNumber := c.Params("orderNumber")

		var order models.Order
		if err := database.DB.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toOrderResponse(&order))
	}
}
