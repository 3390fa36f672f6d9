package cart

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AddItemRequest struct {
	VendorID   uint     `json:"vendor_id"`
	PriceType  string   `json:"price_type"`
	MenuItemID uint     `json:"menu_item_id"`
	Quantity   int      `json:"quantity"`
	AddOns     []string `json:"add_ons"`
}

type SwitchRequest struct {
	VendorID  uint   `json:"vendor_id"`
	PriceType string `json:"price_type"`
}

type CheckoutRequest struct {
	VendorID  uint    `json:"vendor_id"`
	PriceType string  `json:"price_type"`
	Date      string  `json:"date"` // "2025-12-09"
	Taxes     float64 `json:"taxes"`
}

type CartLineResponse struct {
	ID         uint    `json:"id"`
	LineKey    string  `json:"line_key"`
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	AddOnNames string  `json:"add_on_names"`
	TotalPrice float64 `json:"total_price"`
	ImgPath    string  `json:"img_path"`
}

type CartResponse struct {
	Token     string             `json:"token"`
	VendorID  uint               `json:"vendor_id"`
	PriceType string             `json:"price_type"`
	Lines     []CartLineResponse `json:"lines"`
	Subtotal  float64            `json:"subtotal"`
}

func getUserID(c *fiber.Ctx) (uint, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return userID, nil
}

func cartScopeFromQuery(c *fiber.Ctx) (uint, models.PriceType, error) {
	vendorIDStr := c.Query("vendor_id")
	vendorID, err := strconv.ParseUint(vendorIDStr, 10, 32)
	if err != nil || vendorID == 0 {
		return 0, "", fiber.NewError(fiber.StatusBadRequest, "vendor_id zorunlu")
	}

	priceType := models.PriceType(c.Query("price_type", string(models.PriceTypeSale)))
	if priceType != models.PriceTypeSale && priceType != models.PriceTypePurchase {
		return 0, "", fiber.NewError(fiber.StatusBadRequest, "price_type 'sale' veya 'purchase' olmalı")
	}

	return uint(vendorID), priceType, nil
}

func toCartResponse(session *models.CartSession) CartResponse {
	lines := make([]CartLineResponse, 0, len(session.Lines))
	for _, line := range session.Lines {
		lines = append(lines, CartLineResponse{
			ID:         line.ID,
			LineKey:    line.LineKey,
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			AddOnNames: line.AddOnNames,
			TotalPrice: line.TotalPrice,
			ImgPath:    line.ImagePath,
		})
	}

	return CartResponse{
		Token:     session.Token,
		VendorID:  session.VendorID,
		PriceType: string(session.PriceType),
		Lines:     lines,
		Subtotal:  Subtotal(session.Lines),
	}
}

// GET /api/cart?vendor_id=1&price_type=sale
func GetCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		vendorID, priceType, err := cartScopeFromQuery(c)
		if err != nil {
			return err
		}

		session, err := LoadOrCreate(database.DB, userID, vendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		return c.JSON(toCartResponse(session))
	}
}

// POST /api/cart/items
func AddItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.VendorID == 0 || body.MenuItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id ve menu_item_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalı")
		}

		priceType := models.PriceType(body.PriceType)
		if priceType != models.PriceTypeSale && priceType != models.PriceTypePurchase {
			return fiber.NewError(fiber.StatusBadRequest, "price_type 'sale' veya 'purchase' olmalı")
		}

		// Ürün kontrolü: var mı ve bu vendor'ın bir restoranına mı ait?
		var item models.MenuItem
		if err := database.DB.Preload("AddOns").Preload("Restaurant").First(&item, "id = ?", body.MenuItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menü ürünü bulunamadı")
		}
		if item.Restaurant.VendorID != body.VendorID {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bu vendor'a ait değil")
		}

		session, err := LoadOrCreate(database.DB, userID, body.VendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		if _, err := AddItem(database.DB, session, &item, priceType, body.Quantity, body.AddOns); err != nil {
			switch {
			case errors.Is(err, ErrPriceTypeConflict):
				return fiber.NewError(fiber.StatusConflict, "Sepette farklı fiyat tipinde ürünler var")
			case errors.Is(err, ErrAddOnNotFound):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün sepete eklenemedi")
			}
		}

		// Güncel sepeti döndür
		session, err = LoadOrCreate(database.DB, userID, body.VendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		return c.JSON(toCartResponse(session))
	}
}

// DELETE /api/cart/items/:lineId?vendor_id=1&price_type=sale
func RemoveItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		vendorID, priceType, err := cartScopeFromQuery(c)
		if err != nil {
			return err
		}

		lineIDStr := c.Params("lineId")
		lineID, err := strconv.ParseUint(lineIDStr, 10, 32)
		if err != nil || lineID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satır ID")
		}

		session, err := LoadOrCreate(database.DB, userID, vendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		if err := RemoveLine(database.DB, session.ID, uint(lineID)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sepet satırı bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet satırı silinemedi")
		}

		session, err = LoadOrCreate(database.DB, userID, vendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		return c.JSON(toCartResponse(session))
	}
}

// DELETE /api/cart?vendor_id=1&price_type=sale
func ClearCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		vendorID, priceType, err := cartScopeFromQuery(c)
		if err != nil {
			return err
		}

		session, err := LoadOrCreate(database.DB, userID, vendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		if err := Clear(database.DB, session.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet temizlenemedi")
		}

		return c.JSON(fiber.Map{
			"message": "Sepet temizlendi",
		})
	}
}

// POST /api/cart/switch-vendor
// Farklı bir vendor'ın kayıtlı sepetini yükler (yoksa boş oluşturur)
func SwitchVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		var body SwitchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.VendorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id zorunlu")
		}

		// Vendor kontrolü
		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", body.VendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor bulunamadı")
		}

		priceType := models.PriceType(body.PriceType)
		if priceType == "" {
			priceType = models.PriceTypeSale
		}
		if priceType != models.PriceTypeSale && priceType != models.PriceTypePurchase {
			return fiber.NewError(fiber.StatusBadRequest, "price_type 'sale' veya 'purchase' olmalı")
		}

		session, err := LoadOrCreate(database.DB, userID, body.VendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		return c.JSON(toCartResponse(session))
	}
}

// POST /api/cart/switch-price-type
// Aynı vendor için diğer fiyat tipinin sepetini yükler
func SwitchPriceTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		var body SwitchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.VendorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id zorunlu")
		}

		priceType := models.PriceType(body.PriceType)
		if priceType != models.PriceTypeSale && priceType != models.PriceTypePurchase {
			return fiber.NewError(fiber.StatusBadRequest, "price_type 'sale' veya 'purchase' olmalı")
		}

		session, err := LoadOrCreate(database.DB, userID, body.VendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		return c.JSON(toCartResponse(session))
	}
}

// POST /api/cart/checkout
// Sepeti siparişe çevirir ve temizler (tek transaction)
func CheckoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := getUserID(c)
		if err != nil {
			return err
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.VendorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_id zorunlu")
		}
		if body.Taxes < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "taxes negatif olamaz")
		}

		priceType := models.PriceType(body.PriceType)
		if priceType != models.PriceTypeSale && priceType != models.PriceTypePurchase {
			return fiber.NewError(fiber.StatusBadRequest, "price_type 'sale' veya 'purchase' olmalı")
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			date = d
		}

		session, err := LoadOrCreate(database.DB, userID, body.VendorID, priceType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet yüklenemedi")
		}

		order, err := Checkout(database.DB, session, date, body.Taxes)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				return fiber.NewError(fiber.StatusBadRequest, "Sepet boş")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Audit log
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    &order.VendorID,
				UserID:      userID,
				UserName:    user.Name,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Checkout: %s (%d satır, Toplam: %.2f TL)", order.OrderNumber, len(order.Items), order.Total),
				Before:      nil,
				After:       order,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"total":        order.Total,
		})
	}
}
