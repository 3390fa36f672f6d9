package production

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
)

type CreateProductionRequest struct {
	Date           string         `json:"date"` // "2025-12-09"
	ProductionCode string         `json:"production_code"`
	Batch          string         `json:"batch"`
	RestaurantID   uint           `json:"restaurant_id"`
	Quantities     map[string]int `json:"quantities"` // menuItemID (string) -> adet
	VendorID       *uint          `json:"vendor_id"`  // super_admin için
}

type ProductionItemResponse struct {
	MenuItemID   uint   `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"` // Kayıt anındaki ad
	Quantity     int    `json:"quantity"`
}

type ProductionResponse struct {
	ID             uint                     `json:"id"`
	Date           string                   `json:"date"`
	ProductionCode string                   `json:"production_code"`
	Batch          string                   `json:"batch"`
	VendorID       uint                     `json:"vendor_id"`
	RestaurantID   uint                     `json:"restaurant_id"`
	Items          []ProductionItemResponse `json:"items"`
	CreatedAt      string                   `json:"created_at"`
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

// POST /api/production-entries
func CreateProductionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductionCode == "" || body.Batch == "" {
			return fiber.NewError(fiber.StatusBadRequest, "production_code ve batch zorunlu")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id zorunlu")
		}
		if len(body.Quantities) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir ürün miktarı girilmelidir")
		}

		vendorID, err := resolveVendorIDFromBodyOrRole(c, body.VendorID)
		if err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		// Restoran kontrolü: var mı ve bu vendor'a mı ait?
		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", body.RestaurantID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Restoran bulunamadı (ID: %d)", body.RestaurantID))
		}
		if restaurant.VendorID != vendorID {
			return fiber.NewError(fiber.StatusForbidden, "Bu restoran sizin firmanıza ait değil")
		}

		// String key'li quantities'i uint'e çevir
		quantities := make(map[uint]int, len(body.Quantities))
		for idStr, qty := range body.Quantities {
			itemID, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil || itemID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Geçersiz menü ürünü ID: %s", idStr))
			}
			if qty <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Üretim miktarları 0'dan büyük olmalı")
			}
			quantities[uint(itemID)] = qty
		}

		entry, err := Record(database.DB, RecordOptions{
			Date:           d,
			ProductionCode: body.ProductionCode,
			Batch:          body.Batch,
			VendorID:       vendorID,
			RestaurantID:   body.RestaurantID,
			Quantities:     quantities,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrDuplicateProductionCode), errors.Is(err, ErrDuplicateBatch):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.Is(err, ErrMenuItemNotFound):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Üretim kaydı oluşturulamadı")
			}
		}

		// Audit log
		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    &vendorID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "production_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Üretim kaydı: %s / %s - %d ürün", entry.ProductionCode, entry.Batch, len(entry.Items)),
				Before:      nil,
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toProductionResponse(entry))
	}
}

// GET /api/production-entries?restaurant_id=1
func ListProductionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := resolveVendorIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Preload("Items").
			Where("vendor_id = ?", vendorID)

		if restaurantIDStr := c.Query("restaurant_id"); restaurantIDStr != "" {
			restaurantID, err := strconv.ParseUint(restaurantIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz restaurant_id")
			}
			dbq = dbq.Where("restaurant_id = ?", restaurantID)
		}

		var entries []models.ProductionEntry
		if err := dbq.Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim kayıtları listelenemedi")
		}

		resp := make([]ProductionResponse, 0, len(entries))
		for i := range entries {
			resp = append(resp, toProductionResponse(&entries[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/production-entries/:id
func GetProductionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.ProductionEntry
		if err := database.DB.Preload("Items").First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim kaydı bulunamadı")
		}

		return c.JSON(toProductionResponse(&entry))
	}
}

func toProductionResponse(entry *models.ProductionEntry) ProductionResponse {
	items := make([]ProductionItemResponse, 0, len(entry.Items))
	for _, item := range entry.Items {
		items = append(items, ProductionItemResponse{
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
		})
	}

	return ProductionResponse{
		ID:             entry.ID,
		Date:           entry.Date.Format("2006-01-02"),
		ProductionCode: entry.ProductionCode,
		Batch:          entry.Batch,
		VendorID:       entry.VendorID,
		RestaurantID:   entry.RestaurantID,
		Items:          items,
		CreatedAt:      entry.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
