package inventory

import (
	"errors"
	"strconv"

	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StockLineResponse struct {
	MenuItemID   uint   `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	InStock      int    `json:"in_stock"`
}

type InventoryResponse struct {
	VendorID     uint                `json:"vendor_id"`
	RestaurantID uint                `json:"restaurant_id"`
	Stock        []StockLineResponse `json:"stock"`
	UpdatedAt    string              `json:"updated_at"`
}

// Yardımcı: Vendor ID'yi role göre çöz (vendor_admin kendi vendor'ı, super_admin query'den)
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

// GET /api/inventory/:restaurantId
// Restoranın güncel stok satırlarını döndürür
func GetInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantIDStr := c.Params("restaurantId")
		restaurantID, err := strconv.ParseUint(restaurantIDStr, 10, 32)
		if err != nil || restaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz restoran ID")
		}

		record, err := Read(database.DB, uint(restaurantID))
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Bu restoran için stok kaydı bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı okunamadı")
		}

		// Ürün adlarını tek sorguda çek
		itemIDs := make([]uint, 0, len(record.Lines))
		for _, line := range record.Lines {
			itemIDs = append(itemIDs, line.MenuItemID)
		}

		nameByID := make(map[uint]string, len(itemIDs))
		if len(itemIDs) > 0 {
			var items []models.MenuItem
			if err := database.DB.Where("id IN ?", itemIDs).Find(&items).Error; err == nil {
				for _, item := range items {
					nameByID[item.ID] = item.Name
				}
			}
		}

		stock := make([]StockLineResponse, 0, len(record.Lines))
		for _, line := range record.Lines {
			stock = append(stock, StockLineResponse{
				MenuItemID:   line.MenuItemID,
				MenuItemName: nameByID[line.MenuItemID],
				InStock:      line.InStock,
			})
		}

		return c.JSON(InventoryResponse{
			VendorID:     record.VendorID,
			RestaurantID: record.RestaurantID,
			Stock:        stock,
			UpdatedAt:    record.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/inventory
// Vendor'ın tüm restoranlarının stok kayıtlarını listeler
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := resolveVendorIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var records []models.InventoryRecord
		if err := database.DB.
			Preload("Lines").
			Where("vendor_id = ?", vendorID).
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kayıtları listelenemedi")
		}

		resp := make([]InventoryResponse, 0, len(records))
		for _, record := range records {
			stock := make([]StockLineResponse, 0, len(record.Lines))
			for _, line := range record.Lines {
				stock = append(stock, StockLineResponse{
					MenuItemID: line.MenuItemID,
					InStock:    line.InStock,
				})
			}
			resp = append(resp, InventoryResponse{
				VendorID:     record.VendorID,
				RestaurantID: record.RestaurantID,
				Stock:        stock,
				UpdatedAt:    record.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
