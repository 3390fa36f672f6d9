package catalog

import (
	"fmt"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MenuAddOnResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuItemResponse struct {
	ID            uint                `json:"id"`
	RestaurantID  uint                `json:"restaurant_id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	SalePrice     float64             `json:"sale_price"`
	PurchasePrice float64             `json:"purchase_price"`
	StockCode     string              `json:"stock_code"`
	ImgPath       string              `json:"img_path"`
	AddOns        []MenuAddOnResponse `json:"add_ons"`
	CreatedAt     string              `json:"created_at"`
}

type MenuAddOnRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CreateMenuItemRequest struct {
	RestaurantID  uint               `json:"restaurant_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	SalePrice     float64            `json:"sale_price"`
	PurchasePrice float64            `json:"purchase_price"`
	StockCode     string             `json:"stock_code"`
	ImgPath       string             `json:"img_path"`
	AddOns        []MenuAddOnRequest `json:"add_ons"`
}

type UpdateMenuItemRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	SalePrice     *float64 `json:"sale_price"`
	PurchasePrice *float64 `json:"purchase_price"`
	StockCode     *string  `json:"stock_code"`
	ImgPath       *string  `json:"img_path"`
}

func toMenuItemResponse(item *models.MenuItem) MenuItemResponse {
	addOns := make([]MenuAddOnResponse, 0, len(item.AddOns))
	for _, a := range item.AddOns {
		addOns = append(addOns, MenuAddOnResponse{
			ID:    a.ID,
			Name:  a.Name,
			Price: a.Price,
		})
	}

	return MenuItemResponse{
		ID:            item.ID,
		RestaurantID:  item.RestaurantID,
		Name:          item.Name,
		Description:   item.Description,
		SalePrice:     item.SalePrice,
		PurchasePrice: item.PurchasePrice,
		StockCode:     item.StockCode,
		ImgPath:       item.ImagePath,
		AddOns:        addOns,
		CreatedAt:     item.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// findMenuItemScoped: Ürünü getirir ve restoranı üzerinden vendor kapsamını doğrular.
func findMenuItemScoped(c *fiber.Ctx, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := database.DB.Preload("AddOns").Preload("Restaurant").First(&item, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Menü ürünü bulunamadı")
	}

	if _, err := findRestaurantScoped(c, fmt.Sprintf("%d", item.RestaurantID)); err != nil {
		return nil, err
	}

	return &item, nil
}

// ----------------------------------------
// MENÜ ÜRÜNÜ CRUD
// ----------------------------------------

// POST /api/menu-items
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
		}
		if body.RestaurantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id zorunlu")
		}
		if body.SalePrice < 0 || body.PurchasePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}

		restaurant, err := findRestaurantScoped(c, fmt.Sprintf("%d", body.RestaurantID))
		if err != nil {
			return err
		}

		item := models.MenuItem{
			RestaurantID:  restaurant.ID,
			Name:          body.Name,
			Description:   body.Description,
			SalePrice:     body.SalePrice,
			PurchasePrice: body.PurchasePrice,
			StockCode:     strings.TrimSpace(body.StockCode),
			ImagePath:     body.ImgPath,
		}
		for _, a := range body.AddOns {
			name := strings.TrimSpace(a.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ekstra adı boş olamaz")
			}
			item.AddOns = append(item.AddOns, models.MenuAddOn{
				Name:  name,
				Price: a.Price,
			})
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünü oluşturulamadı")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    &restaurant.VendorID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "menu_item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Menü ürünü oluşturuldu: %s", item.Name),
			Before:      nil,
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(toMenuItemResponse(&item))
	}
}

// GET /api/restaurants/:id/menu-items
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, err := findRestaurantScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		var items []models.MenuItem
		if err := database.DB.Preload("AddOns").
			Where("restaurant_id = ?", restaurant.ID).
			Order("name ASC").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünleri listelenemedi")
		}

		res := make([]MenuItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toMenuItemResponse(&items[i]))
		}

		return c.JSON(res)
	}
}

// GET /api/menu-items/:id
func GetMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := findMenuItemScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		return c.JSON(toMenuItemResponse(item))
	}
}

// PUT /api/menu-items/:id
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := findMenuItemScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		before := *item

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			item.Name = name
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.SalePrice != nil {
			if *body.SalePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			item.SalePrice = *body.SalePrice
		}
		if body.PurchasePrice != nil {
			if *body.PurchasePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			item.PurchasePrice = *body.PurchasePrice
		}
		if body.StockCode != nil {
			item.StockCode = strings.TrimSpace(*body.StockCode)
		}
		if body.ImgPath != nil {
			item.ImagePath = *body.ImgPath
		}

		if err := database.DB.Save(item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünü güncellenemedi")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    &item.Restaurant.VendorID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "menu_item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Menü ürünü güncellendi: %s", item.Name),
			Before:      before,
			After:       item,
		})

		return c.JSON(toMenuItemResponse(item))
	}
}

// DELETE /api/menu-items/:id
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := findMenuItemScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		before := *item

		if err := database.DB.Delete(&models.MenuItem{}, "id = ?", item.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünü silinemedi")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    &item.Restaurant.VendorID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "menu_item",
			EntityID:    item.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Menü ürünü silindi: %s", before.Name),
			Before:      before,
			After:       nil,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// EKSTRA (ADD-ON) YÖNETİMİ
// ----------------------------------------

// POST /api/menu-items/:id/add-ons
func CreateMenuAddOnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := findMenuItemScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		var body MenuAddOnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ekstra adı boş olamaz")
		}

		addOn := models.MenuAddOn{
			MenuItemID: item.ID,
			Name:       body.Name,
			Price:      body.Price,
		}

		if err := database.DB.Create(&addOn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ekstra oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(MenuAddOnResponse{
			ID:    addOn.ID,
			Name:  addOn.Name,
			Price: addOn.Price,
		})
	}
}

// DELETE /api/menu-items/:id/add-ons/:addOnId
func DeleteMenuAddOnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := findMenuItemScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		res := database.DB.Where("menu_item_id = ? AND id = ?", item.ID, c.Params("addOnId")).Delete(&models.MenuAddOn{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ekstra silinemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Ekstra bulunamadı")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
