package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RestaurantResponse struct {
	ID        uint   `json:"id"`
	VendorID  uint   `json:"vendor_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateRestaurantRequest struct {
	VendorID uint    `json:"vendor_id"` // Super admin için zorunlu
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Phone    *string `json:"phone"` // Opsiyonel
}

type UpdateRestaurantRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func toRestaurantResponse(r *models.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:        r.ID,
		VendorID:  r.VendorID,
		Name:      r.Name,
		Address:   r.Address,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// getUserInfo: Audit log için kullanıcı bilgisi
func getUserInfo(c *fiber.Ctx) (uint, string) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, ""
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}

// resolveVendorID: Vendor admin kendi vendor'ını kullanır, super admin
// body/query'den vendor_id vermek zorundadır.
func resolveVendorID(c *fiber.Ctx, requested uint) (uint, error) {
	vVal := c.Locals(auth.CtxVendorIDKey)
	if vPtr, ok := vVal.(*uint); ok && vPtr != nil {
		return *vPtr, nil
	}

	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if ok && role == models.RoleSuperAdmin {
		if requested != 0 {
			return requested, nil
		}
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

// findRestaurantScoped: Restoranı getirir ve vendor kapsamını doğrular.
func findRestaurantScoped(c *fiber.Ctx, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
	}

	vVal := c.Locals(auth.CtxVendorIDKey)
	if vPtr, ok := vVal.(*uint); ok && vPtr != nil && *vPtr != restaurant.VendorID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bu restorana erişim yetkiniz yok")
	}

	return &restaurant, nil
}

// ----------------------------------------
// RESTORAN CRUD
// ----------------------------------------

func CreateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		vendorID, err := resolveVendorID(c, body.VendorID)
		if err != nil {
			return err
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Restoran adı boş olamaz")
		}

		// Vendor kontrolü
		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", vendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor bulunamadı")
		}

		restaurant := models.Restaurant{
			VendorID: vendorID,
			Name:     body.Name,
			Address:  body.Address,
		}
		if body.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran oluşturulamadı")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    &vendorID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Restoran oluşturuldu: %s", restaurant.Name),
			Before:      nil,
			After:       restaurant,
		})

		return c.Status(fiber.StatusCreated).JSON(toRestaurantResponse(&restaurant))
	}
}

func ListRestaurantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := resolveVendorID(c, 0)
		if err != nil {
			return err
		}

		var restaurants []models.Restaurant
		if err := database.DB.Where("vendor_id = ?", vendorID).Order("name ASC").Find(&restaurants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoranlar listelenemedi")
		}

		res := make([]RestaurantResponse, 0, len(restaurants))
		for i := range restaurants {
			res = append(res, toRestaurantResponse(&restaurants[i]))
		}

		return c.JSON(res)
	}
}

func GetRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, err := findRestaurantScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		return c.JSON(toRestaurantResponse(restaurant))
	}
}

func UpdateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, err := findRestaurantScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		before := *restaurant

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Restoran adı boş olamaz")
			}
			restaurant.Name = name
		}

		if body.Address != nil {
			restaurant.Address = *body.Address
		}

		if body.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran güncellenemedi")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    &restaurant.VendorID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Restoran güncellendi: %s", restaurant.Name),
			Before:      before,
			After:       restaurant,
		})

		return c.JSON(toRestaurantResponse(restaurant))
	}
}

func DeleteRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, err := findRestaurantScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		// Menü ürünleri varsa silme
		var count int64
		if err := database.DB.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurant.ID).Count(&count).Error; err == nil && count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Restorana bağlı menü ürünleri var, önce onları silin")
		}

		before := *restaurant

		if err := database.DB.Delete(&models.Restaurant{}, "id = ?", restaurant.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran silinemedi")
		}

		userID, userName := getUserInfo(c)
		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    &restaurant.VendorID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Restoran silindi: %s", before.Name),
			Before:      before,
			After:       nil,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
