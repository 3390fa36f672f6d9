package catalog

import (
	"strings"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type VendorResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateVendorRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
}

type UpdateVendorRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
}

type CreateVendorAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VendorAdminResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	VendorID  *uint  `json:"vendor_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ----------------------------------------
// VENDOR CRUD
// ----------------------------------------

func CreateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Vendor adı boş olamaz")
		}

		vendor := models.Vendor{
			Name:    body.Name,
			Address: body.Address,
		}
		if body.Phone != nil {
			vendor.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vendor oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(VendorResponse{
			ID:        vendor.ID,
			Name:      vendor.Name,
			Address:   vendor.Address,
			Phone:     vendor.Phone,
			CreatedAt: vendor.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func ListVendorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		var vendors []models.Vendor
		if err := database.DB.Find(&vendors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vendorlar listelenemedi")
		}

		res := make([]VendorResponse, 0, len(vendors))
		for _, v := range vendors {
			res = append(res, VendorResponse{
				ID:        v.ID,
				Name:      v.Name,
				Address:   v.Address,
				Phone:     v.Phone,
				CreatedAt: v.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}

func GetVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor bulunamadı")
		}

		return c.JSON(VendorResponse{
			ID:        vendor.ID,
			Name:      vendor.Name,
			Address:   vendor.Address,
			Phone:     vendor.Phone,
			CreatedAt: vendor.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func UpdateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor bulunamadı")
		}

		var body UpdateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Vendor adı boş olamaz")
			}
			vendor.Name = name
		}

		if body.Address != nil {
			vendor.Address = *body.Address
		}

		if body.Phone != nil {
			vendor.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vendor güncellenemedi")
		}

		return c.JSON(VendorResponse{
			ID:        vendor.ID,
			Name:      vendor.Name,
			Address:   vendor.Address,
			Phone:     vendor.Phone,
			CreatedAt: vendor.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func DeleteVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		id := c.Params("id")

		// Bağlı restoran varsa silme
		var count int64
		if err := database.DB.Model(&models.Restaurant{}).Where("vendor_id = ?", id).Count(&count).Error; err == nil && count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Vendor'a bağlı restoranlar var, önce onları silin")
		}

		if err := database.DB.Delete(&models.Vendor{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vendor silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// VENDOR ADMİNİ OLUŞTURMA
// ----------------------------------------

func CreateVendorAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		vendorID := c.Params("id")

		// Vendor kontrolü
		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", vendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor bulunamadı")
		}

		var body CreateVendorAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		// Email kontrolü
		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kayıtlı")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleVendorAdmin,
			VendorID:     &vendor.ID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vendor admini oluşturulamadı")
		}

		// NOT: Şifre sadece oluşturma sırasında bir kez döndürülür
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"vendor_id": user.VendorID,
			"password":  body.Password, // Sadece oluşturma sırasında (bir kez)
		})
	}
}

// GET /api/admin/vendors/:id/admins
func ListVendorAdminsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID := c.Params("id")

		var users []models.User
		if err := database.DB.
			Where("vendor_id = ? AND role = ?", vendorID, models.RoleVendorAdmin).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adminler listelenemedi")
		}

		res := make([]VendorAdminResponse, 0, len(users))
		for _, u := range users {
			res = append(res, VendorAdminResponse{
				ID:        u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      string(u.Role),
				VendorID:  u.VendorID,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
				UpdatedAt: u.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
