package main

import (
	"log"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/cart"
	"dagitim-backend/internal/catalog"
	"dagitim-backend/internal/config"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/orders"
	"dagitim-backend/internal/production"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Vendor yönetimi
	adminRoutes.Post("/vendors", catalog.CreateVendorHandler())
	adminRoutes.Get("/vendors", catalog.ListVendorsHandler())
	adminRoutes.Get("/vendors/:id", catalog.GetVendorHandler())
	adminRoutes.Put("/vendors/:id", catalog.UpdateVendorHandler())
	adminRoutes.Delete("/vendors/:id", catalog.DeleteVendorHandler())
	adminRoutes.Post("/vendors/:id/admin", catalog.CreateVendorAdminHandler())
	adminRoutes.Get("/vendors/:id/admins", catalog.ListVendorAdminsHandler())

	// Ortak (auth gerektiren) route'lar

	// Restoran yönetimi
	protected.Post("/restaurants", catalog.CreateRestaurantHandler())
	protected.Get("/restaurants", catalog.ListRestaurantsHandler())
	protected.Get("/restaurants/:id", catalog.GetRestaurantHandler())
	protected.Put("/restaurants/:id", catalog.UpdateRestaurantHandler())
	protected.Delete("/restaurants/:id", catalog.DeleteRestaurantHandler())

	// Menü yönetimi
	protected.Post("/menu-items", catalog.CreateMenuItemHandler())
	protected.Get("/restaurants/:id/menu-items", catalog.ListMenuItemsHandler())
	protected.Post("/restaurants/:id/menu-items/import", catalog.ImportMenuItemsHandler(cfg))
	protected.Get("/menu-items/:id", catalog.GetMenuItemHandler())
	protected.Put("/menu-items/:id", catalog.UpdateMenuItemHandler())
	protected.Delete("/menu-items/:id", catalog.DeleteMenuItemHandler())
	protected.Post("/menu-items/:id/add-ons", catalog.CreateMenuAddOnHandler())
	protected.Delete("/menu-items/:id/add-ons/:addOnId", catalog.DeleteMenuAddOnHandler())

	// Stok
	protected.Get("/inventory", inventory.ListInventoryHandler())
	protected.Get("/inventory/:restaurantId", inventory.GetInventoryHandler())

	// Üretim kayıtları
	protected.Post("/production-entries", production.CreateProductionHandler())
	protected.Get("/production-entries", production.ListProductionHandler())
	protected.Get("/production-entries/:id", production.GetProductionHandler())

	// Siparişler
	protected.Post("/orders", orders.PlaceOrderHandler())
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/search", orders.SearchOrdersHandler())
	protected.Get("/orders/:orderNumber", orders.GetOrderHandler())
	protected.Put("/orders/:orderNumber/status", orders.SetStatusHandler())

	// Sepet
	protected.Get("/cart", cart.GetCartHandler())
	protected.Post("/cart/items", cart.AddItemHandler())
	protected.Delete("/cart/items/:lineId", cart.RemoveItemHandler())
	protected.Delete("/cart", cart.ClearCartHandler())
	protected.Post("/cart/switch-vendor", cart.SwitchVendorHandler())
	protected.Post("/cart/switch-price-type", cart.SwitchPriceTypeHandler())
	protected.Post("/cart/checkout", cart.CheckoutHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
