package handler

import (
	"go-parts-inventory/internal/middleware"
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Parts     *PartHandler
	Inventory *InventoryHandler
	Records   *RecordHandler
	Users     *UserHandler
	Assets    *AssetHandler
	Dashboard *DashboardHandler
}

// SetupRoutes mounts the API under /api/v1.
func SetupRoutes(app *fiber.App, h Handlers, auth middleware.Authenticator) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(auth))
	stockKeepers := middleware.RequireRole(model.RoleAdmin, model.RoleInventory)
	admins := middleware.RequireRole(model.RoleAdmin)

	protected.Get("/auth/me", h.Auth.Me)
	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)

	// Catalog. Static paths go before /parts/:id.
	protected.Get("/parts", h.Parts.GetParts)
	protected.Get("/parts/search", h.Parts.Search)
	protected.Get("/parts/distinct", h.Parts.Distinct)
	protected.Get("/parts/:id", h.Parts.GetPart)
	protected.Post("/parts/add", stockKeepers, h.Inventory.AddToInventory)
	protected.Post("/parts", stockKeepers, h.Parts.CreatePart)
	protected.Put("/parts/:id", stockKeepers, h.Parts.UpdatePart)
	protected.Delete("/parts/:nxid", stockKeepers, h.Parts.DeletePart)

	// Chain transitions
	protected.Post("/checkout", h.Inventory.Checkout)
	protected.Post("/checkin", h.Inventory.Checkin)
	protected.Get("/inventory", h.Parts.UserInventory)

	protected.Get("/part-records", h.Records.GetCurrent)
	protected.Get("/part-records/distinct", h.Records.Distinct)
	protected.Get("/part-records/:id/history", h.Records.History)
	protected.Post("/part-records/move", stockKeepers, h.Inventory.MoveRecords)

	protected.Get("/users", h.Users.GetUsers)
	protected.Get("/users/:id", h.Users.GetUser)
	protected.Post("/users", admins, h.Users.CreateUser)
	protected.Put("/users/:id", admins, h.Users.UpdateUser)

	protected.Get("/assets", h.Assets.GetAssets)
	protected.Get("/assets/:tag", h.Assets.GetAsset)
	protected.Post("/assets", stockKeepers, h.Assets.CreateAsset)
}

// SetupWebSocket streams hub events on /ws.
func SetupWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Join(c) {
			return
		}
		defer hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
