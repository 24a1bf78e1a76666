package admin

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты администратора
func (s *AdminService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/admin", middleware.AuthMiddleware(s.jwtService, s.ledger), middleware.AdminOnly())

	api.Get("/stats", s.GetStats)
	api.Get("/skills", s.GetSkills)

	api.Get("/users", s.GetUsers)
	api.Post("/users/:id/ban", s.BanUser)
	api.Post("/users/:id/unban", s.UnbanUser)

	api.Get("/swaps", s.GetSwaps)
	api.Delete("/swaps/:id", s.DeleteSwap)

	api.Get("/messages", s.GetMessages)
	api.Post("/messages", s.BroadcastMessage)
	api.Delete("/messages/:id", s.DeactivateMessage)

	api.Get("/reports/:collection", s.DownloadReport)
}
