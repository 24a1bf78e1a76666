package swap

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *SwapService) SetupRoutes(app *fiber.App) {
	// Все маршруты требуют авторизации
	api := app.Group("/api/swaps", middleware.AuthMiddleware(s.jwtService, s.ledger))

	api.Post("/", s.CreateSwap)
	api.Get("/", s.GetMySwaps)
	api.Put("/:id/status", s.UpdateSwapStatus)
	api.Post("/:id/complete", s.CompleteSwap)
	api.Delete("/:id", s.DeleteSwap)
}
