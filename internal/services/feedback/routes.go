package feedback

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты отзывов
func (s *FeedbackService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/feedback", middleware.AuthMiddleware(s.jwtService, s.ledger))

	api.Post("/", s.SubmitFeedback)
	api.Get("/pending", s.GetPending)
	api.Get("/given", s.GetGiven)
	api.Get("/received", s.GetReceived)
}
