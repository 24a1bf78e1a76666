package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/login", s.LoginHandler)
	api.Post("/register", s.RegisterHandler)
	api.Post("/telegram", s.TelegramAuthHandler)
}
