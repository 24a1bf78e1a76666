package directory

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты каталога
func (s *DirectoryService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService, s.ledger)

	profile := app.Group("/api/profile", auth)
	profile.Get("/", s.GetProfile)
	profile.Put("/", s.UpdateProfile)

	users := app.Group("/api/users", auth)
	users.Get("/", s.BrowseUsers)
	users.Get("/:id", s.GetUser)

	messages := app.Group("/api/messages", auth)
	messages.Get("/", s.GetMessages)
}
