package media

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты загрузки фото
func (s *MediaService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService, s.ledger)

	// Маршрут для получения параметров загрузки
	upload := app.Group("/api/upload", auth)
	upload.Get("/params", s.GenerateUploadParams)

	photo := app.Group("/api/profile/photo", auth)
	photo.Put("/", s.SetProfilePhoto)
}
