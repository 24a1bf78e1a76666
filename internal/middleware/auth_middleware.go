package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// Роли пользователей в токене
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BanChecker сообщает о блокировке пользователя
type BanChecker interface {
	IsBanned(userID string) bool
}

// AuthMiddleware создаёт middleware для проверки JWT.
// Токен заблокированного пользователя отклоняется, даже если он выдан до блокировки.
func AuthMiddleware(jwtService *utils.JWTService, bans BanChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Отсутствует заголовок авторизации",
			})
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Неверный формат заголовка авторизации",
			})
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Недействительный или просроченный токен",
			})
		}

		if bans.IsBanned(claims.UserID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Пользователь заблокирован",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// AdminOnly пропускает только токены с ролью admin.
// Ставится после AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c fiber.Ctx) error {
		if Role(c) != RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Требуются права администратора",
			})
		}
		return c.Next()
	}
}

// UserID возвращает ID пользователя, положенный AuthMiddleware
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// Role возвращает роль из токена
func Role(c fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
