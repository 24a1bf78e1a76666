package directory

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// DirectoryService отдаёт профили, поиск по каталогу и объявления
type DirectoryService struct {
	ledger     *ledger.Ledger
	jwtService *utils.JWTService
	log        *zap.Logger
}

// NewDirectoryService создаёт новый экземпляр DirectoryService
func NewDirectoryService(l *ledger.Ledger, jwtService *utils.JWTService, log *zap.Logger) *DirectoryService {
	return &DirectoryService{
		ledger:     l,
		jwtService: jwtService,
		log:        log.Named("directory"),
	}
}

// GetProfile возвращает профиль текущего пользователя
func (s *DirectoryService) GetProfile(c fiber.Ctx) error {
	user, err := s.ledger.GetUser(middleware.UserID(c))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile заменяет редактируемые поля профиля
func (s *DirectoryService) UpdateProfile(c fiber.Ctx) error {
	var upd models.ProfileUpdate
	if err := c.Bind().Body(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректные данные профиля"})
	}

	user, err := s.ledger.UpdateProfile(middleware.UserID(c), upd)
	if errors.Is(err, ledger.ErrInvalidAvailability) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Недопустимое значение availability",
			"allowed": models.AvailabilityOptions,
		})
	}
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// BrowseUsers ищет публичных пользователей по навыку, имени или городу
func (s *DirectoryService) BrowseUsers(c fiber.Ctx) error {
	users := s.ledger.Browse(middleware.UserID(c), c.Query("search"))
	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// GetUser возвращает профиль пользователя.
// Скрытые и заблокированные профили видны только владельцу и администратору.
func (s *DirectoryService) GetUser(c fiber.Ctx) error {
	id := c.Params("id")
	user, err := s.ledger.GetUser(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	visible := user.IsPublic && !user.IsBanned
	if !visible && id != middleware.UserID(c) && middleware.Role(c) != middleware.RoleAdmin {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetMessages возвращает активные объявления администратора
func (s *DirectoryService) GetMessages(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"messages": s.ledger.ActiveMessages()})
}
