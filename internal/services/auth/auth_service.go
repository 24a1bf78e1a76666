package auth

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/metrics"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// Credentials проверяет и сохраняет пароли
type Credentials interface {
	Verifier
	Add(email, password, role, userID string) error
}

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	ledger     *ledger.Ledger
	creds      Credentials
	jwtService *utils.JWTService
	metrics    *metrics.Metrics
	log        *zap.Logger
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, l *ledger.Ledger, creds Credentials, jwtService *utils.JWTService, m *metrics.Metrics, log *zap.Logger) *AuthService {
	return &AuthService{
		cfg:        cfg,
		ledger:     l,
		creds:      creds,
		jwtService: jwtService,
		metrics:    m,
		log:        log.Named("auth"),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginHandler проверяет email и пароль и выдаёт JWT
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать email и пароль"})
	}

	res, err := s.creds.Verify(c.Context(), req.Email, req.Password)
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("password", "failure").Inc()
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
		}
		s.log.Error("Ошибка проверки учётных данных", zap.Error(err))
		return utils.ErrorResponse(c, err)
	}

	user, err := s.ledger.GetUser(res.UserID)
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("password", "failure").Inc()
		s.log.Warn("Учётная запись без пользователя", zap.String("user_id", res.UserID))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}
	if user.IsBanned {
		s.metrics.LoginAttempts.WithLabelValues("password", "banned").Inc()
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Аккаунт заблокирован"})
	}

	s.metrics.LoginAttempts.WithLabelValues("password", "success").Inc()
	return s.respondWithToken(c, fiber.StatusOK, user, res.Role)
}

// RegisterHandler создаёт пользователя и учётную запись
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректные данные регистрации"})
	}

	user, err := s.ledger.RegisterUser(ledger.NewUser{Name: req.Name, Email: req.Email})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	if err := s.creds.Add(req.Email, req.Password, middleware.RoleUser, user.ID); err != nil {
		s.log.Error("Ошибка сохранения учётной записи", zap.String("user_id", user.ID), zap.Error(err))
		// Без учётной записи пользователь не сможет войти, а email останется занят
		if derr := s.ledger.DiscardUser(user.ID); derr != nil {
			s.log.Error("Не удалось отменить регистрацию", zap.String("user_id", user.ID), zap.Error(derr))
		}
		return utils.ErrorResponse(c, err)
	}

	return s.respondWithToken(c, fiber.StatusCreated, user, middleware.RoleUser)
}

// TelegramAuthHandler проверяет initData, находит или создаёт пользователя и возвращает JWT
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	if !s.cfg.TelegramEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Вход через Telegram не настроен"})
	}

	var payload struct {
		InitData string `json:"init_data" validate:"required"`
	}
	if err := c.Bind().Body(&payload); err != nil || utils.ValidateStruct(payload) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Проверяем initData
	if err := initdata.Validate(payload.InitData, s.cfg.Telegram.BotToken, s.cfg.Telegram.InitDataTTL); err != nil {
		s.metrics.LoginAttempts.WithLabelValues("telegram", "failure").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Telegram data"})
	}

	// Парсим данные
	data, err := initdata.Parse(payload.InitData)
	if err != nil || data.User.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse initData"})
	}

	user, err := s.ledger.FindUserByTelegramID(data.User.ID)
	if errors.Is(err, ledger.ErrUserNotFound) {
		user, err = s.ledger.RegisterUser(ledger.NewUser{
			Name:       telegramName(data.User),
			TelegramID: data.User.ID,
		})
		if err == nil && data.User.PhotoURL != "" {
			user, err = s.ledger.SetProfilePhoto(user.ID, data.User.PhotoURL)
		}
	}
	if err != nil {
		s.log.Error("Ошибка входа через Telegram", zap.Int64("telegram_id", data.User.ID), zap.Error(err))
		return utils.ErrorResponse(c, err)
	}
	if user.IsBanned {
		s.metrics.LoginAttempts.WithLabelValues("telegram", "banned").Inc()
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Аккаунт заблокирован"})
	}

	s.metrics.LoginAttempts.WithLabelValues("telegram", "success").Inc()
	return s.respondWithToken(c, fiber.StatusOK, user, middleware.RoleUser)
}

func (s *AuthService) respondWithToken(c fiber.Ctx, status int, user models.User, role string) error {
	token, err := s.jwtService.GenerateToken(user.ID, role)
	if err != nil {
		s.log.Error("Ошибка генерации JWT", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"role":  role,
		"user":  user,
	})
}

func telegramName(u initdata.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = "Telegram user"
	}
	return name
}
