package admin

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/metrics"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/report"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// AdminService - модерация, аналитика и выгрузки для администратора
type AdminService struct {
	ledger     *ledger.Ledger
	jwtService *utils.JWTService
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// NewAdminService создаёт новый экземпляр AdminService
func NewAdminService(l *ledger.Ledger, jwtService *utils.JWTService, m *metrics.Metrics, log *zap.Logger) *AdminService {
	return &AdminService{
		ledger:     l,
		jwtService: jwtService,
		metrics:    m,
		log:        log.Named("admin"),
		now:        time.Now,
	}
}

// GetStats возвращает сводку по платформе
func (s *AdminService) GetStats(c fiber.Ctx) error {
	return c.JSON(s.ledger.Stats())
}

// GetSkills возвращает аналитику навыков
func (s *AdminService) GetSkills(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"skills": s.ledger.SkillAnalytics()})
}

// GetUsers возвращает всех пользователей, включая скрытых и заблокированных
func (s *AdminService) GetUsers(c fiber.Ctx) error {
	users := s.ledger.ListUsers()
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// BanUser блокирует пользователя
func (s *AdminService) BanUser(c fiber.Ctx) error {
	id := c.Params("id")
	if id == middleware.UserID(c) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя заблокировать самого себя"})
	}

	user, err := s.ledger.BanUser(id)
	if err != nil {
		return s.notFound(c, err, "Пользователь не найден")
	}
	s.log.Info("Пользователь заблокирован", zap.String("user_id", id), zap.String("admin_id", middleware.UserID(c)))
	return c.JSON(fiber.Map{"user": user})
}

// UnbanUser снимает блокировку
func (s *AdminService) UnbanUser(c fiber.Ctx) error {
	id := c.Params("id")
	user, err := s.ledger.UnbanUser(id)
	if err != nil {
		return s.notFound(c, err, "Пользователь не найден")
	}
	s.log.Info("Пользователь разблокирован", zap.String("user_id", id), zap.String("admin_id", middleware.UserID(c)))
	return c.JSON(fiber.Map{"user": user})
}

// GetSwaps возвращает все запросы на обмен
func (s *AdminService) GetSwaps(c fiber.Ctx) error {
	swaps := s.ledger.AllSwapRequests()
	return c.JSON(fiber.Map{"swaps": swaps, "count": len(swaps)})
}

// DeleteSwap удаляет запрос на обмен независимо от статуса
func (s *AdminService) DeleteSwap(c fiber.Ctx) error {
	if err := s.ledger.DeleteSwapRequest(c.Params("id")); err != nil {
		return s.notFound(c, err, "Предложение обмена не найдено")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMessages возвращает все объявления, включая неактивные
func (s *AdminService) GetMessages(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"messages": s.ledger.AllMessages()})
}

type broadcastRequest struct {
	Title   string             `json:"title" validate:"required,max=200"`
	Content string             `json:"content" validate:"required,max=5000"`
	Type    models.MessageType `json:"type" validate:"required,oneof=info warning maintenance"`
}

// BroadcastMessage публикует объявление для всех пользователей
func (s *AdminService) BroadcastMessage(c fiber.Ctx) error {
	var req broadcastRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите заголовок, текст и тип: info, warning или maintenance"})
	}

	msg, err := s.ledger.BroadcastMessage(req.Title, req.Content, req.Type)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

// DeactivateMessage снимает объявление с показа
func (s *AdminService) DeactivateMessage(c fiber.Ctx) error {
	msg, err := s.ledger.DeactivateMessage(c.Params("id"))
	if err != nil {
		return s.notFound(c, err, "Объявление не найдено")
	}
	return c.JSON(fiber.Map{"message": msg})
}

// DownloadReport отдаёт JSON-выгрузку коллекции как файл
func (s *AdminService) DownloadReport(c fiber.Ctx) error {
	collection, err := report.ParseCollection(c.Params("collection"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Неизвестная коллекция: users, swaps или feedback"})
	}

	rep, err := report.Build(collection, s.ledger.Snapshot(), s.now())
	if err != nil {
		s.log.Error("Ошибка построения отчёта", zap.String("collection", string(collection)), zap.Error(err))
		return utils.ErrorResponse(c, err)
	}

	s.metrics.ReportDownloads.WithLabelValues(string(collection)).Inc()
	c.Attachment(rep.FileName)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(rep.Body)
}

func (s *AdminService) notFound(c fiber.Ctx, err error, msg string) error {
	if errors.Is(err, ledger.ErrUserNotFound) || errors.Is(err, ledger.ErrSwapNotFound) || errors.Is(err, ledger.ErrMessageNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
	}
	return utils.ErrorResponse(c, err)
}
