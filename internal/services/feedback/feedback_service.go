package feedback

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// FeedbackService принимает отзывы по завершённым обменам
type FeedbackService struct {
	ledger     *ledger.Ledger
	jwtService *utils.JWTService
	log        *zap.Logger
}

// NewFeedbackService создаёт новый экземпляр FeedbackService
func NewFeedbackService(l *ledger.Ledger, jwtService *utils.JWTService, log *zap.Logger) *FeedbackService {
	return &FeedbackService{
		ledger:     l,
		jwtService: jwtService,
		log:        log.Named("feedback"),
	}
}

type submitRequest struct {
	SwapRequestID string `json:"swap_request_id" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"max=2000"`
}

// SubmitFeedback оставляет отзыв второму участнику обмена
func (s *FeedbackService) SubmitFeedback(c fiber.Ctx) error {
	var req submitRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Оценка должна быть от 1 до 5"})
	}

	f, err := s.ledger.SubmitFeedback(req.SwapRequestID, middleware.UserID(c), req.Rating, req.Comment)
	switch {
	case errors.Is(err, ledger.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Оставить отзыв может только участник обмена"})
	case errors.Is(err, ledger.ErrSwapNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Отзыв можно оставить только после завершения обмена"})
	case errors.Is(err, ledger.ErrDuplicateFeedback):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Вы уже оставили отзыв по этому обмену"})
	case err != nil:
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"feedback": f})
}

// GetPending возвращает завершённые обмены без отзыва текущего пользователя
func (s *FeedbackService) GetPending(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"swaps": s.ledger.PendingFeedback(middleware.UserID(c))})
}

// GetGiven возвращает отзывы, оставленные пользователем
func (s *FeedbackService) GetGiven(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"feedback": s.ledger.GivenFeedback(middleware.UserID(c))})
}

// GetReceived возвращает отзывы о пользователе
func (s *FeedbackService) GetReceived(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"feedback": s.ledger.ReceivedFeedback(middleware.UserID(c))})
}
