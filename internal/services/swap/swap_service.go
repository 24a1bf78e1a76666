package swap

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// SwapService представляет сервис для работы с обменами навыками
type SwapService struct {
	ledger     *ledger.Ledger
	jwtService *utils.JWTService
	log        *zap.Logger
}

// NewSwapService создает новый экземпляр SwapService
func NewSwapService(l *ledger.Ledger, jwtService *utils.JWTService, log *zap.Logger) *SwapService {
	return &SwapService{
		ledger:     l,
		jwtService: jwtService,
		log:        log.Named("swap"),
	}
}

type createSwapRequest struct {
	ToUserID     string `json:"to_user_id" validate:"required"`
	SkillOffered string `json:"skill_offered" validate:"required,max=100"`
	SkillWanted  string `json:"skill_wanted" validate:"required,max=100"`
	Message      string `json:"message" validate:"max=1000"`
}

// CreateSwap создает новое предложение обмена
func (s *SwapService) CreateSwap(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var requestData createSwapRequest
	if err := c.Bind().Body(&requestData); err != nil {
		s.log.Debug("Ошибка декодирования тела запроса", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Проверка обязательных полей
	if err := utils.ValidateStruct(requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать получателя и навыки для обмена"})
	}

	req, err := s.ledger.CreateSwapRequest(ledger.NewSwapRequest{
		FromUserID:   userID,
		ToUserID:     requestData.ToUserID,
		SkillOffered: requestData.SkillOffered,
		SkillWanted:  requestData.SkillWanted,
		Message:      requestData.Message,
	})
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Получатель не найден"})
	case errors.Is(err, ledger.ErrSelfSwap):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не можете предложить обмен самому себе"})
	case err != nil:
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Предложение обмена успешно создано",
		"swap":    req,
	})
}

// GetMySwaps возвращает предложения обмена пользователя
func (s *SwapService) GetMySwaps(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	// Параметры фильтрации
	direction := ledger.Direction(c.Query("type", string(ledger.DirectionAll)))
	switch direction {
	case ledger.DirectionAll, ledger.DirectionIncoming, ledger.DirectionOutgoing:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый тип: all, incoming или outgoing"})
	}

	status := models.SwapStatus(c.Query("status", "all"))
	if status == "all" {
		status = ""
	} else if !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
	}

	swaps := s.ledger.ListSwapRequests(userID, direction, status)
	return c.JSON(fiber.Map{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// UpdateSwapStatus обновляет статус предложения обмена (accepted, rejected, cancelled)
func (s *SwapService) UpdateSwapStatus(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	swapID := c.Params("id")

	var requestData struct {
		Status models.SwapStatus `json:"status" validate:"required,oneof=accepted rejected cancelled"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
	}

	req, err := s.ledger.SetSwapStatus(userID, swapID, requestData.Status)
	if err != nil {
		return s.transitionError(c, err, requestData.Status)
	}

	s.log.Info("Статус обмена изменён",
		zap.String("swap_id", req.ID),
		zap.String("user_id", userID),
		zap.String("status", string(req.Status)),
	)
	return c.JSON(fiber.Map{
		"message": "Статус предложения обмена успешно обновлен",
		"swap":    req,
	})
}

// CompleteSwap отмечает принятый обмен как состоявшийся
func (s *SwapService) CompleteSwap(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	req, err := s.ledger.CompleteSwap(userID, c.Params("id"))
	if err != nil {
		return s.transitionError(c, err, models.SwapCompleted)
	}

	return c.JSON(fiber.Map{
		"message": "Обмен завершён, теперь можно оставить отзыв",
		"swap":    req,
	})
}

// DeleteSwap удаляет закрытое предложение обмена участника
func (s *SwapService) DeleteSwap(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	err := s.ledger.DeleteOwnSwapRequest(userID, c.Params("id"))
	switch {
	case errors.Is(err, ledger.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Удалить можно только отклонённое или отменённое предложение"})
	case err != nil:
		return s.transitionError(c, err, "")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *SwapService) transitionError(c fiber.Ctx, err error, status models.SwapStatus) error {
	switch {
	case errors.Is(err, ledger.ErrSwapNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
	case errors.Is(err, ledger.ErrForbidden) && (status == models.SwapAccepted || status == models.SwapRejected):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только получатель предложения может его принять или отклонить"})
	case errors.Is(err, ledger.ErrForbidden) && status == models.SwapCancelled:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только отправитель предложения может его отменить"})
	case errors.Is(err, ledger.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Статус предложения обмена нельзя изменить"})
	}
	return utils.ErrorResponse(c, err)
}
