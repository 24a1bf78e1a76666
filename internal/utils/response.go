package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct проверяет теги validate у тела запроса
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// StatusFor сопоставляет ошибку домена с HTTP статусом
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUserNotFound),
		errors.Is(err, ledger.ErrSwapNotFound),
		errors.Is(err, ledger.ErrMessageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ledger.ErrEmailTaken),
		errors.Is(err, ledger.ErrUserInUse),
		errors.Is(err, ledger.ErrDuplicateFeedback),
		errors.Is(err, ledger.ErrInvalidTransition),
		errors.Is(err, ledger.ErrSwapNotCompleted):
		return fiber.StatusConflict
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAvailability),
		errors.Is(err, ledger.ErrSelfSwap),
		errors.Is(err, ledger.ErrInvalidRating),
		errors.Is(err, ledger.ErrInvalidMessageType):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrInvalidToken):
		return fiber.StatusUnauthorized
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// ErrorResponse отвечает {"error": ...} с кодом по StatusFor.
// Внутренние ошибки не раскрываются клиенту.
func ErrorResponse(c fiber.Ctx, err error) error {
	status := StatusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Внутренняя ошибка сервера"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
