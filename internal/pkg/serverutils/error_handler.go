package serverutils

import (
	"errors"

	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/service"
	"fubot-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

const genericServerError = "The assistant is unavailable right now. Please try again."

// ErrorHandler maps domain errors to {"detail": ...} responses.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, detail := classify(err)

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(status).JSON(fiber.Map{"detail": detail})
	}
}

func classify(err error) (int, string) {
	var validationErr *ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, service.ErrInvalidPasscode):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrPasscodeNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Detail
	case llm.IsUpstream(err):
		return fiber.StatusInternalServerError, genericServerError
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
