package middlewares

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

const MsgServerError = "Server error"

// ErrorHandler renders errors returned by handlers as the API JSON envelope.
// Details of 5xx errors go to the log only.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := MsgServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("Unhandled error",
			"method", ctx.Method(),
			"path", ctx.Path(),
			"code", code,
			"error", err,
		)
	}
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
