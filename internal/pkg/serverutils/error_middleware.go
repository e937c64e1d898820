package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware recovers every handler error at the request boundary
// and renders it with the common envelope. A failed session operation must
// never take the process down or leak into other sessions.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		appErr := AsAppError(err)
		return ctx.Status(appErr.StatusCode()).JSON(ErrorResponse(appErr.StatusCode(), appErr.Message))
	}
}
