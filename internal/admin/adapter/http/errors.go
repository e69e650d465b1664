// Package http exposes the admin backend over fiber: one router per module,
// JWT-protected routes and a uniform error envelope.
package http

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// respondError maps a domain error to its HTTP status and the uniform error
// envelope. Errors without a domain code surface as a plain 500 so internal
// detail never leaks to clients.
func respondError(c *fiber.Ctx, err error) error {
	status := errors.HTTPStatus(err)
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		body := fiber.Map{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		return c.Status(status).JSON(fiber.Map{"error": body})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{"code": errors.CodeInternal, "message": "internal error"},
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return respondError(c, errors.NewValidationError(message))
}
