package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"civfeed/models"
)

// sendError writes the structured error envelope. Stack detail is only
// included outside production.
func sendError(c *fiber.Ctx, status int, code, message string, cause error, production bool) error {
	body := models.ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if cause != nil && !production {
		body.Stack = cause.Error()
	}
	return c.Status(status).JSON(models.ErrorResponse{Error: body})
}
