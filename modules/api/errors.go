package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

// mapServiceError translates errors returned across the service
// container into HTTP responses. Service calls travel over the
// request-reply bus, so errors arrive as strings and are matched on
// their known messages. Not-found and forbidden both arrive as
// "task not found" and map to 404 together; the API never reveals
// whether a foreign task id exists.
func (h *Handlers) mapServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"),
		strings.Contains(errStr, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case strings.Contains(errStr, "validation failed"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: trimServiceError(errStr),
		})
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"),
		strings.Contains(errStr, "name is required"),
		strings.Contains(errStr, "password must be"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: trimServiceError(errStr),
		})
	default:
		// Log the store error but keep the response opaque.
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// trimServiceError strips transport wrapping ("service call failed: ...")
// so the client sees only the final message segment.
func trimServiceError(errStr string) string {
	if idx := strings.LastIndex(errStr, ": "); idx >= 0 {
		tail := errStr[idx+2:]
		if tail != "" {
			return tail
		}
	}
	return errStr
}
