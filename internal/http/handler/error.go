package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/schema"
	"contentapi/internal/service"
)

// messagePayload is the uniform response body: every error, and every
// create/update/delete confirmation, is a single message string.
type messagePayload struct {
	Message string `json:"message"`
}

// writeError writes the uniform JSON error response.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(messagePayload{Message: message})
}

// writeMessage writes a confirmation body with status 200.
func writeMessage(c *fiber.Ctx, message string) error {
	return c.JSON(messagePayload{Message: message})
}

// writeGatewayError maps gateway failures to the error taxonomy: unknown
// model and absent identifier are client NotFounds, store validation
// failures echo their detail as 400, everything else is a 500.
func writeGatewayError(c *fiber.Ctx, err error, id string) error {
	switch {
	case errors.Is(err, schema.ErrUnknownModel):
		return writeError(c, fiber.StatusNotFound, "Unknown model: "+c.Params("model"))
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "No item with id: "+id)
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "Error: "+err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "Error: "+err.Error())
	}
}

// ErrorHandler returns the global Fiber error handler. Requests that fall
// through the route table (including item routes whose id segment fails the
// 24-hex constraint) land here as a generic not-found.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusNotFound:
			return writeError(c, status, "Not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		default:
			return writeError(c, status, "Error: "+err.Error())
		}
	}
}
