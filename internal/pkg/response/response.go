package response

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the standard JSON shape for every API response:
// {success, message, data?, errors?, meta?}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Success sends 200 OK.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithMeta sends 200 OK with pagination metadata.
func SuccessWithMeta(c *fiber.Ctx, message string, data interface{}, meta interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// SuccessCreated sends 201 Created.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response. errs carries per-field validation messages
// when present ({field: [messages]}).
func Error(c *fiber.Ctx, message string, statusCode int, errs interface{}) error {
	return c.Status(statusCode).JSON(Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
