package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is returned by operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error writes an ErrorResponse with the given status.
func Error(c *fiber.Ctx, status int, code string, message string, details ...interface{}) error {
	response := ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(status).JSON(response)
}

// OK writes data as-is with 200.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created writes data as-is with 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// Message writes {"message": message} with the given status.
func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(MessageResponse{Message: message})
}

// Count writes {"count": n} with 201, used by bulk inserts.
func Count(c *fiber.Ctx, n int) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"count": n})
}
