package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/auth"
	"movie-discovery-backend/internal/repository"
	"movie-discovery-backend/internal/service"
	"movie-discovery-backend/internal/validation"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// writeError maps service errors to status codes. action names what failed
// and prefixes upstream failures, e.g. "Failed to fetch trending movies".
func writeError(c fiber.Ctx, action string, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Not found."})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Token is invalid or expired"})
	case errors.Is(err, service.ErrUpstream):
		slog.Error(action, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: action + ": " + err.Error()})
	}

	slog.Error(action, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: action})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}
