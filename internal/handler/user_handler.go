package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
)

// Accounts covers registration, tokens, profile and preferences.
type Accounts interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error)
	Refresh(ctx context.Context, req models.RefreshRequest) (*models.TokenPair, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	GetPreferences(ctx context.Context, userID int64) (*models.UserPreference, error)
	UpdatePreferences(ctx context.Context, userID int64, req models.UpdatePreferenceRequest) (*models.UserPreference, error)
}

// UserHandler handles HTTP requests for accounts and preferences.
type UserHandler struct {
	svc Accounts
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc Accounts) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register creates an account.
// @Summary Register
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Account"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Router /users/register/ [post]
func (h *UserHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return bindError(c, err)
	}

	resp, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return writeError(c, "Failed to register user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login exchanges credentials for a token pair.
// @Summary Obtain token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} ErrorResponse
// @Router /api/token/ [post]
func (h *UserHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return bindError(c, err)
	}

	pair, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return writeError(c, "Failed to log in", err)
	}
	return c.JSON(pair)
}

// Refresh exchanges a refresh token for a new access token.
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} ErrorResponse
// @Router /api/token/refresh/ [post]
func (h *UserHandler) Refresh(c fiber.Ctx) error {
	var req models.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		return bindError(c, err)
	}

	pair, err := h.svc.Refresh(c.Context(), req)
	if err != nil {
		return writeError(c, "Failed to refresh token", err)
	}
	return c.JSON(pair)
}

// Profile returns the caller's account.
// @Summary Profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/profile/ [get]
func (h *UserHandler) Profile(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	user, err := h.svc.Profile(c.Context(), userID)
	if err != nil {
		return writeError(c, "Failed to load profile", err)
	}
	return c.JSON(user)
}

// GetPreferences returns the caller's preferences, creating them if needed.
// @Summary Get preferences
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserPreference
// @Router /users/preferences/ [get]
func (h *UserHandler) GetPreferences(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	pref, err := h.svc.GetPreferences(c.Context(), userID)
	if err != nil {
		return writeError(c, "Failed to get preferences", err)
	}
	return c.JSON(pref)
}

// UpdatePreferences applies a partial update to the caller's preferences.
// @Summary Update preferences
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.UpdatePreferenceRequest true "Fields to change"
// @Success 200 {object} models.UserPreference
// @Failure 400 {object} ErrorResponse
// @Router /users/preferences/update/ [put]
func (h *UserHandler) UpdatePreferences(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req models.UpdatePreferenceRequest
	if err := bindJSON(c, &req); err != nil {
		return bindError(c, err)
	}

	pref, err := h.svc.UpdatePreferences(c.Context(), userID, req)
	if err != nil {
		return writeError(c, "Failed to update preferences", err)
	}
	return c.JSON(pref)
}
