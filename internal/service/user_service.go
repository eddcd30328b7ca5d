package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"movie-discovery-backend/internal/auth"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/repository"
	"movie-discovery-backend/internal/validation"
)

// UserStore persists accounts and preferences.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetOrCreatePreference(ctx context.Context, userID int64) (*models.UserPreference, error)
	UpdatePreference(ctx context.Context, userID int64, genres []int64, languages []string) (*models.UserPreference, error)
}

// TokenIssuer creates and refreshes bearer tokens.
type TokenIssuer interface {
	IssuePair(userID int64, username string) (access, refresh string, err error)
	Refresh(refresh string) (string, error)
}

// UserService handles accounts, tokens and preferences.
type UserService struct {
	repo       UserStore
	tokens     TokenIssuer
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(repo UserStore, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, tokens: tokens, bcryptCost: bcrypt.DefaultCost}
}

// Register creates an account and issues its first token pair.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, hash)
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return nil, validation.New("username", "A user with that username already exists.")
	case errors.Is(err, repository.ErrEmailTaken):
		return nil, validation.New("email", "A user with that email already exists.")
	case err != nil:
		return nil, err
	}

	access, refresh, err := s.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return &models.RegisterResponse{
		User:   *user,
		Tokens: models.TokenPair{Access: access, Refresh: refresh},
	}, nil
}

// Login checks credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *UserService) Refresh(_ context.Context, req models.RefreshRequest) (*models.TokenPair, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	access, err := s.tokens.Refresh(req.Refresh)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access}, nil
}

// Profile returns the account of the given user.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// GetPreferences returns the user's preferences, creating empty ones first if needed.
func (s *UserService) GetPreferences(ctx context.Context, userID int64) (*models.UserPreference, error) {
	return s.repo.GetOrCreatePreference(ctx, userID)
}

// UpdatePreferences applies the supplied fields and leaves the rest unchanged.
func (s *UserService) UpdatePreferences(ctx context.Context, userID int64, req models.UpdatePreferenceRequest) (*models.UserPreference, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetOrCreatePreference(ctx, userID); err != nil {
		return nil, err
	}

	var genres []int64
	if req.PreferredGenres != nil {
		genres = append([]int64{}, *req.PreferredGenres...)
	}
	var languages []string
	if req.PreferredLanguages != nil {
		languages = append([]string{}, *req.PreferredLanguages...)
	}

	return s.repo.UpdatePreference(ctx, userID, genres, languages)
}
