package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"movie-discovery-backend/internal/models"
)

var (
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already exists")
)

const preferenceColumns = `id, user_id, preferred_genres, preferred_languages, created_at, updated_at`

// UserRepository handles accounts and their preferences.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new account.
func (r *UserRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at
	`, username, email, passwordHash).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return nil, ErrUsernameTaken
			case "users_email_key":
				return nil, ErrEmailTaken
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUser returns a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

// GetUserByUsername returns a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users `+where, arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetOrCreatePreference returns the user's preferences, creating an empty
// record on first access.
func (r *UserRepository) GetOrCreatePreference(ctx context.Context, userID int64) (*models.UserPreference, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+preferenceColumns+` FROM user_preferences WHERE user_id = $1`, userID)
	pref, err := scanPreference(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return pref, nil
}

// UpdatePreference overwrites the supplied fields only; a nil slice keeps the
// stored value. The record must already exist.
func (r *UserRepository) UpdatePreference(ctx context.Context, userID int64, genres []int64, languages []string) (*models.UserPreference, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE user_preferences SET
			preferred_genres = COALESCE($2::integer[], preferred_genres),
			preferred_languages = COALESCE($3::text[], preferred_languages),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+preferenceColumns,
		userID, pq.Array(genres), pq.Array(languages))

	pref, err := scanPreference(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update preference: %w", err)
	}
	return pref, nil
}

func scanPreference(s scanner) (*models.UserPreference, error) {
	var (
		pref   models.UserPreference
		genres pq.Int64Array
		langs  pq.StringArray
	)
	if err := s.Scan(&pref.ID, &pref.UserID, &genres, &langs, &pref.CreatedAt, &pref.UpdatedAt); err != nil {
		return nil, err
	}
	pref.PreferredGenres = []int64(genres)
	if pref.PreferredGenres == nil {
		pref.PreferredGenres = []int64{}
	}
	pref.PreferredLanguages = []string(langs)
	if pref.PreferredLanguages == nil {
		pref.PreferredLanguages = []string{}
	}
	return &pref, nil
}
