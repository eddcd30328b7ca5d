package models

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150,alphanumunicode"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the request body for obtaining a token pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the request body for refreshing an access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPair holds the issued access and refresh tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// UserPreference stores a user's preferred genres and languages.
type UserPreference struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user"`
	PreferredGenres    []int64   `json:"preferred_genres"`
	PreferredLanguages []string  `json:"preferred_languages"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdatePreferenceRequest is a partial update: nil fields keep their stored value.
type UpdatePreferenceRequest struct {
	PreferredGenres    *[]int64  `json:"preferred_genres" validate:"omitnil,max=50,dive,gt=0"`
	PreferredLanguages *[]string `json:"preferred_languages" validate:"omitnil,max=20,dive,min=2,max=10,language_code"`
}
