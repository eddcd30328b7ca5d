package models

import "time"

// Movie is a catalog record mirrored into our database.
type Movie struct {
	ID          int64     `json:"id"`
	TMDBId      int64     `json:"tmdb_id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	PosterURL   *string   `json:"poster_url"`
	ReleaseDate *string   `json:"release_date"`
	Genres      []int64   `json:"genres"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// FavoriteMovie links a user to a mirrored movie.
type FavoriteMovie struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user"`
	MovieID int64     `json:"-"`
	Movie   *Movie    `json:"movie"`
	AddedAt time.Time `json:"added_at"`
}

// MessageResponse is returned for operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

const (
	TMDBImageBaseW500 = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage   = "en"
)
