package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movie-discovery-backend/internal/models"
)

// FavoriteRepository manages the user <-> movie favorites ledger.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add records movieID as a favorite of userID. created is false when the pair
// already existed, in which case the existing entry is returned.
func (r *FavoriteRepository) Add(ctx context.Context, userID, movieID int64) (fav *models.FavoriteMovie, created bool, err error) {
	var f models.FavoriteMovie
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO favorite_movies (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
		RETURNING id, user_id, movie_id, added_at
	`, userID, movieID).Scan(&f.ID, &f.UserID, &f.MovieID, &f.AddedAt)
	if err == nil {
		return &f, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert favorite: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, movie_id, added_at
		FROM favorite_movies
		WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID).Scan(&f.ID, &f.UserID, &f.MovieID, &f.AddedAt)
	if err != nil {
		return nil, false, fmt.Errorf("load existing favorite: %w", err)
	}
	return &f, false, nil
}

// List returns the user's favorites in the order they were added.
func (r *FavoriteRepository) List(ctx context.Context, userID int64) ([]models.FavoriteMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, movie_id, added_at
		FROM favorite_movies
		WHERE user_id = $1
		ORDER BY added_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	favs := make([]models.FavoriteMovie, 0)
	for rows.Next() {
		var f models.FavoriteMovie
		if err := rows.Scan(&f.ID, &f.UserID, &f.MovieID, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// Remove deletes the (user, movie) pair and reports whether a row was deleted.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, movieID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorite_movies WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return n > 0, nil
}
