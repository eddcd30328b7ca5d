package service

import (
	"context"
	"errors"
	"fmt"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/repository"
)

// FavoriteStore is the favorites ledger keyed by local movie id.
type FavoriteStore interface {
	Add(ctx context.Context, userID, movieID int64) (*models.FavoriteMovie, bool, error)
	List(ctx context.Context, userID int64) ([]models.FavoriteMovie, error)
	Remove(ctx context.Context, userID, movieID int64) (bool, error)
}

// MovieResolver returns the mirrored record for a catalog id, mirroring it on demand.
type MovieResolver interface {
	Details(ctx context.Context, tmdbID int64) (*models.Movie, error)
}

// FavoriteService manages users' favorite movies.
type FavoriteService struct {
	favorites FavoriteStore
	movies    MovieStore
	resolver  MovieResolver
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favorites FavoriteStore, movies MovieStore, resolver MovieResolver) *FavoriteService {
	return &FavoriteService{favorites: favorites, movies: movies, resolver: resolver}
}

// Add marks the movie with the given catalog id as a favorite of the user.
// created is false when it was already a favorite.
func (s *FavoriteService) Add(ctx context.Context, userID, tmdbID int64) (*models.FavoriteMovie, bool, error) {
	movie, err := s.resolver.Details(ctx, tmdbID)
	if err != nil {
		return nil, false, err
	}

	fav, created, err := s.favorites.Add(ctx, userID, movie.ID)
	if err != nil {
		return nil, false, err
	}
	fav.Movie = movie
	return fav, created, nil
}

// List returns the user's favorites, each with its movie.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]models.FavoriteMovie, error) {
	favs, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return favs, nil
	}

	ids := make([]int64, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.MovieID)
	}
	movies, err := s.movies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load favorite movies: %w", err)
	}

	for i := range favs {
		favs[i].Movie = movies[favs[i].MovieID]
	}
	return favs, nil
}

// Remove deletes the favorite and reports whether one existed.
func (s *FavoriteService) Remove(ctx context.Context, userID, tmdbID int64) (bool, error) {
	movie, err := s.movies.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.favorites.Remove(ctx, userID, movie.ID)
}
