package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"movie-discovery-backend/internal/cache"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/repository"
	"movie-discovery-backend/internal/tmdb"
	"movie-discovery-backend/internal/validation"
)

const trendingCacheKey = "trending_movies"

// Catalog is the upstream movie catalog.
type Catalog interface {
	Trending(ctx context.Context) ([]tmdb.Movie, error)
	Details(ctx context.Context, tmdbID int64) (*tmdb.MovieDetails, error)
	Recommendations(ctx context.Context, tmdbID int64) ([]tmdb.Movie, error)
	Search(ctx context.Context, query string) ([]tmdb.Movie, error)
}

// MovieStore is the local mirror of catalog movies.
type MovieStore interface {
	Upsert(ctx context.Context, m *models.Movie) (*models.Movie, error)
	FindByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Movie, error)
}

// MovieService fetches movies from the catalog, mirrors them locally and
// caches the trending list.
type MovieService struct {
	store       MovieStore
	catalog     Catalog
	cache       cache.Cache
	trendingTTL time.Duration
	group       singleflight.Group
}

// NewMovieService creates a new MovieService.
func NewMovieService(store MovieStore, catalog Catalog, c cache.Cache, trendingTTL time.Duration) *MovieService {
	return &MovieService{
		store:       store,
		catalog:     catalog,
		cache:       c,
		trendingTTL: trendingTTL,
	}
}

// Trending returns the serialized trending list, from cache when possible.
// Concurrent cache misses share a single upstream call.
func (s *MovieService) Trending(ctx context.Context) ([]byte, error) {
	if cached, ok := s.cache.Get(ctx, trendingCacheKey); ok {
		slog.Debug("cache hit", "key", trendingCacheKey)
		return cached, nil
	}

	v, err, _ := s.group.Do(trendingCacheKey, func() (any, error) {
		// The shared call outlives any single caller's cancellation.
		ctx := context.WithoutCancel(ctx)

		items, err := s.catalog.Trending(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		movies, err := s.mirrorAll(ctx, items)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(movies)
		if err != nil {
			return nil, fmt.Errorf("encode trending movies: %w", err)
		}

		s.cache.Set(ctx, trendingCacheKey, payload, s.trendingTTL)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Recommendations returns movies recommended for the given catalog id.
func (s *MovieService) Recommendations(ctx context.Context, tmdbID int64) ([]models.Movie, error) {
	items, err := s.catalog.Recommendations(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return s.mirrorAll(ctx, items)
}

// Search returns movies matching query. A blank query is a validation error.
func (s *MovieService) Search(ctx context.Context, query string) ([]models.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validation.New("query", "Query parameter is required")
	}

	items, err := s.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return s.mirrorAll(ctx, items)
}

// Details returns the mirrored movie, fetching and mirroring it on a miss.
func (s *MovieService) Details(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	movie, err := s.store.FindByTMDBID(ctx, tmdbID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	details, err := s.catalog.Details(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, fmt.Errorf("movie %d: %w", tmdbID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	return s.store.Upsert(ctx, fromDetails(details))
}

func (s *MovieService) mirrorAll(ctx context.Context, items []tmdb.Movie) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, len(items))
	for _, item := range items {
		stored, err := s.store.Upsert(ctx, fromListItem(item))
		if err != nil {
			return nil, err
		}
		movies = append(movies, *stored)
	}
	return movies, nil
}

func fromListItem(item tmdb.Movie) *models.Movie {
	return newMovie(item.ID, item.Title, item.Overview, item.PosterPath,
		item.ReleaseDate, item.GenreIDs, item.OriginalLanguage)
}

func fromDetails(d *tmdb.MovieDetails) *models.Movie {
	return newMovie(d.ID, d.Title, d.Overview, d.PosterPath,
		d.ReleaseDate, d.GenreIDs(), d.OriginalLanguage)
}

func newMovie(id int64, title, overview, posterPath, releaseDate string, genres []int64, language string) *models.Movie {
	m := &models.Movie{
		TMDBId:   id,
		Title:    title,
		Overview: overview,
		Genres:   genres,
		Language: language,
	}
	if posterPath != "" {
		url := models.TMDBImageBaseW500 + posterPath
		m.PosterURL = &url
	}
	if releaseDate != "" {
		m.ReleaseDate = &releaseDate
	}
	if m.Genres == nil {
		m.Genres = []int64{}
	}
	if m.Language == "" {
		m.Language = models.DefaultLanguage
	}
	return m
}
