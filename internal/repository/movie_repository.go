package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"movie-discovery-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

const movieColumns = `id, tmdb_id, title, COALESCE(overview, ''), poster_url,
	TO_CHAR(release_date, 'YYYY-MM-DD'), genres, language, created_at, updated_at`

// MovieRepository is the local mirror of catalog movies.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Upsert inserts the movie or overwrites every field of the row with the same
// tmdb_id, returning the stored record.
func (r *MovieRepository) Upsert(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	genres := m.Genres
	if genres == nil {
		genres = []int64{}
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO movies (tmdb_id, title, overview, poster_url, release_date, genres, language, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, NOW())
		ON CONFLICT (tmdb_id) DO UPDATE SET
			title = EXCLUDED.title,
			overview = EXCLUDED.overview,
			poster_url = EXCLUDED.poster_url,
			release_date = EXCLUDED.release_date,
			genres = EXCLUDED.genres,
			language = EXCLUDED.language,
			updated_at = NOW()
		RETURNING `+movieColumns,
		m.TMDBId, m.Title, m.Overview, m.PosterURL, m.ReleaseDate, pq.Array(genres), m.Language)

	stored, err := scanMovie(row)
	if err != nil {
		return nil, fmt.Errorf("upsert movie %d: %w", m.TMDBId, err)
	}
	return stored, nil
}

// FindByTMDBID returns the mirrored movie with the given catalog id.
func (r *MovieRepository) FindByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE tmdb_id = $1`, tmdbID)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find movie by tmdb id %d: %w", tmdbID, err)
	}
	return m, nil
}

// FindByID returns the mirrored movie with the given local id.
func (r *MovieRepository) FindByID(ctx context.Context, id int64) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find movie %d: %w", id, err)
	}
	return m, nil
}

// FindByIDs returns the mirrored movies with the given local ids, keyed by id.
// Unknown ids are absent from the result.
func (r *MovieRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Movie, error) {
	out := make(map[int64]*models.Movie, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*models.Movie, error) {
	var (
		m                models.Movie
		poster, released sql.NullString
		genres           pq.Int64Array
	)
	if err := s.Scan(&m.ID, &m.TMDBId, &m.Title, &m.Overview, &poster, &released,
		&genres, &m.Language, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}

	if poster.Valid {
		m.PosterURL = &poster.String
	}
	if released.Valid {
		m.ReleaseDate = &released.String
	}
	m.Genres = []int64(genres)
	if m.Genres == nil {
		m.Genres = []int64{}
	}
	return &m, nil
}
