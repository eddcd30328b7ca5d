package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-backend/internal/models"
)

var (
	movieCols = []string{"id", "tmdb_id", "title", "overview", "poster_url", "release_date", "genres", "language", "created_at", "updated_at"}
	prefCols  = []string{"id", "user_id", "preferred_genres", "preferred_languages", "created_at", "updated_at"}
	userCols  = []string{"id", "username", "email", "password_hash", "created_at"}
	favCols   = []string{"id", "user_id", "movie_id", "added_at"}
	stamp     = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func ptr(s string) *string { return &s }

func TestUpsertMovie(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`INSERT INTO movies .* ON CONFLICT \(tmdb_id\) DO UPDATE SET`).
		WithArgs(int64(550), "Fight Club", "An insomniac...", "https://image.tmdb.org/t/p/w500/fc.jpg", "1999-10-15", sqlmock.AnyArg(), "en").
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, 550, "Fight Club", "An insomniac...", "https://image.tmdb.org/t/p/w500/fc.jpg", "1999-10-15", []byte("{18}"), "en", stamp, stamp))

	m, err := repo.Upsert(context.Background(), &models.Movie{
		TMDBId:      550,
		Title:       "Fight Club",
		Overview:    "An insomniac...",
		PosterURL:   ptr("https://image.tmdb.org/t/p/w500/fc.jpg"),
		ReleaseDate: ptr("1999-10-15"),
		Genres:      []int64{18},
		Language:    "en",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, []int64{18}, m.Genres)
	require.NotNil(t, m.ReleaseDate)
	assert.Equal(t, "1999-10-15", *m.ReleaseDate)
}

func TestUpsertMovieNullables(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`INSERT INTO movies`).
		WithArgs(int64(7), "Untitled", "", nil, nil, sqlmock.AnyArg(), "en").
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(2, 7, "Untitled", "", nil, nil, []byte("{}"), "en", stamp, stamp))

	m, err := repo.Upsert(context.Background(), &models.Movie{TMDBId: 7, Title: "Untitled", Language: "en"})
	require.NoError(t, err)
	assert.Nil(t, m.PosterURL)
	assert.Nil(t, m.ReleaseDate)
	assert.Equal(t, []int64{}, m.Genres)
}

func TestFindByTMDBIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`FROM movies WHERE tmdb_id = \$1`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(movieCols))

	_, err := repo.FindByTMDBID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`FROM movies WHERE id = \$1`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(3, 13, "Forrest Gump", "", nil, "1994-07-06", []byte("{35,18}"), "en", stamp, stamp))

	m, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(13), m.TMDBId)
	assert.Equal(t, []int64{35, 18}, m.Genres)
}

func TestFindByIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`FROM movies WHERE id = ANY\(\$1\)`).WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, 550, "Fight Club", "", nil, nil, []byte("{18}"), "en", stamp, stamp).
			AddRow(3, 13, "Forrest Gump", "", nil, nil, []byte("{}"), "en", stamp, stamp))

	got, err := repo.FindByIDs(context.Background(), []int64{1, 3, 4})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Forrest Gump", got[3].Title)

	empty, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFavoriteAddCreated(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectQuery(`INSERT INTO favorite_movies .* ON CONFLICT \(user_id, movie_id\) DO NOTHING`).
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows(favCols).AddRow(10, 1, 5, stamp))

	fav, created, err := repo.Add(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(10), fav.ID)
}

func TestFavoriteAddExisting(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectQuery(`INSERT INTO favorite_movies`).WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows(favCols))
	mock.ExpectQuery(`SELECT id, user_id, movie_id, added_at\s+FROM favorite_movies`).WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows(favCols).AddRow(10, 1, 5, stamp))

	fav, created, err := repo.Add(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(10), fav.ID)
}

func TestFavoriteListAndRemove(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectQuery(`FROM favorite_movies\s+WHERE user_id = \$1\s+ORDER BY added_at, id`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(favCols).AddRow(10, 1, 5, stamp).AddRow(11, 1, 6, stamp))
	mock.ExpectExec(`DELETE FROM favorite_movies`).WithArgs(int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM favorite_movies`).WithArgs(int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	favs, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, int64(6), favs[1].MovieID)

	removed, err := repo.Remove(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCreateUserDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).WithArgs("alice", "a@example.com", "hash").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectQuery(`INSERT INTO users`).WithArgs("bob", "a@example.com", "hash").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.CreateUser(context.Background(), "alice", "a@example.com", "hash")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = repo.CreateUser(context.Background(), "bob", "a@example.com", "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "a@example.com", "hash", stamp))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = repo.GetUser(context.Background(), 2)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetOrCreatePreference(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO user_preferences \(user_id\) VALUES \(\$1\)\s+ON CONFLICT \(user_id\) DO NOTHING`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM user_preferences WHERE user_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(prefCols).AddRow(4, 1, []byte("{}"), []byte("{}"), stamp, stamp))

	pref, err := repo.GetOrCreatePreference(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{}, pref.PreferredGenres)
	assert.Equal(t, []string{}, pref.PreferredLanguages)
}

func TestUpdatePreferencePartial(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`UPDATE user_preferences SET\s+preferred_genres = COALESCE\(\$2::integer\[\], preferred_genres\)`).
		WithArgs(int64(1), "{28}", nil).
		WillReturnRows(sqlmock.NewRows(prefCols).AddRow(4, 1, []byte("{28}"), []byte("{en,fr}"), stamp, stamp))

	pref, err := repo.UpdatePreference(context.Background(), 1, []int64{28}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{28}, pref.PreferredGenres)
	assert.Equal(t, []string{"en", "fr"}, pref.PreferredLanguages)
}
