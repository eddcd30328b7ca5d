package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/repository"
	"movie-discovery-backend/internal/tmdb"
)

type fakeCatalog struct {
	trending        func() ([]tmdb.Movie, error)
	details         func(id int64) (*tmdb.MovieDetails, error)
	recommendations func(id int64) ([]tmdb.Movie, error)
	search          func(q string) ([]tmdb.Movie, error)

	calls atomic.Int32
}

func (f *fakeCatalog) Trending(context.Context) ([]tmdb.Movie, error) {
	f.calls.Add(1)
	return f.trending()
}

func (f *fakeCatalog) Details(_ context.Context, id int64) (*tmdb.MovieDetails, error) {
	f.calls.Add(1)
	return f.details(id)
}

func (f *fakeCatalog) Recommendations(_ context.Context, id int64) ([]tmdb.Movie, error) {
	f.calls.Add(1)
	return f.recommendations(id)
}

func (f *fakeCatalog) Search(_ context.Context, q string) ([]tmdb.Movie, error) {
	f.calls.Add(1)
	return f.search(q)
}

// memoryMovieStore mirrors the upsert-by-tmdb_id contract of MovieRepository.
type memoryMovieStore struct {
	mu     sync.Mutex
	byTMDB map[int64]*models.Movie
	nextID int64
}

func newMemoryMovieStore() *memoryMovieStore {
	return &memoryMovieStore{byTMDB: make(map[int64]*models.Movie)}
}

func (s *memoryMovieStore) Upsert(_ context.Context, m *models.Movie) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *m
	if existing, ok := s.byTMDB[m.TMDBId]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		s.nextID++
		stored.ID = s.nextID
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	s.byTMDB[m.TMDBId] = &stored

	out := stored
	return &out, nil
}

func (s *memoryMovieStore) FindByTMDBID(_ context.Context, tmdbID int64) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byTMDB[tmdbID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (s *memoryMovieStore) FindByIDs(_ context.Context, ids []int64) (map[int64]*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]*models.Movie)
	for _, id := range ids {
		for _, m := range s.byTMDB {
			if m.ID == id {
				cp := *m
				out[id] = &cp
			}
		}
	}
	return out, nil
}

func (s *memoryMovieStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byTMDB)
}

type favKey struct{ user, movie int64 }

type memoryFavoriteStore struct {
	mu      sync.Mutex
	entries map[favKey]*models.FavoriteMovie
	order   []favKey
	nextID  int64
}

func newMemoryFavoriteStore() *memoryFavoriteStore {
	return &memoryFavoriteStore{entries: make(map[favKey]*models.FavoriteMovie)}
}

func (s *memoryFavoriteStore) Add(_ context.Context, userID, movieID int64) (*models.FavoriteMovie, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := favKey{userID, movieID}
	if f, ok := s.entries[k]; ok {
		cp := *f
		return &cp, false, nil
	}
	s.nextID++
	f := &models.FavoriteMovie{ID: s.nextID, UserID: userID, MovieID: movieID, AddedAt: time.Now()}
	s.entries[k] = f
	s.order = append(s.order, k)
	cp := *f
	return &cp, true, nil
}

func (s *memoryFavoriteStore) List(_ context.Context, userID int64) ([]models.FavoriteMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FavoriteMovie, 0)
	for _, k := range s.order {
		if f, ok := s.entries[k]; ok && k.user == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *memoryFavoriteStore) Remove(_ context.Context, userID, movieID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := favKey{userID, movieID}
	if _, ok := s.entries[k]; !ok {
		return false, nil
	}
	delete(s.entries, k)
	return true, nil
}

type memoryUserStore struct {
	mu     sync.Mutex
	users  []*models.User
	prefs  map[int64]*models.UserPreference
	nextID int64
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{prefs: make(map[int64]*models.UserPreference)}
}

func (s *memoryUserStore) CreateUser(_ context.Context, username, email, hash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return nil, repository.ErrUsernameTaken
		}
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	s.nextID++
	u := &models.User{ID: s.nextID, Username: username, Email: email, PasswordHash: hash}
	s.users = append(s.users, u)
	cp := *u
	return &cp, nil
}

func (s *memoryUserStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryUserStore) GetOrCreatePreference(_ context.Context, userID int64) (*models.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		p = &models.UserPreference{ID: userID, UserID: userID, PreferredGenres: []int64{}, PreferredLanguages: []string{}}
		s.prefs[userID] = p
	}
	cp := *p
	return &cp, nil
}

func (s *memoryUserStore) UpdatePreference(_ context.Context, userID int64, genres []int64, languages []string) (*models.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if genres != nil {
		p.PreferredGenres = genres
	}
	if languages != nil {
		p.PreferredLanguages = languages
	}
	cp := *p
	return &cp, nil
}
