package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
)

// MovieQueries serves catalog reads backed by the local mirror.
type MovieQueries interface {
	Trending(ctx context.Context) ([]byte, error)
	Search(ctx context.Context, query string) ([]models.Movie, error)
	Details(ctx context.Context, tmdbID int64) (*models.Movie, error)
	Recommendations(ctx context.Context, tmdbID int64) ([]models.Movie, error)
}

// Favorites manages a user's favorite movies.
type Favorites interface {
	Add(ctx context.Context, userID, tmdbID int64) (*models.FavoriteMovie, bool, error)
	List(ctx context.Context, userID int64) ([]models.FavoriteMovie, error)
	Remove(ctx context.Context, userID, tmdbID int64) (bool, error)
}

// MovieHandler handles HTTP requests for movies.
type MovieHandler struct {
	movies    MovieQueries
	favorites Favorites
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(movies MovieQueries, favorites Favorites) *MovieHandler {
	return &MovieHandler{movies: movies, favorites: favorites}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-discovery-backend",
	})
}

// Trending returns the cached weekly trending list.
// @Summary Trending movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.Movie
// @Failure 500 {object} ErrorResponse
// @Router /movies/trending/ [get]
func (h *MovieHandler) Trending(c fiber.Ctx) error {
	payload, err := h.movies.Trending(c.Context())
	if err != nil {
		return writeError(c, "Failed to fetch trending movies", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// Search returns movies matching the query parameter.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {array} models.Movie
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/search/ [get]
func (h *MovieHandler) Search(c fiber.Ctx) error {
	movies, err := h.movies.Search(c.Context(), c.Query("query"))
	if err != nil {
		return writeError(c, "Failed to search movies", err)
	}
	return c.JSON(movies)
}

// Details returns a single movie by its TMDB id.
// @Summary Movie details
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} models.Movie
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{id}/ [get]
func (h *MovieHandler) Details(c fiber.Ctx) error {
	id, err := movieID(c)
	if err != nil {
		return badRequest(c, "invalid movie ID")
	}

	movie, err := h.movies.Details(c.Context(), id)
	if err != nil {
		return writeError(c, "Failed to fetch movie details", err)
	}
	return c.JSON(movie)
}

// Recommendations returns movies recommended for the given movie.
// @Summary Recommended movies
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {array} models.Movie
// @Failure 500 {object} ErrorResponse
// @Router /movies/{id}/recommended/ [get]
func (h *MovieHandler) Recommendations(c fiber.Ctx) error {
	id, err := movieID(c)
	if err != nil {
		return badRequest(c, "invalid movie ID")
	}

	movies, err := h.movies.Recommendations(c.Context(), id)
	if err != nil {
		return writeError(c, "Failed to fetch recommendations", err)
	}
	return c.JSON(movies)
}

// AddFavorite marks a movie as a favorite of the caller.
// @Summary Add favorite
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "TMDB movie ID"
// @Success 201 {object} models.FavoriteMovie
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id}/favorite/ [post]
func (h *MovieHandler) AddFavorite(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := movieID(c)
	if err != nil {
		return badRequest(c, "invalid movie ID")
	}

	fav, created, err := h.favorites.Add(c.Context(), userID, id)
	if err != nil {
		return writeError(c, "Failed to add favorite", err)
	}
	if !created {
		return c.JSON(models.MessageResponse{Message: "Already in favorites"})
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

// ListFavorites returns the caller's favorites.
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FavoriteMovie
// @Router /movies/favorites/ [get]
func (h *MovieHandler) ListFavorites(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	favs, err := h.favorites.List(c.Context(), userID)
	if err != nil {
		return writeError(c, "Failed to list favorites", err)
	}
	return c.JSON(favs)
}

// RemoveFavorite deletes one of the caller's favorites.
// @Summary Remove favorite
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/favorites/{id}/remove/ [delete]
func (h *MovieHandler) RemoveFavorite(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := movieID(c)
	if err != nil {
		return badRequest(c, "invalid movie ID")
	}

	removed, err := h.favorites.Remove(c.Context(), userID, id)
	if err != nil {
		return writeError(c, "Failed to remove favorite", err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Favorite not found"})
	}
	return c.JSON(models.MessageResponse{Message: "Removed"})
}

func movieID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return id, nil
}
