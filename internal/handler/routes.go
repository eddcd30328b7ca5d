package handler

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes mounts the public and authenticated API routes.
func RegisterRoutes(app fiber.Router, movies *MovieHandler, users *UserHandler, requireAuth fiber.Handler) {
	app.Get("/health", movies.Health)

	m := app.Group("/movies")
	m.Get("/trending/", movies.Trending)
	m.Get("/search/", movies.Search)
	m.Get("/favorites/", requireAuth, movies.ListFavorites)
	m.Delete("/favorites/:id<int>/remove/", requireAuth, movies.RemoveFavorite)
	m.Get("/:id<int>/", movies.Details)
	m.Get("/:id<int>/recommended/", movies.Recommendations)
	m.Post("/:id<int>/favorite/", requireAuth, movies.AddFavorite)

	u := app.Group("/users")
	u.Post("/register/", users.Register)
	u.Get("/profile/", requireAuth, users.Profile)
	u.Get("/preferences/", requireAuth, users.GetPreferences)
	u.Put("/preferences/update/", requireAuth, users.UpdatePreferences)

	t := app.Group("/api/token")
	t.Post("/", users.Login)
	t.Post("/refresh/", users.Refresh)
}
