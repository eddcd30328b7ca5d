package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/auth"
)

const userIDKey = "user_id"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token, wantType string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid access token and stores the
// authenticated user's id in the request locals.
func RequireAuth(tokens TokenValidator) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authentication credentials were not provided.")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "invalid Authorization header format, expected 'Bearer <token>'")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "empty bearer token")
		}

		claims, err := tokens.Validate(token, auth.AccessToken)
		if err != nil {
			return unauthorized(c, "Given token not valid for any token type")
		}

		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the id stored by RequireAuth.
func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}

func unauthorized(c fiber.Ctx, msg string) error {
	c.Set("WWW-Authenticate", `Bearer realm="api"`)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
