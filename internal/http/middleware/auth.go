package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/auth"
	"shopapi/internal/model"
	"shopapi/internal/service"
)

// UserLocalKey is the key under which Authenticate stores the *model.User.
const UserLocalKey = "user"

// TokenParser resolves a session token to a user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// UserLoader loads the account a token was issued for.
type UserLoader interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// Authenticate requires a valid session token, read from the jwt cookie or,
// failing that, an "Authorization: Bearer" header. The loaded user is stored
// in locals under UserLocalKey.
func Authenticate(tokens TokenParser, users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(auth.CookieName)
		if raw == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, no token")
		}

		userID, err := tokens.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, invalid token")
		}
		user, err := users.Get(c.UserContext(), userID)
		if err != nil {
			// Deleted accounts keep their cookies until expiry.
			if errors.Is(err, service.ErrUserNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "not authorized, unknown user")
			}
			return err
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin users. It must run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized")
		}
		if !u.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "not authorized as admin")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
