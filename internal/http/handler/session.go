package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/auth"
)

// Session issues and clears the session cookie.
type Session struct {
	Tokens *auth.TokenManager
	Secure bool
}

func (s Session) start(c *fiber.Ctx, userID string) error {
	token, err := s.Tokens.Issue(userID)
	if err != nil {
		return err
	}
	ttl := s.Tokens.TTL()
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return nil
}

func (s Session) end(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
