package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReadSession resolves the authenticated user from the request's session
// cookie. A missing, invalid, or dangling token yields (nil, nil); only
// store failures surface as errors.
//
// Tokens are not rotated on read. A fresh token is issued only by
// Register, Authenticate, and UpdateUser.
func (m *Manager) ReadSession(c *fiber.Ctx) (*User, error) {
	return m.UserFromToken(c.UserContext(), c.Cookies(m.cookieName))
}

// WriteSession attaches the session state to the outbound response. A
// non-nil user gets a freshly issued token set as the session cookie; nil
// clears any existing session cookie.
func (m *Manager) WriteSession(c *fiber.Ctx, user *User) error {
	if user == nil {
		c.Cookie(m.ClearSessionCookie())
		return nil
	}

	token, err := m.tokenService.Generate(user)
	if err != nil {
		return err
	}

	c.Cookie(m.SessionCookie(token))
	return nil
}

// SessionCookie renders a token as the configured session cookie. Exposed
// so embedders outside fiber handlers can serialize it themselves.
func (m *Manager) SessionCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Domain:   m.cookieDomain,
		Expires:  time.Now().Add(m.cookieDuration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// ClearSessionCookie renders the clearing form of the session cookie:
// empty value, immediate expiry, same attributes.
func (m *Manager) ClearSessionCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cookieDomain,
		MaxAge:   0,
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
