package atelier

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// CookieAuthorization holds the HTTP-only session credential.
	CookieAuthorization = "Authorization"
	// CookieUser holds the client-readable role/id marker.
	CookieUser = "User"
	// AuthScheme prefixes the credential cookie value.
	AuthScheme = "Bearer"
)

// UserMarker is the client-visible cookie payload for UI use. It never
// grants anything; authorization always comes from the signed credential.
type UserMarker struct {
	Role string `json:"role"`
	ID   string `json:"id"`
}

// SessionCookies writes and clears the session cookie pair. Both expiry
// timestamps are computed from a single base so the readable marker
// always dies one second before the HTTP-only credential.
type SessionCookies struct {
	duration time.Duration
	secure   bool
}

func NewSessionCookies(duration time.Duration) *SessionCookies {
	if duration <= 0 {
		duration = 3 * time.Hour
	}
	return &SessionCookies{duration: duration}
}

func (s *SessionCookies) WithSecure(secure bool) *SessionCookies {
	s.secure = secure
	return s
}

// Duration returns the credential cookie lifetime.
func (s *SessionCookies) Duration() time.Duration {
	return s.duration
}

// Issue sets the credential and marker cookies for a fresh login.
func (s *SessionCookies) Issue(c *fiber.Ctx, result *LoginResult) error {
	base := time.Now()

	marker, err := json.Marshal(UserMarker{
		Role: result.Claims.Role,
		ID:   result.Claims.AccountID,
	})
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieAuthorization,
		Value:    AuthScheme + " " + result.Token,
		Expires:  base.Add(s.duration),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})

	c.Cookie(&fiber.Cookie{
		Name:     CookieUser,
		Value:    url.QueryEscape(string(marker)),
		Expires:  base.Add(s.duration - time.Second),
		HTTPOnly: false,
		Secure:   s.secure,
		SameSite: "Lax",
	})

	return nil
}

// Clear expires both cookies. Clearing absent cookies is not an error.
func (s *SessionCookies) Clear(c *fiber.Ctx) {
	for _, name := range []string{CookieAuthorization, CookieUser} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour * (24 * 365)),
			HTTPOnly: name == CookieAuthorization,
			Secure:   s.secure,
			SameSite: "Lax",
		})
	}
}
