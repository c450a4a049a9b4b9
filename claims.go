package atelier

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActivationClaims carry the full not-yet-created account between the
// registration request and the activation link. The token is the only
// place this state lives; nothing is persisted until activation.
type ActivationClaims struct {
	jwt.RegisteredClaims
	Login        string `json:"login"`
	Email        string `json:"email"`
	APIKey       string `json:"api_key"`
	PasswordHash string `json:"hash"`
	RoleID       int    `json:"role_id"`
	Phone        string `json:"phone,omitempty"`
}

// SessionClaims represent an authenticated session.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"uid"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAtTime returns the issued at time
func (c *SessionClaims) IssuedAtTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
