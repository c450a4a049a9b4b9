package atelier

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// ErrTokenExpired is returned when a token is past its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned for tokens we cannot parse or verify
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// TokenService signs and verifies the two token kinds the workflow uses:
// the 7-day activation token that carries the pending account, and the
// 3-hour session token issued at login.
type TokenService interface {
	SignActivation(claims *ActivationClaims) (string, error)
	SignSession(claims *SessionClaims) (string, error)
	ValidateActivation(token string) (*ActivationClaims, error)
	ValidateSession(token string) (*SessionClaims, error)
	SessionDuration() time.Duration
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey    []byte
	sessionTTL    time.Duration
	activationTTL time.Duration
	issuer        string
	logger        Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, sessionTTL, activationTTL time.Duration, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:    signingKey,
		sessionTTL:    sessionTTL,
		activationTTL: activationTTL,
		issuer:        issuer,
		logger:        logger,
	}
}

// SessionDuration returns the configured session token lifetime.
func (ts *TokenServiceImpl) SessionDuration() time.Duration {
	return ts.sessionTTL
}

// SignActivation signs the pending-account payload with the activation TTL.
func (ts *TokenServiceImpl) SignActivation(claims *ActivationClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	claims.RegisteredClaims = ts.registeredClaims(claims.Login, ts.activationTTL)
	return ts.sign(claims)
}

// SignSession signs session claims with the session TTL.
func (ts *TokenServiceImpl) SignSession(claims *SessionClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	claims.RegisteredClaims = ts.registeredClaims(claims.AccountID, ts.sessionTTL)
	return ts.sign(claims)
}

// ValidateActivation parses and verifies an activation token.
func (ts *TokenServiceImpl) ValidateActivation(raw string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := ts.parseInto(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateSession parses and verifies a session token.
func (ts *TokenServiceImpl) ValidateSession(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := ts.parseInto(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ts *TokenServiceImpl) registeredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    ts.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (ts *TokenServiceImpl) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

func (ts *TokenServiceImpl) parseInto(raw string, claims jwt.Claims) error {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return ErrTokenMalformed
	}

	return nil
}
