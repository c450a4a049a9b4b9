package atelier

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// LoginResult couples the signed session token with the claims it
// carries, so the HTTP layer can mint the client-readable marker without
// re-parsing the token.
type LoginResult struct {
	Token  string
	Claims *SessionClaims
}

// Auther verifies credentials against the store and issues sessions.
type Auther struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Auther
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies the login/password pair and returns a signed session.
// A missing account and a bad password are indistinguishable to the
// caller; both come back as a CategoryAuth error.
func (s *Auther) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	account, err := s.repo.Accounts().GetByLogin(ctx, login)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.New("invalid credentials", errors.CategoryAuth).
				WithMetadata(map[string]any{"login": login})
		}
		s.logger.Error("Login account lookup error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up account")
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, errors.New("invalid credentials", errors.CategoryAuth).
			WithMetadata(map[string]any{"login": login})
	}

	role := ""
	if account.Role != nil {
		role = account.Role.Name
	}
	if role == "" {
		role = RoleName(account.RoleID)
	}

	claims := &SessionClaims{
		AccountID: account.ID.String(),
		Login:     account.Login,
		Email:     account.Email,
		Role:      role,
	}

	token, err := s.tokens.SignSession(claims)
	if err != nil {
		s.logger.Error("Login session signing error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to sign session")
	}

	return &LoginResult{Token: token, Claims: claims}, nil
}

// SessionFromToken verifies a raw session token and returns its claims.
func (s *Auther) SessionFromToken(raw string) (*SessionClaims, error) {
	claims, err := s.tokens.ValidateSession(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}
