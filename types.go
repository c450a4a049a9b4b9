package atelier

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Email is a message handed to the Mail Dispatcher. Delivery and bounce
// handling are the transport's problem; we only wait for the dispatch
// outcome.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer dispatches a single email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, login, password string) (*LoginResult, error)
	SessionFromToken(token string) (*SessionClaims, error)
}

var _ TokenService = (*TokenServiceImpl)(nil)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ATELIER "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ATELIER "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ATELIER "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ATELIER "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
