package atelier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// ActivationMailSubject is the fixed subject of the activation email.
const ActivationMailSubject = "Account activation"

var activationMailBody = template.Must(template.New("activation").Parse(
	`<p>Thanks for signing up. Click the link below to activate your account. The link is valid for 7 days.</p>
<p><a href="{{.Link}}">Activation link</a></p>`,
))

// RegistrationRequestMessage is the phase-1 signup payload. No account
// row exists until the activation link is used.
type RegistrationRequestMessage struct {
	Login            string `json:"login"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Phone            string `json:"phone,omitempty"`
	WantToBeOperator bool   `json:"want_to_be_operator"`
	OnResponse       func(resp *RegistrationRequestResponse)
}

func (e RegistrationRequestMessage) Type() string { return "account.registration_request" }

type RegistrationRequestResponse struct {
	Email   string
	Success bool
}

// RegistrationRequestHandler validates identity uniqueness, mints the
// activation token carrying the full pending account, and dispatches the
// activation email. It performs no database writes.
type RegistrationRequestHandler struct {
	repo    RepositoryManager
	tokens  TokenService
	mailer  Mailer
	keygen  KeyGenerator
	baseURL string
	logger  Logger
}

func NewRegistrationRequestHandler(repo RepositoryManager, tokens TokenService, mailer Mailer, baseURL string) *RegistrationRequestHandler {
	return &RegistrationRequestHandler{
		repo:    repo,
		tokens:  tokens,
		mailer:  mailer,
		keygen:  GenerateAPIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  defLogger{},
	}
}

func (h *RegistrationRequestHandler) WithKeyGenerator(keygen KeyGenerator) *RegistrationRequestHandler {
	if keygen != nil {
		h.keygen = keygen
	}
	return h
}

func (h *RegistrationRequestHandler) WithLogger(logger Logger) *RegistrationRequestHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegistrationRequestHandler) Execute(ctx context.Context, event RegistrationRequestMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during registration request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegistrationRequestHandler) execute(ctx context.Context, event RegistrationRequestMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := h.ensureIdentityFree(ctx, event.Login, event.Email); err != nil {
		return err
	}

	apiKey, err := h.uniqueAPIKey(ctx)
	if err != nil {
		return err
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	claims := &ActivationClaims{
		Login:        event.Login,
		Email:        event.Email,
		APIKey:       apiKey,
		PasswordHash: hash,
		RoleID:       ResolveSignupRole(event.WantToBeOperator),
		Phone:        event.Phone,
	}

	token, err := h.tokens.SignActivation(claims)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign activation token")
	}

	msg, err := h.activationEmail(event.Email, token)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render activation email")
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		h.logger.Error("activation email dispatch failed", "error", err, "email", event.Email)
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to dispatch activation email").
			WithTextCode(TextCodeMailDispatch)
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegistrationRequestResponse{
			Email:   event.Email,
			Success: true,
		})
	}

	return nil
}

func (h *RegistrationRequestHandler) ensureIdentityFree(ctx context.Context, login, email string) error {
	_, err := h.repo.Accounts().FindByLoginOrEmail(ctx, login, email)
	if err == nil {
		return goerrors.New("an account with that login or email already exists", goerrors.CategoryConflict).
			WithMetadata(map[string]any{
				"login": login,
				"email": email,
			})
	}

	if !repository.IsRecordNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check identity uniqueness")
	}

	return nil
}

// uniqueAPIKey keeps generating candidates until the store reports one
// unused. One store round trip per attempt, no bound, no backoff:
// collisions in a 128-bit keyspace are expected to be rare.
func (h *RegistrationRequestHandler) uniqueAPIKey(ctx context.Context) (string, error) {
	for {
		key, err := h.keygen()
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate api key")
		}

		used, err := h.repo.Accounts().APIKeyInUse(ctx, key)
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to probe api key usage")
		}

		if !used {
			return key, nil
		}
	}
}

func (h *RegistrationRequestHandler) activationEmail(email, token string) (Email, error) {
	link := fmt.Sprintf("%s/auth/activation?token=%s", h.baseURL, url.QueryEscape(token))

	var body bytes.Buffer
	if err := activationMailBody.Execute(&body, map[string]string{"Link": link}); err != nil {
		return Email{}, err
	}

	return Email{
		To:      email,
		Subject: ActivationMailSubject,
		HTML:    body.String(),
	}, nil
}
