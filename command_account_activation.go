package atelier

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountActivationMessage consumes an activation token and materializes
// the account it carries.
type AccountActivationMessage struct {
	Token      string `json:"token"`
	OnResponse func(account *Account)
}

func (e AccountActivationMessage) Type() string { return "account.activation" }

// AccountActivationHandler is phase 2 of signup. The token is the only
// record of the pending account; replaying it after the first activation
// runs into the store's uniqueness constraints and surfaces as a
// validation failure, not a distinct outcome.
type AccountActivationHandler struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewAccountActivationHandler(repo RepositoryManager, tokens TokenService) *AccountActivationHandler {
	return &AccountActivationHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *AccountActivationHandler) WithLogger(logger Logger) *AccountActivationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *AccountActivationHandler) Execute(ctx context.Context, event AccountActivationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account activation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *AccountActivationHandler) execute(ctx context.Context, event AccountActivationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	claims, err := h.tokens.ValidateActivation(event.Token)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuthz, "unauthorized account verification attempt")
	}

	account := &Account{
		Login:        claims.Login,
		Email:        claims.Email,
		APIKey:       claims.APIKey,
		PasswordHash: claims.PasswordHash,
		RoleID:       claims.RoleID,
	}

	if id, err := hashid.NewUUID(claims.Email); err == nil {
		account.ID = id
	} else {
		account.ID = uuid.New()
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Accounts().CreateTx(ctx, tx, account)
		if err != nil {
			return err
		}
		account = created

		stats := &Statistics{
			AccountID:        account.ID,
			APIKey:           account.APIKey,
			NumberOfRequests: 0,
		}
		if _, err := h.repo.Statistics().CreateTx(ctx, tx, stats); err != nil {
			return err
		}

		if account.RoleID == RoleIDOperator {
			profile := &Operator{
				AccountID: account.ID,
				Phone:     claims.Phone,
			}
			if _, err := h.repo.Operators().CreateTx(ctx, tx, profile); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if IsConstraintViolation(err) {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "could not create the account").
				WithMetadata(map[string]any{
					"login": claims.Login,
					"email": claims.Email,
				})
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account activation transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(account)
	}

	return nil
}
