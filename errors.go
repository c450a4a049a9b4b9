package atelier

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// ErrAccountNotFound is the error we return for unknown accounts
var ErrAccountNotFound = stderrors.New("account not found")

// ErrMismatchedHashAndPassword is returned when credentials do not verify
var ErrMismatchedHashAndPassword = stderrors.New("mismatched hash and password")

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = stderrors.New("string should not be empty")

// TextCodeMailDispatch tags mail transport failures so the HTTP layer can
// answer 503 instead of a generic 500.
const TextCodeMailDispatch = "MAIL_DISPATCH_FAILED"

// HTTPStatus translates a workflow error into the response status. Raw
// store and transport errors never reach the client, only the status and
// a fixed message do.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if repository.IsRecordNotFound(err) {
		return http.StatusNotFound
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		return http.StatusInternalServerError
	}

	if rich.TextCode == TextCodeMailDispatch {
		return http.StatusServiceUnavailable
	}

	switch rich.Category {
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryValidation:
		return http.StatusUnprocessableEntity
	case errors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsConstraintViolation will check for store-level uniqueness errors.
// Covers the sqlite and postgres wordings.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
