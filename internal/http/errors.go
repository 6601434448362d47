package http

import (
	"errors"
	"net/http"

	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/pkg/httpx"
)

// APIError is the uniform error body. The shape matches the rate limiter's
// rejection payload so clients only ever parse one error format.
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string { return e.Detail }

// WriteError writes the error as JSON. Unauthorized responses carry the
// WWW-Authenticate challenge expected by bearer-token clients.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	ErrAccountExists = &APIError{
		StatusCode: http.StatusConflict,
		Detail:     "User already exists",
	}

	ErrUsernameExists = &APIError{
		StatusCode: http.StatusConflict,
		Detail:     "Username is already taken",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Detail:     "Incorrect username or password",
	}

	ErrNotAuthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Detail:     "Not authenticated",
	}

	ErrAdminOnly = &APIError{
		StatusCode: http.StatusForbidden,
		Detail:     "Admin privileges required",
	}

	ErrUserNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Detail:     "User does not exist",
	}

	ErrContactNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Detail:     "Contact not found",
	}

	ErrVerification = &APIError{
		StatusCode: http.StatusBadRequest,
		Detail:     "Verification error",
	}

	ErrWrongOldPassword = &APIError{
		StatusCode: http.StatusBadRequest,
		Detail:     "Incorrect old password",
	}

	ErrSamePassword = &APIError{
		StatusCode: http.StatusBadRequest,
		Detail:     "New password must be different from the current password",
	}

	ErrMalformedBody = &APIError{
		StatusCode: http.StatusBadRequest,
		Detail:     "Malformed request body",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Detail:     "Internal server error",
	}
)

// writeServiceError maps service sentinels onto the API taxonomy. Anything
// unmapped is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		ErrAccountExists.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		ErrUsernameExists.WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		ErrAdminOnly.WriteError(w)
	case errors.Is(err, service.ErrBadToken):
		ErrVerification.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrBadCredentials):
		ErrWrongOldPassword.WriteError(w)
	case errors.Is(err, service.ErrSamePassword):
		ErrSamePassword.WriteError(w)
	default:
		ErrServerError.WriteError(w)
	}
}
