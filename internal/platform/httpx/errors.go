package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-web/console-core/internal/shared"
)

// RespondError maps a failure kind to its HTTP status and a
// user-distinguishable message. Internal details never leak: unknown
// errors collapse to a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		Failure(w, http.StatusUnauthorized, "session expired, please log in again")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Failure(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, shared.ErrUnauthorized):
		Failure(w, http.StatusForbidden, "you do not have permission to do that")
	case errors.Is(err, shared.ErrNotFound):
		Failure(w, http.StatusNotFound, "not found")
	case errors.Is(err, shared.ErrDuplicateName):
		Failure(w, http.StatusBadRequest, "that name is already taken")
	case errors.Is(err, shared.ErrInvalidPermission):
		Failure(w, http.StatusBadRequest, "unknown permission id")
	case errors.Is(err, shared.ErrImmutable):
		Failure(w, http.StatusConflict, "system roles cannot be changed that way")
	case errors.Is(err, shared.ErrStorageUnavailable):
		Failure(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry")
	default:
		Failure(w, http.StatusInternalServerError, "internal error")
	}
}
