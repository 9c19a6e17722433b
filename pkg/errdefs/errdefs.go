package errdefs

import (
	"net/http"

	"github.com/pkg/errors"
)

// Sentinel errors for the four client-visible failure classes. Operations
// wrap these with context; handlers map them to HTTP statuses. Checks run
// in a fixed order (authentication, existence, permission, value
// constraints) so the surfaced class is deterministic.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Unauthorized wraps ErrUnauthorized with a caller-facing message.
func Unauthorized(msg string) error { return errors.Wrap(ErrUnauthorized, msg) }

// NotFound wraps ErrNotFound with a caller-facing message.
func NotFound(msg string) error { return errors.Wrap(ErrNotFound, msg) }

// Forbidden wraps ErrForbidden with a caller-facing message.
func Forbidden(msg string) error { return errors.Wrap(ErrForbidden, msg) }

// InvalidArgument wraps ErrInvalidArgument with a caller-facing message.
func InvalidArgument(msg string) error { return errors.Wrap(ErrInvalidArgument, msg) }

// HTTPStatus maps an operation error to its response status. Anything
// outside the taxonomy is a server-side failure.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
