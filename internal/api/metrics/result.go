package metrics

import (
	"errors"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// Result maps an operation outcome to the result label shared by the
// account counters.
func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
		return "denied"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
