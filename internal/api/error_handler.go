package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Lookup
// misses and internal failures fill Error, everything else fills Message.
type errorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"status": false, "message"|"error": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	if msg, ok := domain.Message(err); ok {
		switch {
		case errors.Is(err, domain.ErrUnknownEmail):
			return http.StatusNotFound, errorResponse{Message: msg}
		case errors.Is(err, domain.ErrEmailOwned):
			return http.StatusForbidden, errorResponse{Message: msg}
		case errors.Is(err, domain.ErrUserNotFound):
			return http.StatusBadRequest, errorResponse{Error: msg}
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
			return http.StatusBadRequest, errorResponse{Message: msg}
		case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
			return http.StatusForbidden, errorResponse{Message: msg}
		}
	}

	// Echo's own errors (unknown route, method not allowed, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"}
}
