package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKeyToken is the echo context key holding the raw bearer token.
const ContextKeyToken = "bearer_token"

// BearerToken extracts the token of an "Authorization: Bearer <token>" header
// into the context. It never rejects a request: verification and the
// single-session check belong to the account service.
func BearerToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := parseBearer(c.Request().Header.Get(echo.HeaderAuthorization)); token != "" {
				c.Set(ContextKeyToken, token)
			}
			return next(c)
		}
	}
}

func parseBearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
