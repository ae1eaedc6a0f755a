package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/middleware"
	"github.com/userhub/accounts-api/internal/core/domain"
)

// bearerToken returns the token extracted by the BearerToken middleware, or
// "" when the request carried none. Rejecting a missing token is left to the
// service so that each operation answers with its own message.
func bearerToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextKeyToken).(string)
	return token
}

// bindJSON decodes the body into dst and turns decoder failures into
// validation errors: a wrong JSON type names the field, anything else is an
// invalid payload.
func bindJSON(c echo.Context, dst any) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return domain.NewError(domain.ErrValidation, fieldLabel(ute.Field)+" must be a string")
	}
	return domain.NewError(domain.ErrValidation, "Invalid JSON payload")
}

// fieldLabel turns a JSON field path into a sentence-leading label.
func fieldLabel(field string) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// presentInt reports a loosely typed JSON value as an int pointer: nil when
// the field was absent, -1 when the value is not a recognisable integer.
func presentInt(v any) *int {
	if v == nil {
		return nil
	}
	n := -1
	switch x := v.(type) {
	case float64:
		n = int(x)
	case string:
		if parsed, err := strconv.Atoi(x); err == nil {
			n = parsed
		}
	case bool:
		n = 0
		if x {
			n = 1
		}
	}
	return &n
}

// pageParam parses ?page=N, falling back to 1.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
