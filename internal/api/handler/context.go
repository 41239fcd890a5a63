package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// caller returns the principal attached by the auth gate. Its absence on a
// gated route means the route was wired without the gate.
func caller(c echo.Context) (*domain.Principal, error) {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return p, nil
}

// bindBody binds and validates a JSON body.
func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindQuery binds and validates query parameters regardless of method.
func bindQuery(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
