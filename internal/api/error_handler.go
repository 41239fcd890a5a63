package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// statusOf lists the domain errors a client is allowed to see, with the
// status each one maps to. The sentinel's own message is returned.
var statusOf = []struct {
	err  error
	code int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrDuplicateIdentity, http.StatusBadRequest},
	{domain.ErrRoleNotFound, http.StatusBadRequest},
	{domain.ErrInvalidToken, http.StatusBadRequest},
	{domain.ErrTokenExpired, http.StatusBadRequest},
	{domain.ErrTokenConsumed, http.StatusBadRequest},
	{domain.ErrAccountNotFound, http.StatusBadRequest},
	{domain.ErrAlreadyActive, http.StatusBadRequest},
	{domain.ErrInvalidMarks, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrAccountDisabled, http.StatusForbidden},
	{domain.ErrAccountLocked, http.StatusForbidden},
	{domain.ErrTooManyRequests, http.StatusTooManyRequests},
	{domain.ErrMailDispatch, http.StatusInternalServerError},
	{domain.ErrConfiguration, http.StatusInternalServerError},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, gate rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, s := range statusOf {
		if errors.Is(err, s.err) {
			if s.code >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return s.code, s.err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
