package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/api/metrics"
	"github.com/learnhub/lms-platform/internal/core/authz"
	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// PrincipalKey is the echo.Context key holding the verified *domain.Principal.
const PrincipalKey = "principal"

// Auth verifies the bearer token and attaches the principal to both the echo
// context and the request context. The caller only ever learns
// "unauthenticated"; the precise reason goes to the log.
func Auth(codec ports.SessionCodec, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := authz.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			var p *domain.Principal
			if err == nil {
				p, err = codec.Verify(token)
			}
			if err != nil {
				reject(c, log, err)
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			c.Set(PrincipalKey, p)
			c.SetRequest(c.Request().WithContext(domain.WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

// Require enforces req against the principal attached by Auth. It must run
// after Auth for any non-open requirement.
func Require(req authz.Requirement, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := domain.PrincipalFrom(c.Request().Context())
			switch err := authz.Authorize(p, req); err {
			case nil:
				return next(c)
			case domain.ErrForbidden:
				reject(c, log, err)
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			default:
				reject(c, log, err)
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
		}
	}
}

// Refresh replaces the principal from the token with the one the resolver
// reports for the same subject, so role changes and disabled or deleted
// accounts take effect before the token expires.
func Refresh(resolver ports.PrincipalResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claimed, _ := domain.PrincipalFrom(c.Request().Context())
			p, err := resolver.Resolve(c.Request().Context(), claimed)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrForbidden):
				reject(c, log, err)
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			case errors.Is(err, domain.ErrUnauthenticated):
				reject(c, log, err)
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			default:
				return err
			}

			c.Set(PrincipalKey, p)
			c.SetRequest(c.Request().WithContext(domain.WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

// Gate is Auth followed by Require, or nothing for an open requirement.
// Role-gated requirements also run Refresh when resolver is non-nil.
func Gate(codec ports.SessionCodec, resolver ports.PrincipalResolver, req authz.Requirement, log zerolog.Logger) []echo.MiddlewareFunc {
	if req.IsOpen() {
		return nil
	}
	mws := []echo.MiddlewareFunc{Auth(codec, log)}
	if resolver != nil && len(req.AnyOf) > 0 {
		mws = append(mws, Refresh(resolver, log))
	}
	return append(mws, Require(req, log))
}

func reject(c echo.Context, log zerolog.Logger, err error) {
	reason := authz.Reason(err)
	metrics.GateRejectionsTotal.WithLabelValues("http", reason).Inc()
	log.Warn().
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("reason", reason).
		Msg("request rejected")
}
