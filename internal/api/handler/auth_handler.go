package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/api/metrics"
	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthService
	log  zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register creates a disabled student account and mails an activation code.
//
// @Summary      Register a new student
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	acc, err := h.auth.Register(c.Request().Context(), req.toInput())
	if acc != nil {
		metrics.RegistrationsTotal.WithLabelValues("self").Inc()
	}
	if err != nil {
		if errors.Is(err, domain.ErrMailDispatch) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send activation email")
		}
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "Account created, check your email for the activation code"})
}

// Authenticate exchanges credentials for a session token.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticationRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// ActivateAccount consumes an activation code.
//
// @Summary      Activate an account
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Activation code"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Router       /auth/activate-account [get]
func (h *AuthHandler) ActivateAccount(c echo.Context) error {
	var q tokenQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	err := h.auth.Activate(c.Request().Context(), q.Token)
	metrics.ActivationsTotal.WithLabelValues(activationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account activated"})
}

// ResendActivation issues a fresh activation code.
//
// @Summary      Resend the activation code
// @Tags         auth
// @Produce      json
// @Param        email  query     string  true  "Account email"
// @Success      202    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Failure      429    {object}  map[string]string
// @Router       /auth/resend-activation [post]
func (h *AuthHandler) ResendActivation(c echo.Context) error {
	var q emailQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if err := h.auth.ResendActivation(c.Request().Context(), q.Email); err != nil {
		if errors.Is(err, domain.ErrMailDispatch) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send activation email")
		}
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "Activation code sent"})
}

// ForgotPassword mails a password reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Produce      json
// @Param        email  query     string  true  "Account email"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Failure      429    {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var q emailQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	err := h.auth.InitiateReset(c.Request().Context(), q.Email)
	metrics.PasswordResetsTotal.WithLabelValues("initiate", resetResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

// ResetPassword replaces the password using a reset token.
//
// @Summary      Reset a password
// @Tags         auth
// @Produce      json
// @Param        token        query     string  true  "Reset token"
// @Param        newPassword  query     string  true  "New password"
// @Success      200          {object}  messageResponse
// @Failure      400          {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var q resetPasswordQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	err := h.auth.CompleteReset(c.Request().Context(), q.Token, q.NewPassword)
	metrics.PasswordResetsTotal.WithLabelValues("complete", resetResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset"})
}

// CreateAdmin bootstraps the first administrator.
//
// @Summary      Create the bootstrap administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/create-admin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	acc, err := h.auth.CreateAdmin(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("bootstrap").Inc()
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// RegisterAdmin provisions an enabled account with the requested role.
//
// @Summary      Provision an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string           true  "STUDENT, INSTRUCTOR or ADMIN"
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	role, err := domain.ParseRole(c.QueryParam("role"))
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	acc, err := h.auth.RegisterByAdmin(c.Request().Context(), req.toInput(), role)
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("admin").Inc()
	if p, err := caller(c); err == nil {
		h.log.Info().Str("by", p.Subject).Str("account_id", acc.ID).Msg("account provisioned by admin")
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrAccountLocked):
		return "locked"
	default:
		return "error"
	}
}

func activationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenConsumed):
		return "consumed"
	default:
		return "error"
	}
}

func resetResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTooManyRequests):
		return "throttled"
	default:
		return "error"
	}
}
