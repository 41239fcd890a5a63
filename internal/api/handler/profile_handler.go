package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

type ProfileHandler struct {
	accounts ports.AccountService
}

func NewProfileHandler(accounts ports.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Get returns the caller's account.
//
// @Summary      Current profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	acc, err := h.accounts.Profile(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// Update edits the caller's names and phone.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req profileUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	acc, err := h.accounts.UpdateProfile(c.Request().Context(), p, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile/change-password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.accounts.ChangePassword(c.Request().Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed"})
}
