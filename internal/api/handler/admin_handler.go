package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// AdminHandler serves account management for administrators.
type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// List returns every account.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	accounts, err := h.accounts.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one account.
//
// @Summary      Get account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	acc, err := h.accounts.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// Update changes names, phone and the enabled flag of an account.
//
// @Summary      Update account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Account ID"
// @Param        body  body      adminUpdateRequest  true  "Fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req adminUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	acc, err := h.accounts.Update(c.Request().Context(), p, c.Param("id"), domain.AdminUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Enabled:   *req.Enabled,
	})
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// Delete removes an account and its pending tokens.
//
// @Summary      Delete account
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Account ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return notFound(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// notFound reports a missing account as 404 on resource routes.
func notFound(err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	return err
}
