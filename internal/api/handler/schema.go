package handler

import (
	"time"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// registerRequest is the body of every account creation route.
type registerRequest struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Phone     string `json:"phone"     validate:"required"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
}

func (r registerRequest) toInput() ports.RegistrationInput {
	return ports.RegistrationInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Password:  r.Password,
	}
}

type authenticationRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenQuery struct {
	Token string `query:"token" validate:"required"`
}

type emailQuery struct {
	Email string `query:"email" validate:"required,email"`
}

type resetPasswordQuery struct {
	Token       string `query:"token"       validate:"required"`
	NewPassword string `query:"newPassword" validate:"required,min=8,max=72"`
}

type profileUpdateRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72"`
}

type adminUpdateRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
	Enabled   *bool  `json:"enabled" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// accountResponse is the public view of an account.
type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Phone     string    `json:"phone"`
	Enabled   bool      `json:"enabled"`
	Locked    bool      `json:"locked"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	roles := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, r.String())
	}
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		Enabled:   a.Enabled,
		Locked:    a.Locked,
		Roles:     roles,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
