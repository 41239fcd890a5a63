package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

type stubAuthService struct {
	registerFn        func(ctx context.Context, in ports.RegistrationInput) (*domain.Account, error)
	registerByAdminFn func(ctx context.Context, in ports.RegistrationInput, role domain.Role) (*domain.Account, error)
	createAdminFn     func(ctx context.Context, in ports.RegistrationInput) (*domain.Account, error)
	activateFn        func(ctx context.Context, token string) error
	resendFn          func(ctx context.Context, email string) error
	authenticateFn    func(ctx context.Context, email, password string) (string, error)
	initiateResetFn   func(ctx context.Context, email string) error
	completeResetFn   func(ctx context.Context, token, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) RegisterByAdmin(ctx context.Context, in ports.RegistrationInput, role domain.Role) (*domain.Account, error) {
	return s.registerByAdminFn(ctx, in, role)
}

func (s *stubAuthService) CreateAdmin(ctx context.Context, in ports.RegistrationInput) (*domain.Account, error) {
	return s.createAdminFn(ctx, in)
}

func (s *stubAuthService) Activate(ctx context.Context, token string) error {
	return s.activateFn(ctx, token)
}

func (s *stubAuthService) ResendActivation(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) InitiateReset(ctx context.Context, email string) error {
	return s.initiateResetFn(ctx, email)
}

func (s *stubAuthService) CompleteReset(ctx context.Context, token, newPassword string) error {
	return s.completeResetFn(ctx, token, newPassword)
}

type stubAccountService struct {
	profileFn        func(ctx context.Context, caller *domain.Principal) (*domain.Account, error)
	updateProfileFn  func(ctx context.Context, caller *domain.Principal, upd domain.ProfileUpdate) (*domain.Account, error)
	changePasswordFn func(ctx context.Context, caller *domain.Principal, current, next string) error
	listFn           func(ctx context.Context, caller *domain.Principal) ([]*domain.Account, error)
	getFn            func(ctx context.Context, caller *domain.Principal, id string) (*domain.Account, error)
	updateFn         func(ctx context.Context, caller *domain.Principal, id string, upd domain.AdminUpdate) (*domain.Account, error)
	deleteFn         func(ctx context.Context, caller *domain.Principal, id string) error
}

func (s *stubAccountService) Profile(ctx context.Context, caller *domain.Principal) (*domain.Account, error) {
	return s.profileFn(ctx, caller)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, caller *domain.Principal, upd domain.ProfileUpdate) (*domain.Account, error) {
	return s.updateProfileFn(ctx, caller, upd)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, caller *domain.Principal, current, next string) error {
	return s.changePasswordFn(ctx, caller, current, next)
}

func (s *stubAccountService) List(ctx context.Context, caller *domain.Principal) ([]*domain.Account, error) {
	return s.listFn(ctx, caller)
}

func (s *stubAccountService) Get(ctx context.Context, caller *domain.Principal, id string) (*domain.Account, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubAccountService) Update(ctx context.Context, caller *domain.Principal, id string, upd domain.AdminUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, caller, id, upd)
}

func (s *stubAccountService) Delete(ctx context.Context, caller *domain.Principal, id string) error {
	return s.deleteFn(ctx, caller, id)
}

var adminCaller = &domain.Principal{Subject: "root@example.com", FullName: "Root", Roles: []domain.Role{domain.RoleAdmin}}

// newContext builds an echo context with the validator installed. A non-nil
// principal is attached the way the auth gate does it.
func newContext(t *testing.T, method, target string, body io.Reader, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if p != nil {
		req = req.WithContext(domain.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// httpCode returns the status carried by an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
