package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

const registerBody = `{"firstname":"Alice","lastname":"Liddell","email":"alice@example.com","phone":"555-0100","password":"wonderland"}`

func TestAuthHandler_Register_Accepted(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegistrationInput) (*domain.Account, error) {
			if in.Email != "alice@example.com" || in.FirstName != "Alice" || in.Password != "wonderland" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "acc-1", Email: in.Email}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/auth/register", strings.NewReader(registerBody), nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegistrationInput) (*domain.Account, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	cases := map[string]string{
		"bad email":      `{"firstname":"A","lastname":"B","email":"nope","phone":"1","password":"wonderland"}`,
		"short password": `{"firstname":"A","lastname":"B","email":"a@example.com","phone":"1","password":"short"}`,
		"missing names":  `{"email":"a@example.com","phone":"1","password":"wonderland"}`,
		"not json":       `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(t, http.MethodPost, "/auth/register", strings.NewReader(body), nil)
			if code := httpCode(h.Register(c)); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
		})
	}
}

func TestAuthHandler_Register_MailFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegistrationInput) (*domain.Account, error) {
			return &domain.Account{ID: "acc-1"}, fmt.Errorf("register: %w", domain.ErrMailDispatch)
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/auth/register", strings.NewReader(registerBody), nil)
	err := h.Register(c)
	if httpCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestAuthHandler_Register_DomainErrorPassesThrough(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegistrationInput) (*domain.Account, error) {
			return nil, domain.ErrDuplicateIdentity
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/auth/register", strings.NewReader(registerBody), nil)
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthHandler_Authenticate(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(_ context.Context, email, password string) (string, error) {
			if email == "alice@example.com" && password == "wonderland" {
				return "signed.jwt.token", nil
			}
			return "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/auth/authenticate",
		strings.NewReader(`{"email":"alice@example.com","password":"wonderland"}`), nil)
	if err := h.Authenticate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusOK || resp["token"] != "signed.jwt.token" {
		t.Fatalf("unexpected response %d %v", rec.Code, resp)
	}

	c, _ = newContext(t, http.MethodPost, "/auth/authenticate",
		strings.NewReader(`{"email":"alice@example.com","password":"nope"}`), nil)
	if err := h.Authenticate(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ActivateAccount(t *testing.T) {
	var got string
	stub := &stubAuthService{
		activateFn: func(_ context.Context, token string) error {
			got = token
			if token == "0000000" {
				return domain.ErrTokenExpired
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodGet, "/auth/activate-account?token=1234567", nil, nil)
	if err := h.ActivateAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || got != "1234567" {
		t.Fatalf("unexpected result %d token=%q", rec.Code, got)
	}

	c, _ = newContext(t, http.MethodGet, "/auth/activate-account?token=0000000", nil, nil)
	if err := h.ActivateAccount(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	c, _ = newContext(t, http.MethodGet, "/auth/activate-account", nil, nil)
	if code := httpCode(h.ActivateAccount(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", code)
	}
}

func TestAuthHandler_ResendActivation(t *testing.T) {
	stub := &stubAuthService{
		resendFn: func(_ context.Context, email string) error {
			if email != "alice@example.com" {
				return domain.ErrAccountNotFound
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/auth/resend-activation?email=alice@example.com", nil, nil)
	if err := h.ResendActivation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestAuthHandler_ForgotPassword_Throttled(t *testing.T) {
	stub := &stubAuthService{
		initiateResetFn: func(context.Context, string) error { return domain.ErrTooManyRequests },
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/auth/forgot-password?email=alice@example.com", nil, nil)
	if err := h.ForgotPassword(c); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	var gotToken, gotPassword string
	stub := &stubAuthService{
		completeResetFn: func(_ context.Context, token, newPassword string) error {
			gotToken, gotPassword = token, newPassword
			return nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/auth/reset-password?token=abc&newPassword=brand-new-pass", nil, nil)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotToken != "abc" || gotPassword != "brand-new-pass" {
		t.Fatalf("unexpected result %d %q %q", rec.Code, gotToken, gotPassword)
	}

	c, _ = newContext(t, http.MethodPost, "/auth/reset-password?token=abc&newPassword=short", nil, nil)
	if code := httpCode(h.ResetPassword(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", code)
	}
}

func TestAuthHandler_RegisterAdmin(t *testing.T) {
	var gotRole domain.Role
	stub := &stubAuthService{
		registerByAdminFn: func(_ context.Context, in ports.RegistrationInput, role domain.Role) (*domain.Account, error) {
			gotRole = role
			return &domain.Account{ID: "acc-2", Email: in.Email, Enabled: true, Roles: []domain.Role{role}}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/auth/register-admin?role=INSTRUCTOR", strings.NewReader(registerBody), adminCaller)
	if err := h.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotRole != domain.RoleInstructor {
		t.Fatalf("unexpected result %d role=%v", rec.Code, gotRole)
	}
	var resp accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Enabled || len(resp.Roles) != 1 || resp.Roles[0] != "INSTRUCTOR" {
		t.Fatalf("unexpected account payload: %+v", resp)
	}

	c, _ = newContext(t, http.MethodPost, "/auth/register-admin?role=JANITOR", strings.NewReader(registerBody), adminCaller)
	if err := h.RegisterAdmin(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestAuthHandler_CreateAdmin_Forbidden(t *testing.T) {
	stub := &stubAuthService{
		createAdminFn: func(context.Context, ports.RegistrationInput) (*domain.Account, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/auth/create-admin", strings.NewReader(registerBody), nil)
	if err := h.CreateAdmin(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
