package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("hash equals plaintext")
	}
	if err := h.Verify("correct horse", hash); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := h.Verify("wrong horse", hash); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatalf("expected distinct salted hashes")
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("x", MaxPasswordLength+1)); err == nil {
		t.Fatalf("expected error for long password")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if h := NewBcryptHasher(1); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}

func TestNewActivationCode(t *testing.T) {
	code, err := NewActivationCode(domain.ActivationTokenLength)
	if err != nil {
		t.Fatalf("NewActivationCode: %v", err)
	}
	if len(code) != domain.ActivationTokenLength {
		t.Fatalf("expected %d digits, got %q", domain.ActivationTokenLength, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
}

func TestNewResetToken_Unique(t *testing.T) {
	if NewResetToken() == NewResetToken() {
		t.Fatalf("expected unique reset tokens")
	}
}

func TestTokenShapes(t *testing.T) {
	code, err := NewActivationCode(domain.ActivationTokenLength)
	if err != nil {
		t.Fatalf("NewActivationCode: %v", err)
	}
	reset := NewResetToken()

	cases := []struct {
		value      string
		activation bool
		reset      bool
	}{
		{code, true, false},
		{reset, false, true},
		{"", false, false},
		{"123456", false, false},
		{"12345678", false, false},
		{"12a4567", false, false},
		{strings.ToUpper(reset), false, true},
		{"{" + reset + "}", false, false},
	}
	for _, tc := range cases {
		if got := IsActivationCode(tc.value, domain.ActivationTokenLength); got != tc.activation {
			t.Errorf("IsActivationCode(%q) = %v, want %v", tc.value, got, tc.activation)
		}
		if got := IsResetToken(tc.value); got != tc.reset {
			t.Errorf("IsResetToken(%q) = %v, want %v", tc.value, got, tc.reset)
		}
	}
}
