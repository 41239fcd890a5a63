package authz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc", "abc", false},
		{"", "", true},
		{"Bearer", "", true},
		{"Bearer    ", "", true},
		{"Basic dXNlcjpwYXNz", "", true},
		{"abc.def.ghi", "", true},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("BearerToken(%q): expected ErrUnauthenticated, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("BearerToken(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestReason(t *testing.T) {
	cases := map[error]string{
		domain.ErrSessionExpired:                           "expired",
		domain.ErrBadSignature:                             "bad_signature",
		fmt.Errorf("verify: %w", domain.ErrMalformedToken): "malformed",
		domain.ErrForbidden:                                "forbidden",
		domain.ErrUnauthenticated:                          "missing",
		errors.New("boom"):                                 "error",
	}
	for err, want := range cases {
		if got := Reason(err); got != want {
			t.Fatalf("Reason(%v) = %q, want %q", err, got, want)
		}
	}
}
