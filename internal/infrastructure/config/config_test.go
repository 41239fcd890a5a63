package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.GRPCAddr != ":9090" {
		t.Fatalf("unexpected listen addresses %q %q", cfg.Port, cfg.GRPCAddr)
	}
	if cfg.Auth.SessionTTL != 24*time.Hour || cfg.Auth.BcryptCost != 10 {
		t.Fatalf("unexpected auth defaults %+v", cfg.Auth)
	}
	if cfg.Mail.Transport != "log" || cfg.Mail.Workers != 4 || cfg.Mail.Timeout != 30*time.Second {
		t.Fatalf("unexpected mail defaults %+v", cfg.Mail)
	}
	if cfg.Mongo.Database != "lms" || cfg.Mongo.Transactions {
		t.Fatalf("unexpected mongo defaults %+v", cfg.Mongo)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         secret,
		"SESSION_TTL":        "30m",
		"BCRYPT_COST":        "12",
		"MAIL_TRANSPORT":     "smtp",
		"MONGO_TRANSACTIONS": "true",
		"ACTIVATION_URL":     "https://lms.example.com/activate",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute || cfg.Auth.BcryptCost != 12 {
		t.Fatalf("overrides not applied %+v", cfg.Auth)
	}
	if !cfg.Mongo.Transactions || cfg.Mail.Transport != "smtp" {
		t.Fatalf("overrides not applied")
	}
	if cfg.Auth.ActivationURL != "https://lms.example.com/activate" {
		t.Fatalf("unexpected activation url %q", cfg.Auth.ActivationURL)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"bcrypt cost", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "2"}, "BCRYPT_COST"},
		{"mail transport", map[string]string{"JWT_SECRET": secret, "MAIL_TRANSPORT": "pigeon"}, "MAIL_TRANSPORT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
