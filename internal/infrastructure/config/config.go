package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	minSecretLength = 32
	minBcryptCost   = 4
	maxBcryptCost   = 31
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	GRPCAddr string `env:"GRPC_ADDR, default=:9090"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mail  MailConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTIssuer        string        `env:"JWT_ISSUER,         default=lms-platform"`
	SessionTTL       time.Duration `env:"SESSION_TTL,        default=24h"`
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	ActivationURL    string        `env:"ACTIVATION_URL,     default=http://localhost:5173/activate-account"`
	ResetPasswordURL string        `env:"RESET_PASSWORD_URL, default=http://localhost:5173/reset-password"`
}

type MailConfig struct {
	// Transport is "smtp" or "log".
	Transport string        `env:"MAIL_TRANSPORT, default=log"`
	Host      string        `env:"MAIL_HOST,      default=localhost"`
	Port      int           `env:"MAIL_PORT,      default=1025"`
	Username  string        `env:"MAIL_USERNAME"`
	Password  string        `env:"MAIL_PASSWORD"`
	From      string        `env:"MAIL_FROM,      default=no-reply@lms.local"`
	Workers   int           `env:"MAIL_WORKERS,   default=4"`
	Throttle  time.Duration `env:"MAIL_THROTTLE,  default=1m"`
	Timeout   time.Duration `env:"MAIL_TIMEOUT,   default=30s"`
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=lms"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the process cannot safely start with.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	switch c.Mail.Transport {
	case "smtp", "log":
	default:
		return fmt.Errorf("config: unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}
	return nil
}

// Pretty reports whether logs should be human readable.
func (c *Config) Pretty() bool { return c.Env == "development" }
