package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// MinSecretLength is the shortest HMAC key accepted for session tokens.
const MinSecretLength = 32

const defaultSessionTTL = 24 * time.Hour

// SessionConfig configures the session token codec.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	FullName string   `json:"fullname,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// SessionCodec mints and verifies HS256 session tokens. It holds no mutable
// state and is safe for concurrent use.
type SessionCodec struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewSessionCodec validates cfg and returns a ready codec.
func NewSessionCodec(cfg SessionConfig) (*SessionCodec, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("session codec: secret must be at least %d bytes", MinSecretLength)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &SessionCodec{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(opts...),
	}, nil
}

// TTL is the fixed validity window of minted tokens.
func (c *SessionCodec) TTL() time.Duration { return c.ttl }

// Mint signs a token for p valid for the configured TTL.
func (c *SessionCodec) Mint(p domain.Principal) (string, error) {
	if p.Subject == "" {
		return "", errors.New("session codec: empty subject")
	}
	now := c.now()

	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, r.String())
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		FullName: p.FullName,
		Roles:    roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("session codec: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the encoded principal.
func (c *SessionCodec) Verify(token string) (*domain.Principal, error) {
	claims := &sessionClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrMalformedToken
	}

	p := &domain.Principal{
		Subject:  claims.Subject,
		FullName: claims.FullName,
		Roles:    make([]domain.Role, 0, len(claims.Roles)),
	}
	for _, name := range claims.Roles {
		if r, err := domain.ParseRole(name); err == nil {
			p.Roles = append(p.Roles, r)
		}
	}
	return p, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrSessionExpired
	default:
		return domain.ErrMalformedToken
	}
}
