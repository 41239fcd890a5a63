package domain

import "time"

const (
	ActivationTokenTTL    = 15 * time.Minute
	ActivationTokenLength = 7
	ResetTokenTTL         = time.Hour
)

// TokenState is derived from a SecondaryToken and the clock; it is never stored.
type TokenState int

const (
	TokenPending TokenState = iota
	TokenConsumed
	TokenExpired
)

func (s TokenState) String() string {
	switch s {
	case TokenPending:
		return "pending"
	case TokenConsumed:
		return "consumed"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// SecondaryToken is a single-use, server-persisted token used for account
// activation or password reset.
type SecondaryToken struct {
	Token      string
	AccountID  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// NewSecondaryToken builds a pending token valid for ttl from now.
func NewSecondaryToken(value, accountID string, now time.Time, ttl time.Duration) *SecondaryToken {
	return &SecondaryToken{
		Token:     value,
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// State reports the token state at now. Expiry wins over consumption so that
// a stale token always reads as expired.
func (t *SecondaryToken) State(now time.Time) TokenState {
	if now.After(t.ExpiresAt) {
		return TokenExpired
	}
	if t.ConsumedAt != nil {
		return TokenConsumed
	}
	return TokenPending
}

// Consume records the consumption time.
func (t *SecondaryToken) Consume(now time.Time) {
	at := now
	t.ConsumedAt = &at
}
