package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
	"github.com/learnhub/lms-platform/internal/core/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Roles = append([]domain.Role(nil), a.Roles...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, acc *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == acc.Email {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	r.seq++
	c := cloneAccount(acc)
	c.ID = fmt.Sprintf("acc-%d", r.seq)
	r.accounts[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, acc *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acc.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.accounts[acc.ID] = cloneAccount(acc)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.HasRole(role) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAccountRepo) get(email string) *domain.Account {
	a, _ := r.FindByEmail(context.Background(), email)
	return a
}

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.SecondaryToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.SecondaryToken)}
}

func cloneToken(t *domain.SecondaryToken) *domain.SecondaryToken {
	c := *t
	if t.ConsumedAt != nil {
		at := *t.ConsumedAt
		c.ConsumedAt = &at
	}
	return &c
}

func (r *stubTokenRepo) Save(_ context.Context, tok *domain.SecondaryToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tok.Token] = cloneToken(tok)
	return nil
}

func (r *stubTokenRepo) FindByToken(_ context.Context, token string) (*domain.SecondaryToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		return cloneToken(t), nil
	}
	return nil, domain.ErrInvalidToken
}

func (r *stubTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *stubTokenRepo) DeleteByAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.AccountID == accountID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *stubTokenRepo) forAccount(accountID string) []*domain.SecondaryToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SecondaryToken
	for _, t := range r.tokens {
		if t.AccountID == accountID {
			out = append(out, cloneToken(t))
		}
	}
	return out
}

// directTx runs fn without isolation.
type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubMailer struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMailer) last() (ports.MailMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ports.MailMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}

type stubThrottle struct {
	deny bool
	err  error
	keys []string
}

func (t *stubThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.keys = append(t.keys, key)
	return !t.deny, t.err
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type authFixture struct {
	svc      ports.AuthService
	accounts *stubAccountRepo
	tokens   *stubTokenRepo
	mailer   *stubMailer
	throttle *stubThrottle
	codec    *security.SessionCodec
	clock    *testClock
	start    time.Time
}

func newAuthFixture(roles domain.RoleSet) *authFixture {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &testClock{t: start}
	codec, err := security.NewSessionCodec(security.SessionConfig{Secret: testSecret, Issuer: "lms", TTL: time.Hour, Now: clock.Now})
	if err != nil {
		panic(err)
	}
	f := &authFixture{
		accounts: newStubAccountRepo(),
		tokens:   newStubTokenRepo(),
		mailer:   &stubMailer{},
		throttle: &stubThrottle{},
		codec:    codec,
		clock:    clock,
		start:    start,
	}
	f.svc = NewAuthService(AuthDeps{
		Accounts: f.accounts,
		Tokens:   f.tokens,
		Tx:       directTx{},
		Hasher:   security.NewBcryptHasher(bcrypt.MinCost),
		Sessions: codec,
		Mailer:   f.mailer,
		Throttle: f.throttle,
		Roles:    roles,
		Links: AuthLinks{
			ActivationURL:    "https://lms.example.com/activate",
			ResetPasswordURL: "https://lms.example.com/reset",
		},
		Now: clock.Now,
	}, zerolog.Nop())
	return f
}

func seededRoles() domain.RoleSet {
	return domain.NewRoleSet(domain.AllRoles...)
}

func alice() ports.RegistrationInput {
	return ports.RegistrationInput{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Phone:     "555-0100",
		Password:  "wonderland",
	}
}

var errSMTPDown = errors.New("smtp down")
