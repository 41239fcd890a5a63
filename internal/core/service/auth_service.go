package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
	"github.com/learnhub/lms-platform/internal/core/security"
)

// activation codes are short, so a fresh one may collide with a live record.
const maxTokenAttempts = 5

// AuthLinks holds the base URLs embedded in outbound emails.
type AuthLinks struct {
	ActivationURL    string
	ResetPasswordURL string
}

// AuthDeps groups the collaborators of the auth service.
type AuthDeps struct {
	Accounts ports.AccountRepository
	Tokens   ports.TokenRepository
	Tx       ports.TxRunner
	Hasher   ports.PasswordHasher
	Sessions ports.SessionCodec
	Mailer   ports.Mailer
	// Throttle is optional; nil disables rate limiting of outbound mail.
	Throttle ports.Throttle
	// Roles is the vocabulary seeded at bootstrap.
	Roles domain.RoleSet
	Links AuthLinks
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type authService struct {
	accounts ports.AccountRepository
	tokens   ports.TokenRepository
	tx       ports.TxRunner
	hasher   ports.PasswordHasher
	sessions ports.SessionCodec
	mailer   ports.Mailer
	throttle ports.Throttle
	roles    domain.RoleSet
	links    AuthLinks
	now      func() time.Time
	log      zerolog.Logger

	// dummyHash is compared against when the identity is unknown so both
	// failure paths pay the same hashing cost.
	dummyHash string
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(deps AuthDeps, log zerolog.Logger) ports.AuthService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	s := &authService{
		accounts: deps.Accounts,
		tokens:   deps.Tokens,
		tx:       deps.Tx,
		hasher:   deps.Hasher,
		sessions: deps.Sessions,
		mailer:   deps.Mailer,
		throttle: deps.Throttle,
		roles:    deps.Roles,
		links:    deps.Links,
		now:      func() time.Time { return now().UTC() },
		log:      log,
	}
	if h, err := deps.Hasher.Hash("lms-platform-unknown-identity"); err == nil {
		s.dummyHash = h
	} else {
		log.Warn().Err(err).Msg("could not prepare dummy credential hash")
	}
	return s
}

// Register creates a disabled STUDENT account, stores a 15 minute activation
// code and mails it. When the mail cannot be handed off the account is kept
// and the returned error wraps domain.ErrMailDispatch.
func (s *authService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Account, error) {
	if err := s.ensureAvailable(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if !s.roles.Contains(domain.RoleStudent) {
		return nil, fmt.Errorf("register: %w", domain.ErrConfiguration)
	}

	var (
		created *domain.Account
		code    string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		acc, err := s.createAccount(ctx, in, domain.RoleStudent, false)
		if err != nil {
			return err
		}
		tok, err := s.issueActivationToken(ctx, acc.ID)
		if err != nil {
			return err
		}
		created, code = acc, tok.Token
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("email", created.Email).Msg("account registered")

	if err := s.sendActivation(ctx, created, code); err != nil {
		return created, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

// RegisterByAdmin creates an enabled account holding role. No activation
// token is issued and no email is sent.
func (s *authService) RegisterByAdmin(ctx context.Context, in ports.RegistrationInput, role domain.Role) (*domain.Account, error) {
	if !s.roles.Contains(role) {
		return nil, fmt.Errorf("register by admin: %w", domain.ErrRoleNotFound)
	}
	acc, err := s.createAccount(ctx, in, role, true)
	if err != nil {
		return nil, fmt.Errorf("register by admin: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Str("role", role.String()).Msg("account provisioned")
	return acc, nil
}

// CreateAdmin bootstraps the first ADMIN account. It is refused once any
// ADMIN exists.
func (s *authService) CreateAdmin(ctx context.Context, in ports.RegistrationInput) (*domain.Account, error) {
	if !s.roles.Contains(domain.RoleAdmin) {
		return nil, fmt.Errorf("create admin: %w", domain.ErrConfiguration)
	}
	exists, err := s.accounts.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("create admin: %w", domain.ErrForbidden)
	}
	acc, err := s.createAccount(ctx, in, domain.RoleAdmin, true)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Msg("bootstrap admin created")
	return acc, nil
}

// Activate enables the account owning token. Only activation codes are
// accepted. Checks run in the order missing, expired, consumed.
func (s *authService) Activate(ctx context.Context, token string) error {
	if !security.IsActivationCode(token, domain.ActivationTokenLength) {
		return domain.ErrInvalidToken
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tok, err := s.tokens.FindByToken(ctx, token)
		if err != nil {
			return err
		}
		now := s.now()
		switch tok.State(now) {
		case domain.TokenExpired:
			return domain.ErrTokenExpired
		case domain.TokenConsumed:
			return domain.ErrTokenConsumed
		}

		acc, err := s.accounts.FindByID(ctx, tok.AccountID)
		if err != nil {
			return err
		}
		acc.Activate(now)
		if err := s.accounts.Update(ctx, acc); err != nil {
			return err
		}
		tok.Consume(now)
		return s.tokens.Save(ctx, tok)
	})
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	s.log.Info().Msg("account activated")
	return nil
}

// ResendActivation issues a fresh activation code for an account that is not
// yet enabled.
func (s *authService) ResendActivation(ctx context.Context, email string) error {
	if err := s.allow(ctx, "resend-activation", email); err != nil {
		return fmt.Errorf("resend activation: %w", err)
	}
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("resend activation: %w", err)
	}
	if acc.Enabled {
		return fmt.Errorf("resend activation: %w", domain.ErrAlreadyActive)
	}
	tok, err := s.issueActivationToken(ctx, acc.ID)
	if err != nil {
		return fmt.Errorf("resend activation: %w", err)
	}
	if err := s.sendActivation(ctx, acc, tok.Token); err != nil {
		return fmt.Errorf("resend activation: %w", err)
	}
	return nil
}

// Authenticate verifies credentials and mints a session token. Unknown
// identities and wrong passwords are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, email, password string) (string, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		_ = s.hasher.Verify(password, s.dummyHash)
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if err := s.hasher.Verify(password, acc.PasswordHash); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if acc.Locked {
		return "", domain.ErrAccountLocked
	}
	if !acc.Enabled {
		return "", domain.ErrAccountDisabled
	}

	token, err := s.sessions.Mint(domain.Principal{
		Subject:  acc.Email,
		FullName: acc.FullName(),
		Roles:    acc.Roles,
	})
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	return token, nil
}

// InitiateReset stores a 60 minute reset token and mails a link carrying it.
func (s *authService) InitiateReset(ctx context.Context, email string) error {
	if err := s.allow(ctx, "forgot-password", email); err != nil {
		return fmt.Errorf("initiate reset: %w", err)
	}
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("initiate reset: %w", err)
	}

	tok := domain.NewSecondaryToken(security.NewResetToken(), acc.ID, s.now(), domain.ResetTokenTTL)
	if err := s.tokens.Save(ctx, tok); err != nil {
		return fmt.Errorf("initiate reset: %w", err)
	}

	msg := ports.MailMessage{
		To:       acc.Email,
		Name:     acc.FullName(),
		Subject:  "Password reset",
		Template: ports.TemplateResetPassword,
		Link:     buildLink(s.links.ResetPasswordURL, tok.Token),
		Code:     tok.Token,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("account_id", acc.ID).Msg("reset email not dispatched")
		return fmt.Errorf("initiate reset: %w", domain.ErrMailDispatch)
	}
	return nil
}

// CompleteReset replaces the credential of the token owner and deletes the
// token, so a second call with the same value fails with ErrInvalidToken.
// Only reset tokens are accepted.
func (s *authService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if !security.IsResetToken(token) {
		return domain.ErrInvalidToken
	}
	if newPassword == "" {
		return fmt.Errorf("complete reset: %w", domain.ErrInvalidInput)
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tok, err := s.tokens.FindByToken(ctx, token)
		if err != nil {
			return err
		}
		now := s.now()
		switch tok.State(now) {
		case domain.TokenExpired:
			return domain.ErrTokenExpired
		case domain.TokenConsumed:
			return domain.ErrTokenConsumed
		}

		acc, err := s.accounts.FindByID(ctx, tok.AccountID)
		if err != nil {
			return err
		}
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		acc.PasswordHash = hash
		acc.UpdatedAt = now
		if err := s.accounts.Update(ctx, acc); err != nil {
			return err
		}
		return s.tokens.Delete(ctx, tok.Token)
	})
	if err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	s.log.Info().Msg("password reset completed")
	return nil
}

func (s *authService) createAccount(ctx context.Context, in ports.RegistrationInput, role domain.Role, enabled bool) (*domain.Account, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := s.ensureAvailable(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.accounts.Create(ctx, &domain.Account{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Enabled:      enabled,
		Roles:        []domain.Role{role},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// ensureAvailable returns domain.ErrDuplicateIdentity when email is taken.
func (s *authService) ensureAvailable(ctx context.Context, email string) error {
	_, err := s.accounts.FindByEmail(ctx, strings.TrimSpace(email))
	switch {
	case err == nil:
		return domain.ErrDuplicateIdentity
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}

func (s *authService) issueActivationToken(ctx context.Context, accountID string) (*domain.SecondaryToken, error) {
	for i := 0; i < maxTokenAttempts; i++ {
		code, err := security.NewActivationCode(domain.ActivationTokenLength)
		if err != nil {
			return nil, err
		}
		if _, err := s.tokens.FindByToken(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrInvalidToken) {
			return nil, err
		}
		tok := domain.NewSecondaryToken(code, accountID, s.now(), domain.ActivationTokenTTL)
		if err := s.tokens.Save(ctx, tok); err != nil {
			return nil, err
		}
		return tok, nil
	}
	return nil, errors.New("could not allocate a unique activation code")
}

func (s *authService) sendActivation(ctx context.Context, acc *domain.Account, code string) error {
	msg := ports.MailMessage{
		To:       acc.Email,
		Name:     acc.FullName(),
		Subject:  "Account activation",
		Template: ports.TemplateActivateAccount,
		Link:     buildLink(s.links.ActivationURL, code),
		Code:     code,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("account_id", acc.ID).Msg("activation email not dispatched")
		return domain.ErrMailDispatch
	}
	return nil
}

// allow consults the throttle. A throttle outage does not block the flow.
func (s *authService) allow(ctx context.Context, action, email string) error {
	if s.throttle == nil {
		return nil
	}
	ok, err := s.throttle.Allow(ctx, action+":"+strings.ToLower(email))
	if err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("throttle check failed, allowing")
		return nil
	}
	if !ok {
		return domain.ErrTooManyRequests
	}
	return nil
}

func buildLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
