package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/core/authz"
	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

var adminOnly = authz.AnyRole(domain.RoleAdmin)

type accountService struct {
	accounts ports.AccountRepository
	tokens   ports.TokenRepository
	tx       ports.TxRunner
	hasher   ports.PasswordHasher
	now      func() time.Time
	log      zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(
	accounts ports.AccountRepository,
	tokens ports.TokenRepository,
	tx ports.TxRunner,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{
		accounts: accounts,
		tokens:   tokens,
		tx:       tx,
		hasher:   hasher,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (s *accountService) Profile(ctx context.Context, caller *domain.Principal) (*domain.Account, error) {
	if err := authz.Authorize(caller, authz.Authenticated()); err != nil {
		return nil, err
	}
	acc, err := s.accounts.FindByEmail(ctx, caller.Subject)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return acc, nil
}

// UpdateProfile overwrites the non-empty fields of upd on the caller's account.
func (s *accountService) UpdateProfile(ctx context.Context, caller *domain.Principal, upd domain.ProfileUpdate) (*domain.Account, error) {
	acc, err := s.Profile(ctx, caller)
	if err != nil {
		return nil, err
	}
	if upd.FirstName != "" {
		acc.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		acc.LastName = upd.LastName
	}
	if upd.Phone != "" {
		acc.Phone = upd.Phone
	}
	acc.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return acc, nil
}

// ChangePassword requires the current password before storing next.
func (s *accountService) ChangePassword(ctx context.Context, caller *domain.Principal, current, next string) error {
	acc, err := s.Profile(ctx, caller)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(current, acc.PasswordHash); err != nil {
		return domain.ErrInvalidCredentials
	}
	if next == "" {
		return fmt.Errorf("change password: %w", domain.ErrInvalidInput)
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	acc.PasswordHash = hash
	acc.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Msg("password changed")
	return nil
}

func (s *accountService) List(ctx context.Context, caller *domain.Principal) ([]*domain.Account, error) {
	if err := authz.Authorize(caller, adminOnly); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) Get(ctx context.Context, caller *domain.Principal, id string) (*domain.Account, error) {
	if err := authz.Authorize(caller, adminOnly); err != nil {
		return nil, err
	}
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

func (s *accountService) Update(ctx context.Context, caller *domain.Principal, id string, upd domain.AdminUpdate) (*domain.Account, error) {
	acc, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if upd.FirstName != "" {
		acc.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		acc.LastName = upd.LastName
	}
	if upd.Phone != "" {
		acc.Phone = upd.Phone
	}
	acc.Enabled = upd.Enabled
	acc.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Str("by", caller.Subject).Msg("account updated")
	return acc, nil
}

// Delete removes the account together with its outstanding secondary tokens.
// Administrators cannot delete themselves.
func (s *accountService) Delete(ctx context.Context, caller *domain.Principal, id string) error {
	acc, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if acc.Email == caller.Subject {
		return fmt.Errorf("delete account: %w", domain.ErrForbidden)
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tokens.DeleteByAccount(ctx, acc.ID); err != nil {
			return err
		}
		return s.accounts.Delete(ctx, acc.ID)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Str("by", caller.Subject).Msg("account deleted")
	return nil
}
