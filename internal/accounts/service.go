package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/shared"
)

// GrantSeeder writes the default grant set for a new account.
type GrantSeeder interface {
	SeedDefaultGrants(ctx context.Context, accountID int64, role authz.Role) error
}

// Service wraps account business rules.
type Service struct {
	repo   Repository
	grants GrantSeeder
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, grants GrantSeeder, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, grants: grants, audit: audit, logger: logger}
}

// Authenticate validates username/password credentials. Unknown usernames,
// wrong passwords and deactivated accounts are indistinguishable to the
// caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := s.repo.TouchLastLogin(ctx, account.ID); err != nil && s.logger != nil {
		s.logger.Warn("touch last login", slog.Int64("account_id", account.ID), slog.Any("error", err))
	}
	s.record(ctx, account.ID, "login", account.ID)
	return account, nil
}

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Username string
	Password string
	Role     authz.Role
}

// Register creates an account and seeds its default grants. Seeding happens
// synchronously inside the registration flow: an account must never be left
// silently without grants, so a seed failure fails the whole registration
// and removes the fresh row.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	if input.Username == "" {
		return nil, fmt.Errorf("%w: username required", shared.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, input.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, Account{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	if err := s.grants.SeedDefaultGrants(ctx, created.ID, created.Role); err != nil {
		if delErr := s.repo.Delete(ctx, created.ID); delErr != nil && s.logger != nil {
			s.logger.Error("rollback account after seed failure", slog.Int64("account_id", created.ID), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("seed default grants: %w", err)
	}
	s.record(ctx, created.ID, "register", created.ID)
	return created, nil
}

// ChangePassword verifies the old credential and installs the new one,
// clearing the forced-change flag.
func (s *Service) ChangePassword(ctx context.Context, accountID int64, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	account, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, accountID, string(hash), false)
}

// ResetPassword installs a new credential on behalf of an administrator and
// forces the owner to change it at next login.
func (s *Service) ResetPassword(ctx context.Context, actorID, accountID int64, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, accountID, string(hash), true); err != nil {
		return err
	}
	s.record(ctx, actorID, "password_reset", accountID)
	return nil
}

// SetActive flips the active flag. Deactivation takes effect at the
// subject's next permission check.
func (s *Service) SetActive(ctx context.Context, actorID, accountID int64, active bool) error {
	if err := s.repo.SetActive(ctx, accountID, active); err != nil {
		return err
	}
	action := "deactivate"
	if active {
		action = "activate"
	}
	s.record(ctx, actorID, action, accountID)
	return nil
}

// Delete removes an account. Only inactive accounts other than the acting
// user may be deleted.
func (s *Service) Delete(ctx context.Context, actorID, accountID int64) error {
	if actorID == accountID {
		return fmt.Errorf("%w: cannot delete own account", shared.ErrValidation)
	}
	account, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsActive {
		return fmt.Errorf("%w: account must be deactivated before deletion", shared.ErrValidation)
	}
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", accountID)
	return nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Get fetches an account by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return s.repo.Get(ctx, id)
}

// RegisterSession persists the login session metadata for auditing.
func (s *Service) RegisterSession(ctx context.Context, id string, accountID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateLoginSession(ctx, id, accountID, expiresAt, ip, ua)
}

// RemoveSession deletes a login session record and audits the logout when
// the session carried an authenticated account.
func (s *Service) RemoveSession(ctx context.Context, id string, accountID int64) error {
	if err := s.repo.DeleteLoginSession(ctx, id); err != nil {
		return err
	}
	if accountID != 0 {
		s.record(ctx, accountID, "logout", accountID)
	}
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, subjectID int64) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "account",
		EntityID: strconv.FormatInt(subjectID, 10),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
