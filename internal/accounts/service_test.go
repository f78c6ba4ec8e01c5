package accounts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/autopark-suite/autopark/internal/accounts"
	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/shared"
)

type memoryAccountRepo struct {
	accounts map[int64]accounts.Account
	nextID   int64
	sessions map[string]int64
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[int64]accounts.Account), sessions: make(map[string]int64)}
}

func (r *memoryAccountRepo) FindByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			out := a
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryAccountRepo) Get(ctx context.Context, id int64) (*accounts.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := a
	return &out, nil
}

func (r *memoryAccountRepo) List(ctx context.Context) ([]accounts.Account, error) {
	out := make([]accounts.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (r *memoryAccountRepo) Create(ctx context.Context, account accounts.Account) (*accounts.Account, error) {
	for _, a := range r.accounts {
		if a.Username == account.Username {
			return nil, shared.ErrDuplicate
		}
	}
	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	r.accounts[account.ID] = account
	out := account
	return &out, nil
}

func (r *memoryAccountRepo) UpdatePassword(ctx context.Context, id int64, hash string, mustChange bool) error {
	a, ok := r.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.PasswordHash = hash
	a.MustChangePassword = mustChange
	r.accounts[id] = a
	return nil
}

func (r *memoryAccountRepo) SetActive(ctx context.Context, id int64, active bool) error {
	a, ok := r.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.IsActive = active
	r.accounts[id] = a
	return nil
}

func (r *memoryAccountRepo) TouchLastLogin(ctx context.Context, id int64) error {
	a, ok := r.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	now := time.Now()
	a.LastLoginAt = &now
	r.accounts[id] = a
	return nil
}

func (r *memoryAccountRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.accounts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memoryAccountRepo) CreateLoginSession(ctx context.Context, id string, accountID int64, expiresAt time.Time, ip, ua string) error {
	r.sessions[id] = accountID
	return nil
}

func (r *memoryAccountRepo) DeleteLoginSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type stubSeeder struct {
	seeded map[int64]authz.Role
	err    error
}

func (s *stubSeeder) SeedDefaultGrants(ctx context.Context, accountID int64, role authz.Role) error {
	if s.err != nil {
		return s.err
	}
	if s.seeded == nil {
		s.seeded = make(map[int64]authz.Role)
	}
	s.seeded[accountID] = role
	return nil
}

func newService(repo accounts.Repository, seeder accounts.GrantSeeder) *accounts.Service {
	return accounts.NewService(repo, seeder, nil, nil)
}

func addAccount(t *testing.T, repo *memoryAccountRepo, username, password string, role authz.Role, active bool) *accounts.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), accounts.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	})
	require.NoError(t, err)
	return created
}

func TestAuthenticate(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{})
	addAccount(t, repo, "alice", "dispatch123", authz.RoleDispatcher, true)
	ctx := context.Background()

	account, err := svc.Authenticate(ctx, "alice", "dispatch123")
	require.NoError(t, err)
	require.Equal(t, "alice", account.Username)

	stored, err := repo.Get(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)

	_, err = svc.Authenticate(ctx, "alice", "wrongpass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "dispatch123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{})
	addAccount(t, repo, "former", "dispatch123", authz.RoleDispatcher, false)

	_, err := svc.Authenticate(context.Background(), "former", "dispatch123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterSeedsDefaultGrants(t *testing.T) {
	repo := newMemoryAccountRepo()
	seeder := &stubSeeder{}
	svc := newService(repo, seeder)

	account, err := svc.Register(context.Background(), accounts.RegisterInput{
		Username: "bob",
		Password: "password1",
		Role:     authz.RoleMechanic,
	})
	require.NoError(t, err)
	require.True(t, account.IsActive)
	require.Equal(t, authz.RoleMechanic, seeder.seeded[account.ID])
}

func TestRegisterSeedFailureRemovesAccount(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{err: errors.New("relation grants does not exist")})

	_, err := svc.Register(context.Background(), accounts.RegisterInput{
		Username: "bob",
		Password: "password1",
		Role:     authz.RoleMechanic,
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, shared.ErrValidation)

	// No grantless account may survive a failed registration.
	_, err = repo.FindByUsername(context.Background(), "bob")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(newMemoryAccountRepo(), &stubSeeder{})
	ctx := context.Background()

	_, err := svc.Register(ctx, accounts.RegisterInput{Password: "password1", Role: authz.RoleDispatcher})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Register(ctx, accounts.RegisterInput{Username: "bob", Password: "short", Role: authz.RoleDispatcher})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Register(ctx, accounts.RegisterInput{Username: "bob", Password: "password1", Role: authz.Role("Кладовщик")})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{})
	addAccount(t, repo, "bob", "password1", authz.RoleDispatcher, true)

	_, err := svc.Register(context.Background(), accounts.RegisterInput{
		Username: "bob",
		Password: "password1",
		Role:     authz.RoleDispatcher,
	})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestChangePassword(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{})
	account := addAccount(t, repo, "alice", "oldpassword", authz.RoleDispatcher, true)
	require.NoError(t, repo.UpdatePassword(context.Background(), account.ID, account.PasswordHash, true))
	ctx := context.Background()

	require.ErrorIs(t, svc.ChangePassword(ctx, account.ID, "wrongold", "newpassword"), shared.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, account.ID, "oldpassword", "newpassword"))
	stored, err := repo.Get(ctx, account.ID)
	require.NoError(t, err)
	require.False(t, stored.MustChangePassword)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword")))
}

func TestResetPasswordForcesChange(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{})
	account := addAccount(t, repo, "alice", "oldpassword", authz.RoleDispatcher, true)

	require.NoError(t, svc.ResetPassword(context.Background(), 1, account.ID, "resetpassword"))
	stored, err := repo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.True(t, stored.MustChangePassword)
}

func TestDeleteRules(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := newService(repo, &stubSeeder{})
	admin := addAccount(t, repo, "admin", "password1", authz.RoleAdministrator, true)
	active := addAccount(t, repo, "active", "password1", authz.RoleDispatcher, true)
	inactive := addAccount(t, repo, "inactive", "password1", authz.RoleDispatcher, false)
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, admin.ID, admin.ID), shared.ErrValidation)
	require.ErrorIs(t, svc.Delete(ctx, admin.ID, active.ID), shared.ErrValidation)
	require.NoError(t, svc.Delete(ctx, admin.ID, inactive.ID))

	_, err := repo.Get(ctx, inactive.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
