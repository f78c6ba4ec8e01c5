package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/shared"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	Get(ctx context.Context, id int64) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, account Account) (*Account, error)
	UpdatePassword(ctx context.Context, id int64, hash string, mustChange bool) error
	SetActive(ctx context.Context, id int64, active bool) error
	TouchLastLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CreateLoginSession(ctx context.Context, id string, accountID int64, expiresAt time.Time, ip, ua string) error
	DeleteLoginSession(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, username, password_hash, role, is_active, must_change_password, created_at, last_login_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.IsActive, &a.MustChangePassword, &a.CreatedAt, &a.LastLoginAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByUsername fetches an account by exact, case-sensitive username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username))
}

// Get fetches an account by ID.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

// FindPrincipal loads the account summary consumed by the authorization
// middleware.
func (r *PGRepository) FindPrincipal(ctx context.Context, accountID int64) (authz.Principal, error) {
	var p authz.Principal
	err := r.pool.QueryRow(ctx, `SELECT id, username, role, is_active FROM accounts WHERE id = $1`, accountID).
		Scan(&p.ID, &p.Username, &p.Role, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.Principal{}, shared.ErrNotFound
		}
		return authz.Principal{}, err
	}
	return p, nil
}

// List returns all accounts ordered by id.
func (r *PGRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.IsActive, &a.MustChangePassword, &a.CreatedAt, &a.LastLoginAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Create inserts a new account row. A username collision maps to
// shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, account Account) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (username, password_hash, role, is_active, must_change_password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		account.Username, account.PasswordHash, account.Role, account.IsActive, account.MustChangePassword)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

// UpdatePassword replaces the credential and sets the forced-change flag.
func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, hash string, mustChange bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET password_hash = $1, must_change_password = $2 WHERE id = $3`, hash, mustChange, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetActive flips the active flag.
func (r *PGRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// TouchLastLogin stamps the last successful login.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE accounts SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

// Delete removes an account row. Grant rows follow via ON DELETE CASCADE.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreateLoginSession persists a login session row for auditing.
func (r *PGRepository) CreateLoginSession(ctx context.Context, id string, accountID int64, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_sessions (id, account_id, created_at, expires_at, ip, ua)
		VALUES ($1, $2, NOW(), $3, NULLIF($4, ''), NULLIF($5, ''))`,
		id, accountID, expiresAt.UTC(), ip, ua)
	return err
}

// DeleteLoginSession removes a login session row.
func (r *PGRepository) DeleteLoginSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM login_sessions WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
var _ authz.AccountSource = (*PGRepository)(nil)
