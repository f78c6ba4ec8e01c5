package authz

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autopark-suite/autopark/internal/platform/db"
	"github.com/autopark-suite/autopark/internal/shared"
)

// SeedPolicy controls the default grant set created for new accounts.
// The depot historically seeded read access to every module for every role;
// that stays the default but is deliberately configurable.
type SeedPolicy struct {
	ReadAll bool
}

// Store persists grants in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	policy SeedPolicy
}

// NewStore constructs a grant store.
func NewStore(pool *pgxpool.Pool, policy SeedPolicy) *Store {
	return &Store{pool: pool, policy: policy}
}

// ResolveGrantsForAccount reads all grant rows for the account. An account
// with no rows yields an empty slice, which callers must treat as "no
// access", not as a fault.
func (s *Store) ResolveGrantsForAccount(ctx context.Context, accountID int64) ([]Grant, error) {
	rows, err := s.pool.Query(ctx, `SELECT account_id, module_code, can_read, can_write, can_edit, can_delete FROM grants WHERE account_id = $1 ORDER BY module_code`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	grants := []Grant{}
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.AccountID, &g.Module, &g.CanRead, &g.CanWrite, &g.CanEdit, &g.CanDelete); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

// SeedDefaultGrants writes the default grant set for a freshly created
// account: read per policy, write/edit/delete only for administrators.
// Upsert semantics make repeated seeding a reset to defaults rather than
// an error.
func (s *Store) SeedDefaultGrants(ctx context.Context, accountID int64, role Role) error {
	admin := role.IsAdministrator()
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		for _, m := range catalog {
			_, err := tx.Exec(ctx, `
				INSERT INTO grants (account_id, module_code, can_read, can_write, can_edit, can_delete)
				VALUES ($1, $2, $3, $4, $4, $4)
				ON CONFLICT (account_id, module_code)
				DO UPDATE SET can_read = EXCLUDED.can_read, can_write = EXCLUDED.can_write, can_edit = EXCLUDED.can_edit, can_delete = EXCLUDED.can_delete`,
				accountID, m.Code, s.policy.ReadAll || admin, admin)
			if err != nil {
				return fmt.Errorf("authz: seed grant %s: %w", m.Code, err)
			}
		}
		return nil
	})
}

// ValidateGrantSet enforces the grant-table invariants: every module code
// must be a catalog member and at most one grant may exist per module.
func ValidateGrantSet(grants []Grant) error {
	seen := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		if !KnownModule(g.Module) {
			return fmt.Errorf("%w: unknown module %q", shared.ErrValidation, g.Module)
		}
		if _, dup := seen[g.Module]; dup {
			return fmt.Errorf("%w: duplicate module %q", shared.ErrValidation, g.Module)
		}
		seen[g.Module] = struct{}{}
	}
	return nil
}

// ReplaceGrants atomically replaces the account's grant set: all existing
// rows are deleted and the new set inserted in one transaction. A failed
// insert leaves no partial state.
func (s *Store) ReplaceGrants(ctx context.Context, accountID int64, grants []Grant) error {
	if err := ValidateGrantSet(grants); err != nil {
		return err
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM grants WHERE account_id = $1`, accountID); err != nil {
			return fmt.Errorf("authz: clear grants: %w", err)
		}
		for _, g := range grants {
			_, err := tx.Exec(ctx, `
				INSERT INTO grants (account_id, module_code, can_read, can_write, can_edit, can_delete)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				accountID, g.Module, g.CanRead, g.CanWrite, g.CanEdit, g.CanDelete)
			if err != nil {
				return fmt.Errorf("authz: insert grant %s: %w", g.Module, err)
			}
		}
		return nil
	})
}
