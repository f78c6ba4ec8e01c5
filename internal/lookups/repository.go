package lookups

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autopark-suite/autopark/internal/shared"
)

// Entry is a single dictionary row.
type Entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	List(ctx context.Context, kind Kind) ([]Entry, error)
	Get(ctx context.Context, kind Kind, id int64) (Entry, error)
	Create(ctx context.Context, kind Kind, name string) (Entry, error)
	Update(ctx context.Context, kind Kind, id int64, name string) error
	Delete(ctx context.Context, kind Kind, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Table names come from the fixed kind registry, never from request input,
// so interpolating them is safe.

func (r *repository) List(ctx context.Context, kind Kind) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM `+kind.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Get(ctx context.Context, kind Kind, id int64) (Entry, error) {
	var e Entry
	err := r.db.QueryRow(ctx, `SELECT id, name FROM `+kind.Table+` WHERE id = $1`, id).Scan(&e.ID, &e.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, kind Kind, name string) (Entry, error) {
	var e Entry
	e.Name = name
	err := r.db.QueryRow(ctx, `INSERT INTO `+kind.Table+` (name) VALUES ($1) RETURNING id`, name).Scan(&e.ID)
	if err != nil {
		return Entry{}, mapPgError(err)
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, kind Kind, id int64, name string) error {
	tag, err := r.db.Exec(ctx, `UPDATE `+kind.Table+` SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, kind Kind, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM `+kind.Table+` WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.ErrDuplicate
		case "23503":
			// Row is referenced by a bus, route, trip or employee.
			return shared.ErrConflict
		}
	}
	return err
}
