package buses

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters depotshared.ListFilters) ([]Bus, int, error)
	Get(ctx context.Context, id int64) (Bus, error)
	Create(ctx context.Context, bus Bus) (Bus, error)
	Update(ctx context.Context, id int64, bus Bus) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const busSelect = `
	SELECT b.id, b.plate, b.model_id, b.state_id, b.color_id, b.seat_count, b.year,
	       m.name, s.name, c.name
	FROM buses b
	LEFT JOIN lookup_models m ON m.id = b.model_id
	LEFT JOIN lookup_busstates s ON s.id = b.state_id
	LEFT JOIN lookup_colors c ON c.id = b.color_id`

func (r *repository) List(ctx context.Context, filters depotshared.ListFilters) ([]Bus, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE (b.plate ILIKE $1 OR m.name ILIKE $1)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM buses b LEFT JOIN lookup_models m ON m.id = b.model_id` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := busSelect + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var buses []Bus
	for rows.Next() {
		var b Bus
		var modelName, stateName, colorName *string
		if err := rows.Scan(&b.ID, &b.Plate, &b.ModelID, &b.StateID, &b.ColorID, &b.SeatCount, &b.Year, &modelName, &stateName, &colorName); err != nil {
			return nil, 0, err
		}
		b.ModelName = deref(modelName)
		b.StateName = deref(stateName)
		b.ColorName = deref(colorName)
		buses = append(buses, b)
	}
	return buses, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Bus, error) {
	var b Bus
	var modelName, stateName, colorName *string
	err := r.db.QueryRow(ctx, busSelect+` WHERE b.id = $1`, id).
		Scan(&b.ID, &b.Plate, &b.ModelID, &b.StateID, &b.ColorID, &b.SeatCount, &b.Year, &modelName, &stateName, &colorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bus{}, shared.ErrNotFound
		}
		return Bus{}, err
	}
	b.ModelName = deref(modelName)
	b.StateName = deref(stateName)
	b.ColorName = deref(colorName)
	return b, nil
}

func (r *repository) Create(ctx context.Context, bus Bus) (Bus, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO buses (plate, model_id, state_id, color_id, seat_count, year)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		bus.Plate, bus.ModelID, bus.StateID, bus.ColorID, bus.SeatCount, bus.Year).Scan(&bus.ID)
	if err != nil {
		return Bus{}, mapPgError(err)
	}
	return bus, nil
}

func (r *repository) Update(ctx context.Context, id int64, bus Bus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE buses SET plate = $1, model_id = $2, state_id = $3, color_id = $4, seat_count = $5, year = $6
		WHERE id = $7`,
		bus.Plate, bus.ModelID, bus.StateID, bus.ColorID, bus.SeatCount, bus.Year, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "plate":
		return "b.plate " + dir
	case "year":
		return "b.year " + dir
	default:
		return "b.plate " + dir
	}
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
