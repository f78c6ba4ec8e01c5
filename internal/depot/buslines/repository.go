package buslines

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
	List(ctx context.Context, filters depotshared.ListFilters) ([]Route, int, error)
	Get(ctx context.Context, id int64) (Route, error)
	Create(ctx context.Context, route Route) (Route, error)
	Update(ctx context.Context, id int64, route Route) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const routeSelect = `
	SELECT r.id, r.number, r.name, r.start_stop_id, r.end_stop_id, r.length_km, r.fare,
	       ss.name, es.name
	FROM routes r
	LEFT JOIN lookup_stops ss ON ss.id = r.start_stop_id
	LEFT JOIN lookup_stops es ON es.id = r.end_stop_id`

func (r *repository) List(ctx context.Context, filters depotshared.ListFilters) ([]Route, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE (r.number ILIKE $1 OR r.name ILIKE $1)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM routes r`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := routeSelect + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var route Route
		var startName, endName *string
		if err := rows.Scan(&route.ID, &route.Number, &route.Name, &route.StartStopID, &route.EndStopID, &route.LengthKM, &route.Fare, &startName, &endName); err != nil {
			return nil, 0, err
		}
		route.StartStopName = deref(startName)
		route.EndStopName = deref(endName)
		routes = append(routes, route)
	}
	return routes, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Route, error) {
	var route Route
	var startName, endName *string
	err := r.db.QueryRow(ctx, routeSelect+` WHERE r.id = $1`, id).
		Scan(&route.ID, &route.Number, &route.Name, &route.StartStopID, &route.EndStopID, &route.LengthKM, &route.Fare, &startName, &endName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Route{}, shared.ErrNotFound
		}
		return Route{}, err
	}
	route.StartStopName = deref(startName)
	route.EndStopName = deref(endName)
	return route, nil
}

func (r *repository) Create(ctx context.Context, route Route) (Route, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO routes (number, name, start_stop_id, end_stop_id, length_km, fare)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		route.Number, route.Name, route.StartStopID, route.EndStopID, route.LengthKM, route.Fare).Scan(&route.ID)
	if err != nil {
		return Route{}, mapPgError(err)
	}
	return route, nil
}

func (r *repository) Update(ctx context.Context, id int64, route Route) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE routes SET number = $1, name = $2, start_stop_id = $3, end_stop_id = $4, length_km = $5, fare = $6
		WHERE id = $7`,
		route.Number, route.Name, route.StartStopID, route.EndStopID, route.LengthKM, route.Fare, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
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
	case "name":
		return "r.name " + dir
	case "fare":
		return "r.fare " + dir
	default:
		return "r.number " + dir
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
