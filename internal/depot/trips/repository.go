package trips

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters depotshared.ListFilters) ([]Trip, int, error)
	Get(ctx context.Context, id int64) (Trip, error)
	Create(ctx context.Context, trip Trip) (Trip, error)
	Update(ctx context.Context, id int64, trip Trip) error
	Delete(ctx context.Context, id int64) error
	BusAssignedOnDate(ctx context.Context, busID int64, date time.Time, excludeTripID int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const tripSelect = `
	SELECT t.id, t.trip_date, t.route_id, t.bus_id, t.driver_id, t.conductor_id, t.shift_type_id,
	       t.departure_at, t.return_at, t.revenue,
	       r.number, b.plate, e.full_name
	FROM trips t
	LEFT JOIN routes r ON r.id = t.route_id
	LEFT JOIN buses b ON b.id = t.bus_id
	LEFT JOIN employees e ON e.id = t.driver_id`

func (r *repository) List(ctx context.Context, filters depotshared.ListFilters) ([]Trip, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.RouteID != nil {
		args = append(args, *filters.RouteID)
		where += ` AND t.route_id = $` + strconv.Itoa(len(args))
	}
	if filters.BusID != nil {
		args = append(args, *filters.BusID)
		where += ` AND t.bus_id = $` + strconv.Itoa(len(args))
	}
	if filters.Date != nil {
		args = append(args, *filters.Date)
		where += ` AND t.trip_date = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := tripSelect + where + ` ORDER BY t.trip_date DESC, t.departure_at`
	if filters.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, trip)
	}
	return trips, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Trip, error) {
	trip, err := scanTrip(r.db.QueryRow(ctx, tripSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, shared.ErrNotFound
		}
		return Trip{}, err
	}
	return trip, nil
}

func (r *repository) Create(ctx context.Context, trip Trip) (Trip, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO trips (trip_date, route_id, bus_id, driver_id, conductor_id, shift_type_id, departure_at, return_at, revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		trip.Date, trip.RouteID, trip.BusID, trip.DriverID, trip.ConductorID, trip.ShiftTypeID, trip.DepartureAt, trip.ReturnAt, trip.Revenue).Scan(&trip.ID)
	if err != nil {
		return Trip{}, err
	}
	return trip, nil
}

func (r *repository) Update(ctx context.Context, id int64, trip Trip) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE trips SET trip_date = $1, route_id = $2, bus_id = $3, driver_id = $4, conductor_id = $5,
		       shift_type_id = $6, departure_at = $7, return_at = $8, revenue = $9
		WHERE id = $10`,
		trip.Date, trip.RouteID, trip.BusID, trip.DriverID, trip.ConductorID, trip.ShiftTypeID, trip.DepartureAt, trip.ReturnAt, trip.Revenue, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// BusAssignedOnDate reports whether the bus already has a trip on the given
// date. Same-day equality only; there is no overlap solver.
func (r *repository) BusAssignedOnDate(ctx context.Context, busID int64, date time.Time, excludeTripID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM trips WHERE bus_id = $1 AND trip_date = $2 AND id <> $3)`,
		busID, date, excludeTripID).Scan(&exists)
	return exists, err
}

func scanTrip(row pgx.Row) (Trip, error) {
	var t Trip
	var routeNumber, busPlate, driverName *string
	err := row.Scan(&t.ID, &t.Date, &t.RouteID, &t.BusID, &t.DriverID, &t.ConductorID, &t.ShiftTypeID,
		&t.DepartureAt, &t.ReturnAt, &t.Revenue, &routeNumber, &busPlate, &driverName)
	if err != nil {
		return Trip{}, err
	}
	if routeNumber != nil {
		t.RouteNumber = *routeNumber
	}
	if busPlate != nil {
		t.BusPlate = *busPlate
	}
	if driverName != nil {
		t.DriverName = *driverName
	}
	return t, nil
}
