package employees

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
	List(ctx context.Context, filters depotshared.ListFilters) ([]Employee, int, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, emp Employee) (Employee, error)
	Update(ctx context.Context, id int64, emp Employee) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const employeeSelect = `
	SELECT e.id, e.personnel_number, e.full_name, e.position_id, e.hire_date, e.phone, e.account_id,
	       p.name
	FROM employees e
	LEFT JOIN lookup_positions p ON p.id = e.position_id`

func (r *repository) List(ctx context.Context, filters depotshared.ListFilters) ([]Employee, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (e.full_name ILIKE $` + n + ` OR e.personnel_number ILIKE $` + n + `)`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees e`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := employeeSelect + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}
	return employees, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Employee, error) {
	emp, err := scanEmployee(r.db.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, err
	}
	return emp, nil
}

func (r *repository) Create(ctx context.Context, emp Employee) (Employee, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO employees (personnel_number, full_name, position_id, hire_date, phone, account_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		emp.PersonnelNumber, emp.FullName, emp.PositionID, emp.HireDate, emp.Phone, emp.AccountID).Scan(&emp.ID)
	if err != nil {
		return Employee{}, mapPgError(err)
	}
	return emp, nil
}

func (r *repository) Update(ctx context.Context, id int64, emp Employee) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE employees SET personnel_number = $1, full_name = $2, position_id = $3,
		       hire_date = $4, phone = $5, account_id = $6
		WHERE id = $7`,
		emp.PersonnelNumber, emp.FullName, emp.PositionID, emp.HireDate, emp.Phone, emp.AccountID, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
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
	case "personnel_number":
		return "e.personnel_number " + dir
	case "hire_date":
		return "e.hire_date " + dir
	case "position":
		return "p.name " + dir
	default:
		return "e.full_name " + dir
	}
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var phone, positionName *string
	err := row.Scan(&e.ID, &e.PersonnelNumber, &e.FullName, &e.PositionID, &e.HireDate, &phone, &e.AccountID, &positionName)
	if err != nil {
		return Employee{}, err
	}
	if phone != nil {
		e.Phone = *phone
	}
	if positionName != nil {
		e.PositionName = *positionName
	}
	return e, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
