package employees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type memoryEmployeeRepo struct {
	nextID    int64
	employees map[int64]Employee
}

func newMemoryEmployeeRepo() *memoryEmployeeRepo {
	return &memoryEmployeeRepo{nextID: 1, employees: map[int64]Employee{}}
}

func (m *memoryEmployeeRepo) List(_ context.Context, _ depotshared.ListFilters) ([]Employee, int, error) {
	out := make([]Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *memoryEmployeeRepo) Get(_ context.Context, id int64) (Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return Employee{}, shared.ErrNotFound
	}
	return e, nil
}

func (m *memoryEmployeeRepo) Create(_ context.Context, emp Employee) (Employee, error) {
	for _, existing := range m.employees {
		if existing.PersonnelNumber == emp.PersonnelNumber {
			return Employee{}, shared.ErrDuplicate
		}
	}
	emp.ID = m.nextID
	m.nextID++
	m.employees[emp.ID] = emp
	return emp, nil
}

func (m *memoryEmployeeRepo) Update(_ context.Context, id int64, emp Employee) error {
	if _, ok := m.employees[id]; !ok {
		return shared.ErrNotFound
	}
	emp.ID = id
	m.employees[id] = emp
	return nil
}

func (m *memoryEmployeeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func validEmployee() Employee {
	return Employee{
		PersonnelNumber: "0042",
		FullName:        "Иванов Пётр Сергеевич",
		PositionID:      1,
		HireDate:        time.Date(2015, time.March, 2, 0, 0, 0, 0, time.UTC),
		Phone:           "+7 900 123-45-67",
	}
}

func TestEmployeeValidation(t *testing.T) {
	svc := NewService(newMemoryEmployeeRepo())
	ctx := context.Background()

	cases := map[string]func(*Employee){
		"missing personnel number": func(e *Employee) { e.PersonnelNumber = "  " },
		"missing full name":        func(e *Employee) { e.FullName = "" },
		"missing position":         func(e *Employee) { e.PositionID = 0 },
		"zero hire date":           func(e *Employee) { e.HireDate = time.Time{} },
		"future hire date":         func(e *Employee) { e.HireDate = time.Now().AddDate(1, 0, 0) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			emp := validEmployee()
			mutate(&emp)
			_, err := svc.Create(ctx, emp)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	repo := newMemoryEmployeeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validEmployee())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = svc.Create(ctx, validEmployee())
	require.ErrorIs(t, err, shared.ErrDuplicate)

	updated := validEmployee()
	updated.FullName = "Иванов Пётр Андреевич"
	require.NoError(t, svc.Update(ctx, created.ID, updated))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Иванов Пётр Андреевич", got.FullName)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), shared.ErrNotFound)
}
