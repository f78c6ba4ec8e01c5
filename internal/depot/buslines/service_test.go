package buslines

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type memoryRouteRepo struct {
	nextID int64
	routes map[int64]Route
}

func newMemoryRouteRepo() *memoryRouteRepo {
	return &memoryRouteRepo{nextID: 1, routes: map[int64]Route{}}
}

func (m *memoryRouteRepo) List(_ context.Context, _ depotshared.ListFilters) ([]Route, int, error) {
	out := make([]Route, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *memoryRouteRepo) Get(_ context.Context, id int64) (Route, error) {
	r, ok := m.routes[id]
	if !ok {
		return Route{}, shared.ErrNotFound
	}
	return r, nil
}

func (m *memoryRouteRepo) Create(_ context.Context, route Route) (Route, error) {
	for _, existing := range m.routes {
		if existing.Number == route.Number {
			return Route{}, shared.ErrDuplicate
		}
	}
	route.ID = m.nextID
	m.nextID++
	m.routes[route.ID] = route
	return route, nil
}

func (m *memoryRouteRepo) Update(_ context.Context, id int64, route Route) error {
	if _, ok := m.routes[id]; !ok {
		return shared.ErrNotFound
	}
	route.ID = id
	m.routes[id] = route
	return nil
}

func (m *memoryRouteRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.routes[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.routes, id)
	return nil
}

func validRoute() Route {
	return Route{
		Number:      "7",
		Name:        "Автовокзал - Депо",
		StartStopID: 1,
		EndStopID:   2,
		LengthKM:    12.5,
		Fare:        35,
	}
}

func TestRouteValidation(t *testing.T) {
	svc := NewService(newMemoryRouteRepo())
	ctx := context.Background()

	cases := map[string]func(*Route){
		"missing number":     func(r *Route) { r.Number = " " },
		"missing name":       func(r *Route) { r.Name = "" },
		"missing start stop": func(r *Route) { r.StartStopID = 0 },
		"same stops":         func(r *Route) { r.EndStopID = r.StartStopID },
		"zero length":        func(r *Route) { r.LengthKM = 0 },
		"negative fare":      func(r *Route) { r.Fare = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			route := validRoute()
			mutate(&route)
			_, err := svc.Create(ctx, route)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestRouteLifecycle(t *testing.T) {
	repo := newMemoryRouteRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRoute())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = svc.Create(ctx, validRoute())
	require.ErrorIs(t, err, shared.ErrDuplicate)

	updated := validRoute()
	updated.Fare = 40
	require.NoError(t, svc.Update(ctx, created.ID, updated))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, float64(40), got.Fare)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
