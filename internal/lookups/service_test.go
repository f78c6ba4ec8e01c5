package lookups

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autopark-suite/autopark/internal/shared"
)

type memoryLookupRepo struct {
	nextID  int64
	entries map[string]map[int64]string
}

func newMemoryLookupRepo() *memoryLookupRepo {
	return &memoryLookupRepo{nextID: 1, entries: map[string]map[int64]string{}}
}

func (m *memoryLookupRepo) table(kind Kind) map[int64]string {
	t, ok := m.entries[kind.Table]
	if !ok {
		t = map[int64]string{}
		m.entries[kind.Table] = t
	}
	return t
}

func (m *memoryLookupRepo) List(_ context.Context, kind Kind) ([]Entry, error) {
	var out []Entry
	for id, name := range m.table(kind) {
		out = append(out, Entry{ID: id, Name: name})
	}
	return out, nil
}

func (m *memoryLookupRepo) Get(_ context.Context, kind Kind, id int64) (Entry, error) {
	name, ok := m.table(kind)[id]
	if !ok {
		return Entry{}, shared.ErrNotFound
	}
	return Entry{ID: id, Name: name}, nil
}

func (m *memoryLookupRepo) Create(_ context.Context, kind Kind, name string) (Entry, error) {
	for _, existing := range m.table(kind) {
		if existing == name {
			return Entry{}, shared.ErrDuplicate
		}
	}
	id := m.nextID
	m.nextID++
	m.table(kind)[id] = name
	return Entry{ID: id, Name: name}, nil
}

func (m *memoryLookupRepo) Update(_ context.Context, kind Kind, id int64, name string) error {
	if _, ok := m.table(kind)[id]; !ok {
		return shared.ErrNotFound
	}
	m.table(kind)[id] = name
	return nil
}

func (m *memoryLookupRepo) Delete(_ context.Context, kind Kind, id int64) error {
	if _, ok := m.table(kind)[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.table(kind), id)
	return nil
}

func TestListOrdersByRussianCollation(t *testing.T) {
	repo := newMemoryLookupRepo()
	svc := NewService(repo)
	ctx := context.Background()
	stops, _ := KindByCode("stops")

	for _, name := range []string{"Южная", "Ёлочная", "Автовокзал", "Единая"} {
		_, err := svc.Create(ctx, stops, name)
		require.NoError(t, err)
	}

	entries, err := svc.List(ctx, stops)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	// Ё collates next to Е, not after Я as a byte sort would put it.
	require.Equal(t, []string{"Автовокзал", "Единая", "Ёлочная", "Южная"}, names)
}

func TestListSafeForConcurrentUse(t *testing.T) {
	repo := newMemoryLookupRepo()
	svc := NewService(repo)
	ctx := context.Background()
	stops, _ := KindByCode("stops")

	names := []string{"Южная", "Ёлочная", "Автовокзал", "Единая", "Заречная", "Центральная"}
	for _, name := range names {
		_, err := svc.Create(ctx, stops, name)
		require.NoError(t, err)
	}
	want := []string{"Автовокзал", "Единая", "Ёлочная", "Заречная", "Центральная", "Южная"}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				entries, err := svc.List(ctx, stops)
				if err != nil {
					errs <- err
					return
				}
				for j, e := range entries {
					if e.Name != want[j] {
						errs <- fmt.Errorf("entry %d: got %q, want %q", j, e.Name, want[j])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestKindsAreIsolated(t *testing.T) {
	repo := newMemoryLookupRepo()
	svc := NewService(repo)
	ctx := context.Background()
	colors, _ := KindByCode("colors")
	models, _ := KindByCode("models")

	created, err := svc.Create(ctx, colors, "Белый")
	require.NoError(t, err)

	_, err = svc.Get(ctx, models, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateValidatesName(t *testing.T) {
	svc := NewService(newMemoryLookupRepo())
	colors, _ := KindByCode("colors")

	_, err := svc.Create(context.Background(), colors, "   ")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestKindByCode(t *testing.T) {
	kind, ok := KindByCode("shifttypes")
	require.True(t, ok)
	require.Equal(t, "lookup_shifttypes", kind.Table)

	_, ok = KindByCode("nope")
	require.False(t, ok)
}
