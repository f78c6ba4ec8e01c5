package lookups

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/autopark-suite/autopark/internal/shared"
)

type Service struct {
	repo Repository

	// collate.Collator keeps iterator state between comparisons, so
	// concurrent CompareString calls must be serialized.
	mu       sync.Mutex
	collator *collate.Collator
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		collator: collate.New(language.Russian),
	}
}

// List returns all entries of a kind ordered by name under Russian
// collation, so «Ё» and «Е» sort where an operator expects them to.
func (s *Service) List(ctx context.Context, kind Kind) ([]Entry, error) {
	entries, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	sort.SliceStable(entries, func(i, j int) bool {
		return s.collator.CompareString(entries[i].Name, entries[j].Name) < 0
	})
	s.mu.Unlock()
	return entries, nil
}

func (s *Service) Get(ctx context.Context, kind Kind, id int64) (Entry, error) {
	if id <= 0 {
		return Entry{}, fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, kind, id)
}

func (s *Service) Create(ctx context.Context, kind Kind, name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, kind, name)
}

func (s *Service) Update(ctx context.Context, kind Kind, id int64, name string) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return s.repo.Update(ctx, kind, id, name)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, kind, id)
}
