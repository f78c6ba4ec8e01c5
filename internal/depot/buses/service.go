package buses

import (
	"context"
	"fmt"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters depotshared.ListFilters) ([]Bus, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Bus, error) {
	if id <= 0 {
		return Bus{}, fmt.Errorf("%w: invalid bus id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, bus Bus) (Bus, error) {
	if err := s.validate(bus); err != nil {
		return Bus{}, err
	}
	return s.repo.Create(ctx, bus)
}

func (s *Service) Update(ctx context.Context, id int64, bus Bus) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid bus id", shared.ErrValidation)
	}
	if err := s.validate(bus); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, bus)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid bus id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
