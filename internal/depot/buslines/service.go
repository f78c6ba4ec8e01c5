package buslines

import (
	"context"
	"fmt"
	"strings"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters depotshared.ListFilters) ([]Route, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Route, error) {
	if id <= 0 {
		return Route{}, fmt.Errorf("%w: invalid route id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, route Route) (Route, error) {
	if err := s.validate(route); err != nil {
		return Route{}, err
	}
	return s.repo.Create(ctx, route)
}

func (s *Service) Update(ctx context.Context, id int64, route Route) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid route id", shared.ErrValidation)
	}
	if err := s.validate(route); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, route)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid route id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(route Route) error {
	if strings.TrimSpace(route.Number) == "" {
		return fmt.Errorf("%w: route number is required", shared.ErrValidation)
	}
	if strings.TrimSpace(route.Name) == "" {
		return fmt.Errorf("%w: route name is required", shared.ErrValidation)
	}
	if route.StartStopID <= 0 || route.EndStopID <= 0 {
		return fmt.Errorf("%w: start and end stops are required", shared.ErrValidation)
	}
	if route.StartStopID == route.EndStopID {
		return fmt.Errorf("%w: start and end stops must differ", shared.ErrValidation)
	}
	if route.LengthKM <= 0 {
		return fmt.Errorf("%w: route length must be positive", shared.ErrValidation)
	}
	if route.Fare < 0 {
		return fmt.Errorf("%w: fare cannot be negative", shared.ErrValidation)
	}
	return nil
}
