package trips

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

func (s *Service) List(ctx context.Context, filters depotshared.ListFilters) ([]Trip, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Trip, error) {
	if id <= 0 {
		return Trip{}, fmt.Errorf("%w: invalid trip id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, trip Trip) (Trip, error) {
	if err := s.validate(trip); err != nil {
		return Trip{}, err
	}
	if err := s.checkBusAvailable(ctx, trip, 0); err != nil {
		return Trip{}, err
	}
	return s.repo.Create(ctx, trip)
}

func (s *Service) Update(ctx context.Context, id int64, trip Trip) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid trip id", shared.ErrValidation)
	}
	if err := s.validate(trip); err != nil {
		return err
	}
	if err := s.checkBusAvailable(ctx, trip, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, trip)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid trip id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(trip Trip) error {
	if trip.Date.IsZero() {
		return fmt.Errorf("%w: trip date is required", shared.ErrValidation)
	}
	if trip.RouteID <= 0 {
		return fmt.Errorf("%w: route is required", shared.ErrValidation)
	}
	if trip.BusID <= 0 {
		return fmt.Errorf("%w: bus is required", shared.ErrValidation)
	}
	if trip.DriverID <= 0 {
		return fmt.Errorf("%w: driver is required", shared.ErrValidation)
	}
	if trip.ShiftTypeID <= 0 {
		return fmt.Errorf("%w: shift type is required", shared.ErrValidation)
	}
	if !trip.ReturnAt.IsZero() && !trip.ReturnAt.After(trip.DepartureAt) {
		return fmt.Errorf("%w: return time must be after departure", shared.ErrValidation)
	}
	if trip.Revenue < 0 {
		return fmt.Errorf("%w: revenue cannot be negative", shared.ErrValidation)
	}
	return nil
}

func (s *Service) checkBusAvailable(ctx context.Context, trip Trip, excludeTripID int64) error {
	assigned, err := s.repo.BusAssignedOnDate(ctx, trip.BusID, trip.Date, excludeTripID)
	if err != nil {
		return err
	}
	if assigned {
		return fmt.Errorf("%w: bus already assigned on %s", shared.ErrValidation, trip.Date.Format("2006-01-02"))
	}
	return nil
}
