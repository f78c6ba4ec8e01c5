package employees

import (
	"context"
	"fmt"
	"strings"
	"time"

	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters depotshared.ListFilters) ([]Employee, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	if id <= 0 {
		return Employee{}, fmt.Errorf("%w: invalid employee id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, emp Employee) (Employee, error) {
	if err := s.validate(emp); err != nil {
		return Employee{}, err
	}
	return s.repo.Create(ctx, emp)
}

func (s *Service) Update(ctx context.Context, id int64, emp Employee) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid employee id", shared.ErrValidation)
	}
	if err := s.validate(emp); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, emp)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid employee id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(emp Employee) error {
	if strings.TrimSpace(emp.PersonnelNumber) == "" {
		return fmt.Errorf("%w: personnel number is required", shared.ErrValidation)
	}
	if strings.TrimSpace(emp.FullName) == "" {
		return fmt.Errorf("%w: full name is required", shared.ErrValidation)
	}
	if emp.PositionID <= 0 {
		return fmt.Errorf("%w: position is required", shared.ErrValidation)
	}
	if emp.HireDate.IsZero() {
		return fmt.Errorf("%w: hire date is required", shared.ErrValidation)
	}
	if emp.HireDate.After(time.Now().AddDate(0, 0, 1)) {
		return fmt.Errorf("%w: hire date cannot be in the future", shared.ErrValidation)
	}
	return nil
}
