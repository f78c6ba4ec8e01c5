package buses

import (
	"fmt"
	"strings"
	"time"

	"github.com/autopark-suite/autopark/internal/shared"
)

func (s *Service) validate(b Bus) error {
	if strings.TrimSpace(b.Plate) == "" {
		return fmt.Errorf("%w: plate is required", shared.ErrValidation)
	}
	if b.ModelID <= 0 {
		return fmt.Errorf("%w: model is required", shared.ErrValidation)
	}
	if b.StateID <= 0 {
		return fmt.Errorf("%w: state is required", shared.ErrValidation)
	}
	if b.ColorID <= 0 {
		return fmt.Errorf("%w: color is required", shared.ErrValidation)
	}
	if b.SeatCount <= 0 {
		return fmt.Errorf("%w: seat count must be positive", shared.ErrValidation)
	}
	if b.Year < 1950 || b.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: implausible year", shared.ErrValidation)
	}
	return nil
}
