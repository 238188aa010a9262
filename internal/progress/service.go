// AngelaMos | 2026
// service.go

package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type StudentOwners interface {
	InstructorOf(ctx context.Context, studentID string) (string, error)
}

type Service struct {
	repo   Repository
	owners StudentOwners
	now    func() time.Time
}

func NewService(repo Repository, owners StudentOwners) *Service {
	return &Service{repo: repo, owners: owners, now: time.Now}
}

func (s *Service) List(
	ctx context.Context,
	caller scope.Caller,
	params ListRecordsParams,
) ([]Record, int, error) {
	params.Owner = caller.OwnerFilter()
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, caller scope.Caller, id string) (*Record, error) {
	return s.repo.GetByID(ctx, id, caller.OwnerFilter())
}

// History returns a student's records oldest first with the trend of each
// metric. A student outside the caller's scope does not exist for them.
func (s *Service) History(
	ctx context.Context,
	caller scope.Caller,
	studentID string,
) ([]Record, Trends, error) {
	owner, err := s.owners.InstructorOf(ctx, studentID)
	if err != nil {
		return nil, Trends{}, err
	}
	if !caller.CanAccessStudent(owner) {
		return nil, Trends{}, fmt.Errorf("get student: %w", core.ErrNotFound)
	}

	records, err := s.repo.History(ctx, studentID)
	if err != nil {
		return nil, Trends{}, err
	}

	return records, TrendsOf(records), nil
}

// Create records an assessment dated now unless record_date is given.
func (s *Service) Create(
	ctx context.Context,
	caller scope.Caller,
	req CreateRecordRequest,
) (*Record, error) {
	owner, err := s.owners.InstructorOf(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(owner); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:           uuid.New().String(),
		StudentID:    req.StudentID,
		OwnerID:      owner,
		Measurements: Measurements{},
		Notes:        req.Notes,
		RecordDate:   s.now(),
	}
	if req.RecordDate != nil {
		rec.RecordDate = *req.RecordDate
	}

	err = apply(rec, metrics{
		weight:       req.Weight,
		bodyFat:      req.BodyFat,
		muscleMass:   req.MuscleMass,
		measurements: req.Measurements,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, rec.ID, "")
}

func (s *Service) Update(
	ctx context.Context,
	caller scope.Caller,
	id string,
	req UpdateRecordRequest,
) (*Record, error) {
	rec, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	err = apply(rec, metrics{
		weight:       req.Weight,
		bodyFat:      req.BodyFat,
		muscleMass:   req.MuscleMass,
		measurements: req.Measurements,
	})
	if err != nil {
		return nil, err
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}
	if req.RecordDate != nil {
		rec.RecordDate = *req.RecordDate
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Service) Delete(ctx context.Context, caller scope.Caller, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) owned(ctx context.Context, caller scope.Caller, id string) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(rec.OwnerID); err != nil {
		return nil, err
	}
	return rec, nil
}

type metrics struct {
	weight       *decimal.Decimal
	bodyFat      *decimal.Decimal
	muscleMass   *decimal.Decimal
	measurements map[string]decimal.Decimal
}

// apply validates and merges the metrics that were given. Weight, muscle
// mass and measurements must be positive, body fat a percentage.
func apply(rec *Record, m metrics) error {
	if m.weight != nil {
		if !m.weight.IsPositive() {
			return fmt.Errorf("weight must be positive: %w", core.ErrInvalidInput)
		}
		rec.Weight = decimal.NewNullDecimal(m.weight.Round(2))
	}
	if m.bodyFat != nil {
		if m.bodyFat.IsNegative() || m.bodyFat.GreaterThan(hundred) {
			return fmt.Errorf("body_fat must be between 0 and 100: %w", core.ErrInvalidInput)
		}
		rec.BodyFat = decimal.NewNullDecimal(m.bodyFat.Round(2))
	}
	if m.muscleMass != nil {
		if !m.muscleMass.IsPositive() {
			return fmt.Errorf("muscle_mass must be positive: %w", core.ErrInvalidInput)
		}
		rec.MuscleMass = decimal.NewNullDecimal(m.muscleMass.Round(2))
	}
	if m.measurements != nil {
		out := make(Measurements, len(m.measurements))
		for site, v := range m.measurements {
			if !v.IsPositive() {
				return fmt.Errorf("measurements.%s must be positive: %w", site, core.ErrInvalidInput)
			}
			out[site] = v.Round(2)
		}
		rec.Measurements = out
	}
	return nil
}
