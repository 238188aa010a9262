// AngelaMos | 2026
// dto.go

package progress

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type CreateRecordRequest struct {
	StudentID    string                     `json:"student_id"             validate:"required,uuid"`
	Weight       *decimal.Decimal           `json:"weight,omitempty"`
	BodyFat      *decimal.Decimal           `json:"body_fat,omitempty"`
	MuscleMass   *decimal.Decimal           `json:"muscle_mass,omitempty"`
	Measurements map[string]decimal.Decimal `json:"measurements,omitempty" validate:"omitempty,max=30,dive,keys,min=1,max=50,endkeys"`
	Notes        *string                    `json:"notes,omitempty"        validate:"omitempty,max=2000"`
	RecordDate   *time.Time                 `json:"record_date,omitempty"`
}

// UpdateRecordRequest replaces the measurements map when it is present.
type UpdateRecordRequest struct {
	Weight       *decimal.Decimal           `json:"weight,omitempty"`
	BodyFat      *decimal.Decimal           `json:"body_fat,omitempty"`
	MuscleMass   *decimal.Decimal           `json:"muscle_mass,omitempty"`
	Measurements map[string]decimal.Decimal `json:"measurements,omitempty" validate:"omitempty,max=30,dive,keys,min=1,max=50,endkeys"`
	Notes        *string                    `json:"notes,omitempty"        validate:"omitempty,max=2000"`
	RecordDate   *time.Time                 `json:"record_date,omitempty"`
}

type RecordResponse struct {
	ID           string                     `json:"id"`
	StudentID    string                     `json:"student_id"`
	StudentName  string                     `json:"student_name"`
	Weight       *decimal.Decimal           `json:"weight,omitempty"`
	BodyFat      *decimal.Decimal           `json:"body_fat,omitempty"`
	MuscleMass   *decimal.Decimal           `json:"muscle_mass,omitempty"`
	Measurements map[string]decimal.Decimal `json:"measurements"`
	Notes        *string                    `json:"notes,omitempty"`
	RecordDate   time.Time                  `json:"record_date"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

type HistoryResponse struct {
	Records []RecordResponse `json:"records"`
	Trends  Trends           `json:"trends"`
}

type ListRecordsParams struct {
	core.PageParams
	Owner     string
	StudentID string
	From      *time.Time
	To        *time.Time
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func ToRecordResponse(r *Record) RecordResponse {
	measurements := map[string]decimal.Decimal(r.Measurements)
	if measurements == nil {
		measurements = map[string]decimal.Decimal{}
	}

	return RecordResponse{
		ID:           r.ID,
		StudentID:    r.StudentID,
		StudentName:  r.StudentName,
		Weight:       nullable(r.Weight),
		BodyFat:      nullable(r.BodyFat),
		MuscleMass:   nullable(r.MuscleMass),
		Measurements: measurements,
		Notes:        r.Notes,
		RecordDate:   r.RecordDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToRecordResponseList(items []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(items))
	for i := range items {
		out = append(out, ToRecordResponse(&items[i]))
	}
	return out
}
