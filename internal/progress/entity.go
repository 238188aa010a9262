// AngelaMos | 2026
// entity.go

package progress

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one body assessment of a student. Every metric is optional.
type Record struct {
	ID           string              `db:"id"`
	StudentID    string              `db:"student_id"`
	StudentName  string              `db:"student_name"`
	OwnerID      string              `db:"owner_id"`
	Weight       decimal.NullDecimal `db:"weight"`
	BodyFat      decimal.NullDecimal `db:"body_fat"`
	MuscleMass   decimal.NullDecimal `db:"muscle_mass"`
	Measurements Measurements        `db:"measurements"`
	Notes        *string             `db:"notes"`
	RecordDate   time.Time           `db:"record_date"`
	CreatedAt    time.Time           `db:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

// Measurements maps a body site such as "waist" to centimetres. It is
// stored as a JSONB object of plain numbers.
type Measurements map[string]decimal.Decimal

func (m Measurements) Value() (driver.Value, error) {
	out := make(map[string]json.Number, len(m))
	for k, v := range m {
		out[k] = json.Number(v.String())
	}
	return json.Marshal(out)
}

func (m *Measurements) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Measurements{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("measurements: unsupported type %T", src)
	}

	out := Measurements{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("measurements: %w", err)
	}
	*m = out
	return nil
}

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Trend compares the two most recent values of one metric.
type Trend struct {
	Direction     string          `json:"trend"`
	Change        decimal.Decimal `json:"change"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

var hundred = decimal.NewFromInt(100)

// TrendOf looks at the last two values in chronological order. With fewer
// than two values the metric is stable with no change.
func TrendOf(values []decimal.Decimal) Trend {
	if len(values) < 2 {
		return Trend{Direction: TrendStable, Change: decimal.Zero, PercentChange: decimal.Zero}
	}

	prev, last := values[len(values)-2], values[len(values)-1]
	change := last.Sub(prev)

	percent := decimal.Zero
	if !prev.IsZero() {
		percent = change.Div(prev).Mul(hundred)
	}

	t := Trend{Direction: TrendStable, Change: change.Round(2), PercentChange: percent.Round(2)}
	switch change.Sign() {
	case 1:
		t.Direction = TrendUp
	case -1:
		t.Direction = TrendDown
	}
	return t
}

// Trends covers the metrics that are tracked over time.
type Trends struct {
	Weight     Trend `json:"weight"`
	BodyFat    Trend `json:"body_fat"`
	MuscleMass Trend `json:"muscle_mass"`
}

// TrendsOf expects records in chronological order. Records missing a
// metric are skipped for that metric only.
func TrendsOf(records []Record) Trends {
	var weight, fat, muscle []decimal.Decimal
	for _, r := range records {
		if r.Weight.Valid {
			weight = append(weight, r.Weight.Decimal)
		}
		if r.BodyFat.Valid {
			fat = append(fat, r.BodyFat.Decimal)
		}
		if r.MuscleMass.Valid {
			muscle = append(muscle, r.MuscleMass.Decimal)
		}
	}

	return Trends{
		Weight:     TrendOf(weight),
		BodyFat:    TrendOf(fat),
		MuscleMass: TrendOf(muscle),
	}
}
