// AngelaMos | 2026
// entity_test.go

package progress

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name      string
		values    []decimal.Decimal
		direction string
		change    string
		percent   string
	}{
		{name: "no values", values: nil, direction: TrendStable, change: "0", percent: "0"},
		{name: "single value", values: decimals("80"), direction: TrendStable, change: "0", percent: "0"},
		{name: "gain", values: decimals("70", "80", "82"), direction: TrendUp, change: "2", percent: "2.5"},
		{name: "loss", values: decimals("90", "84.5"), direction: TrendDown, change: "-5.5", percent: "-6.11"},
		{name: "flat", values: decimals("18.2", "18.2"), direction: TrendStable, change: "0", percent: "0"},
		{name: "from zero", values: decimals("0", "3"), direction: TrendUp, change: "3", percent: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendOf(tt.values)
			assert.Equal(t, tt.direction, got.Direction)
			assert.Equal(t, tt.change, got.Change.String())
			assert.Equal(t, tt.percent, got.PercentChange.String())
		})
	}
}

func TestTrendsOfSkipsMissingMetrics(t *testing.T) {
	records := []Record{
		{Weight: decimal.NewNullDecimal(decimal.NewFromInt(80)), BodyFat: decimal.NewNullDecimal(decimal.NewFromInt(20))},
		{Weight: decimal.NewNullDecimal(decimal.NewFromInt(78))},
		{BodyFat: decimal.NewNullDecimal(decimal.NewFromInt(22))},
	}

	trends := TrendsOf(records)
	assert.Equal(t, TrendDown, trends.Weight.Direction)
	assert.Equal(t, TrendUp, trends.BodyFat.Direction)
	assert.Equal(t, "2", trends.BodyFat.Change.String())
	assert.Equal(t, TrendStable, trends.MuscleMass.Direction)
}

func TestMeasurementsRoundTripAsNumbers(t *testing.T) {
	m := Measurements{"waist": decimal.RequireFromString("82.5")}

	v, err := m.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"waist":82.5}`, string(v.([]byte)))

	var back Measurements
	require.NoError(t, back.Scan(v))
	assert.True(t, back["waist"].Equal(decimal.RequireFromString("82.5")))

	require.NoError(t, back.Scan(`{"arm":35}`))
	assert.Equal(t, "35", back["arm"].String())

	require.NoError(t, back.Scan(nil))
	assert.Empty(t, back)

	assert.Error(t, back.Scan(42))
}
