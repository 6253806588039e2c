package schema

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2012-02-24", want: day("2012-02-24")},
		{in: " 2012-02-24 ", want: day("2012-02-24")},
		{in: "2012-02-24T00:00:00Z", want: day("2012-02-24")},
		{in: "2012-02-24 00:00:00", want: day("2012-02-24")},
		{in: "2012-02-24T06:30:00", want: day("2012-02-24").Add(6*time.Hour + 30*time.Minute)},
		{in: "2012-02-24T02:00:00+02:00", want: day("2012-02-24")},
		{in: "24/02/2012", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2012-02-24", FormatDate(day("2012-02-24")))
	assert.Equal(t, "2012-02-24T06:00:00Z", FormatDate(day("2012-02-24").Add(6*time.Hour)))
	assert.Equal(t, "2012-02-24T06:00:00.25Z", FormatDate(day("2012-02-24").Add(6*time.Hour+250*time.Millisecond)))
}

func TestDataPointJSONKeepsSubSecond(t *testing.T) {
	base := day("2012-02-24").Add(6 * time.Hour)
	points := []DataPoint{{Date: base, Value: 1}, {Date: base.Add(500 * time.Millisecond), Value: 2}}

	b, err := json.Marshal(points)
	require.NoError(t, err)
	var got []DataPoint
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got, 2)
	assert.True(t, got[1].Date.Equal(points[1].Date))
	assert.NoError(t, ValidateDataPoints(got))
}

func TestDataPointJSON(t *testing.T) {
	p := DataPoint{Date: day("2012-03-02"), Value: 1523.5}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2012-03-02","value":1523.5}`, string(b))

	var decoded []DataPoint
	require.NoError(t, json.Unmarshal([]byte(`[{"date":"2012-03-02 00:00:00","value":3}]`), &decoded))
	require.Len(t, decoded, 1)
	assert.True(t, day("2012-03-02").Equal(decoded[0].Date))
	assert.Equal(t, 3.0, decoded[0].Value)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"yesterday","value":1}`), &p))
}

func TestToDataPoints(t *testing.T) {
	points, err := ToDataPoints([]PredictionRecord{
		{Date: "2012-10-19", Sales: 100},
		{Date: "2012-10-26 00:00:00", Sales: 120},
	})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 120.0, points[1].Value)

	_, err = ToDataPoints([]PredictionRecord{{Date: "nope", Sales: 1}})
	assert.ErrorContains(t, err, "prediction record 0")
}

func TestSortDataPoints(t *testing.T) {
	points := []DataPoint{
		{Date: day("2012-01-03"), Value: 3},
		{Date: day("2012-01-01"), Value: 1},
		{Date: day("2012-01-02"), Value: 2},
	}
	assert.False(t, IsSorted(points))
	SortDataPoints(points)
	assert.True(t, IsSorted(points))
	assert.Equal(t, []float64{1, 2, 3}, []float64{points[0].Value, points[1].Value, points[2].Value})
}

func TestValidateDataPoints(t *testing.T) {
	assert.NoError(t, ValidateDataPoints(nil))
	assert.NoError(t, ValidateDataPoints([]DataPoint{{Date: day("2012-01-01"), Value: 1}}))

	dup := []DataPoint{
		{Date: day("2012-01-01"), Value: 1},
		{Date: day("2012-01-01"), Value: 2},
	}
	assert.ErrorContains(t, ValidateDataPoints(dup), "duplicate date 2012-01-01")

	nan := []DataPoint{{Date: day("2012-01-01"), Value: math.NaN()}}
	assert.ErrorContains(t, ValidateDataPoints(nan), "non-finite")
}

func TestCatalogLookups(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Customers, 10)
	assert.True(t, c.HasDepartment(2))
	assert.False(t, c.HasDepartment(4))
	assert.True(t, c.HasStore(3))
	assert.False(t, c.HasStore(0))

	byName, ok := c.FindCustomer("ronaldo")
	require.True(t, ok)
	assert.Equal(t, "Sport Men Sweatshirt", byName.LastPurchase)

	byID, ok := c.FindCustomer("6")
	require.True(t, ok)
	assert.Equal(t, "Juan Carlos", byID.Name)

	_, ok = c.FindCustomer("Nobody")
	assert.False(t, ok)
}
