package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNiceDomain(t *testing.T) {
	tests := []struct {
		name           string
		start, stop    float64
		wantLo, wantHi float64
	}{
		{name: "fractional", start: 0.13, stop: 0.87, wantLo: 0.1, wantHi: 0.9},
		{name: "step changes sign", start: 1.1, stop: 10.9, wantLo: 1, wantHi: 11},
		{name: "hundreds", start: 100, stop: 440, wantLo: 100, wantHi: 450},
		{name: "already nice", start: 0, stop: 100, wantLo: 0, wantHi: 100},
		{name: "reversed", start: 440, stop: 100, wantLo: 450, wantHi: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := niceDomain(tt.start, tt.stop, 10)
			assert.InDelta(t, tt.wantLo, lo, 1e-9)
			assert.InDelta(t, tt.wantHi, hi, 1e-9)
		})
	}
}

func TestLinearTicks(t *testing.T) {
	assert.Equal(t, []float64{100, 150, 200, 250, 300, 350, 400, 450}, linearTicks(100, 450, 10))
	assert.Equal(t, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}, linearTicks(0, 1, 10))
	assert.Equal(t, []float64{5}, linearTicks(5, 5, 10))
	assert.Nil(t, linearTicks(0, 1, 0))
	assert.Equal(t, []float64{10, 5, 0}, linearTicks(10, 0, 2))
}

func TestNewLinearScaleDegenerate(t *testing.T) {
	t.Run("non-zero value", func(t *testing.T) {
		s := NewLinearScale([]float64{50}, 450, 0, 10)
		assert.Equal(t, [2]float64{45, 55}, s.Domain)
		assert.InDelta(t, 225, s.Map(50), 1e-9)
	})
	t.Run("zero value", func(t *testing.T) {
		s := NewLinearScale([]float64{0, 0}, 100, 0, 10)
		assert.InDelta(t, -1, s.Domain[0], 1e-9)
		assert.InDelta(t, 1, s.Domain[1], 1e-9)
		assert.InDelta(t, 50, s.Map(0), 1e-9)
	})
}

func TestLinearScaleMap(t *testing.T) {
	s := NewLinearScale([]float64{100, 440}, 450, 0, 10)
	assert.Equal(t, [2]float64{100, 450}, s.Domain)
	assert.InDelta(t, 450, s.Map(100), 1e-9)
	assert.InDelta(t, 0, s.Map(450), 1e-9)
	assert.True(t, s.Contains(440))
	assert.False(t, s.Contains(451))
}

func TestTickLabels(t *testing.T) {
	s := NewLinearScale([]float64{100, 440}, 450, 0, 10)
	assert.Equal(t, []string{"100", "150", "200"}, s.TickLabels([]float64{100, 150, 200}, 10))

	small := NewLinearScale([]float64{0}, 100, 0, 10)
	labels := small.TickLabels(small.Ticks(10), 10)
	assert.Equal(t, "−1.0", labels[0])
	assert.Equal(t, "0.0", labels[5])
	assert.Equal(t, "1.0", labels[10])
}

func TestFormatGrouped(t *testing.T) {
	assert.Equal(t, "1,234,567", formatGrouped(1234567, 0))
	assert.Equal(t, "12,000.5", formatGrouped(12000.5, 1))
	assert.Equal(t, "−2,500", formatGrouped(-2500, 0))
	assert.Equal(t, "0", formatGrouped(-0.0001, 0))
	assert.Equal(t, "999", formatGrouped(999, 0))
}

func TestTimeScaleMap(t *testing.T) {
	d0 := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 10)
	s := NewTimeScale([]time.Time{d1, d0}, 0, 100)
	assert.Equal(t, d0, s.Domain[0])
	assert.Equal(t, d1, s.Domain[1])
	assert.InDelta(t, 0, s.Map(d0), 1e-9)
	assert.InDelta(t, 50, s.Map(d0.AddDate(0, 0, 5)), 1e-9)
	assert.InDelta(t, 100, s.Map(d1), 1e-9)

	single := NewTimeScale([]time.Time{d0}, 0, 720)
	assert.True(t, single.Degenerate())
	assert.InDelta(t, 360, single.Map(d0), 1e-9)
}
