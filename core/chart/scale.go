package chart

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Tick step thresholds: steps snap to 1, 2, 5 or 10 times a power of ten.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// maxNiceIterations bounds the nice loop; it converges in two or three passes.
const maxNiceIterations = 10

// jsRound rounds half up, the way tick arithmetic expects.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}

// tickSpec returns the integer tick bounds i1..i2 and the increment for count ticks
// over [start, stop]. A negative increment means the step is 1/-inc.
func tickSpec(start, stop float64, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = jsRound(start * inc)
		i2 = jsRound(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = jsRound(start / inc)
		i2 = jsRound(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}

	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// tickIncrement returns the signed increment used by nice.
func tickIncrement(start, stop float64, count int) float64 {
	_, _, inc := tickSpec(start, stop, float64(count))
	return inc
}

// tickStep returns the positive distance between adjacent ticks.
func tickStep(start, stop float64, count int) float64 {
	reverse := stop < start
	var inc float64
	if reverse {
		inc = tickIncrement(stop, start, count)
	} else {
		inc = tickIncrement(start, stop, count)
	}
	step := inc
	if inc < 0 {
		step = 1 / -inc
	}
	if reverse {
		return -step
	}
	return step
}

// linearTicks returns about count evenly spaced round values in [start, stop].
func linearTicks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := range n {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}
	return ticks
}

// niceDomain extends [start, stop] outward to multiples of the tick step.
func niceDomain(start, stop float64, count int) (float64, float64) {
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	prestep := math.NaN()
	for range maxNiceIterations {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			if reverse {
				return stop, start
			}
			return start, stop
		}
		prestep = step
	}
	if reverse {
		return stop, start
	}
	return start, stop
}

// widenDegenerate turns [v, v] into a small symmetric range around v.
func widenDegenerate(lo, hi float64) (float64, float64) {
	if lo != hi {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// LinearScale maps values onto pixel positions.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinearScale builds a scale over [min, max] of values, niced for count ticks.
func NewLinearScale(values []float64, r0, r1 float64, count int) LinearScale {
	if len(values) == 0 {
		return LinearScale{Domain: [2]float64{0, 1}, Range: [2]float64{r0, r1}}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = widenDegenerate(lo, hi)
	lo, hi = niceDomain(lo, hi, count)
	return LinearScale{Domain: [2]float64{lo, hi}, Range: [2]float64{r0, r1}}
}

// Map returns the pixel position of v.
func (s LinearScale) Map(v float64) float64 {
	d := s.Domain[1] - s.Domain[0]
	t := 0.5
	if d != 0 {
		t = (v - s.Domain[0]) / d
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Contains reports whether v lies within the domain.
func (s LinearScale) Contains(v float64) bool {
	lo, hi := math.Min(s.Domain[0], s.Domain[1]), math.Max(s.Domain[0], s.Domain[1])
	return v >= lo && v <= hi
}

// Ticks returns round values across the domain.
func (s LinearScale) Ticks(count int) []float64 {
	return linearTicks(s.Domain[0], s.Domain[1], count)
}

// TickLabels formats ticks with the precision implied by their step.
func (s LinearScale) TickLabels(ticks []float64, count int) []string {
	step := math.Abs(tickStep(s.Domain[0], s.Domain[1], count))
	decimals := 0
	if step > 0 && !math.IsInf(step, 0) {
		decimals = max(0, -int(math.Floor(math.Log10(step))))
	}
	labels := make([]string, len(ticks))
	for i, v := range ticks {
		labels[i] = formatGrouped(v, decimals)
	}
	return labels
}

// formatGrouped renders v with thousands separators and a typographic minus sign.
func formatGrouped(v float64, decimals int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	neg := v < 0 && strings.Trim(s, "0.") != ""

	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	var b strings.Builder
	if neg {
		b.WriteString("−")
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// TimeScale maps instants onto pixel positions.
type TimeScale struct {
	Domain [2]time.Time
	Range  [2]float64
}

// NewTimeScale builds a scale over [min, max] of dates.
func NewTimeScale(dates []time.Time, r0, r1 float64) TimeScale {
	if len(dates) == 0 {
		return TimeScale{Range: [2]float64{r0, r1}}
	}
	lo, hi := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	return TimeScale{Domain: [2]time.Time{lo.UTC(), hi.UTC()}, Range: [2]float64{r0, r1}}
}

// Degenerate reports whether the domain collapses to a single instant.
func (s TimeScale) Degenerate() bool {
	return s.Domain[0].Equal(s.Domain[1])
}

// Map returns the pixel position of t. A degenerate domain maps to the middle of the range.
func (s TimeScale) Map(t time.Time) float64 {
	span := s.Domain[1].Sub(s.Domain[0])
	ratio := 0.5
	if span != 0 {
		ratio = float64(t.Sub(s.Domain[0])) / float64(span)
	}
	return s.Range[0] + ratio*(s.Range[1]-s.Range[0])
}

// Ticks returns calendar-aligned instants across the domain.
func (s TimeScale) Ticks(count int) []time.Time {
	return timeTicks(s.Domain[0], s.Domain[1], count)
}
