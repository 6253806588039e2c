package chart

import (
	"math"
	"sort"
	"time"
)

type timeUnit int

const (
	unitMillisecond timeUnit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

const (
	durationDay   = 24 * time.Hour
	durationWeek  = 7 * durationDay
	durationMonth = 30 * durationDay
	durationYear  = 365 * durationDay
)

// timeInterval is a calendar unit taken every step units.
type timeInterval struct {
	unit timeUnit
	step int
}

// tickIntervals is the ladder of candidate intervals, ordered by approximate duration.
var tickIntervals = []struct {
	interval timeInterval
	approx   time.Duration
}{
	{timeInterval{unitSecond, 1}, time.Second},
	{timeInterval{unitSecond, 5}, 5 * time.Second},
	{timeInterval{unitSecond, 15}, 15 * time.Second},
	{timeInterval{unitSecond, 30}, 30 * time.Second},
	{timeInterval{unitMinute, 1}, time.Minute},
	{timeInterval{unitMinute, 5}, 5 * time.Minute},
	{timeInterval{unitMinute, 15}, 15 * time.Minute},
	{timeInterval{unitMinute, 30}, 30 * time.Minute},
	{timeInterval{unitHour, 1}, time.Hour},
	{timeInterval{unitHour, 3}, 3 * time.Hour},
	{timeInterval{unitHour, 6}, 6 * time.Hour},
	{timeInterval{unitHour, 12}, 12 * time.Hour},
	{timeInterval{unitDay, 1}, durationDay},
	{timeInterval{unitDay, 2}, 2 * durationDay},
	{timeInterval{unitWeek, 1}, durationWeek},
	{timeInterval{unitMonth, 1}, durationMonth},
	{timeInterval{unitMonth, 3}, 3 * durationMonth},
	{timeInterval{unitYear, 1}, durationYear},
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// chooseInterval picks the ladder entry whose duration is closest to span/count.
func chooseInterval(start, stop time.Time, count int) timeInterval {
	target := math.Abs(millis(stop)-millis(start)) / float64(count)
	i := sort.Search(len(tickIntervals), func(i int) bool {
		return float64(tickIntervals[i].approx.Milliseconds()) > target
	})

	switch i {
	case len(tickIntervals):
		years := tickStep(millis(start)/float64(durationYear.Milliseconds()), millis(stop)/float64(durationYear.Milliseconds()), count)
		return timeInterval{unitYear, max(1, int(math.Floor(years)))}
	case 0:
		ms := math.Max(tickStep(millis(start), millis(stop), count), 1)
		return timeInterval{unitMillisecond, int(math.Floor(ms))}
	}

	lower := float64(tickIntervals[i-1].approx.Milliseconds())
	upper := float64(tickIntervals[i].approx.Milliseconds())
	if target/lower < upper/target {
		return tickIntervals[i-1].interval
	}
	return tickIntervals[i].interval
}

// floorUnit rounds t down to the start of its unit in UTC.
func floorUnit(t time.Time, unit timeUnit) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch unit {
	case unitMillisecond:
		return t.Truncate(time.Millisecond)
	case unitSecond:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	case unitMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC)
	case unitHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, time.UTC)
	case unitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case unitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	case unitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// offsetUnit advances t by one unit.
func offsetUnit(t time.Time, unit timeUnit) time.Time {
	switch unit {
	case unitMillisecond:
		return t.Add(time.Millisecond)
	case unitSecond:
		return t.Add(time.Second)
	case unitMinute:
		return t.Add(time.Minute)
	case unitHour:
		return t.Add(time.Hour)
	case unitDay:
		return t.AddDate(0, 0, 1)
	case unitWeek:
		return t.AddDate(0, 0, 7)
	case unitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// matches reports whether a unit boundary falls on the interval's step.
func (iv timeInterval) matches(t time.Time) bool {
	if iv.step <= 1 {
		return true
	}
	switch iv.unit {
	case unitMillisecond:
		return t.UnixMilli()%int64(iv.step) == 0
	case unitSecond:
		return t.Second()%iv.step == 0
	case unitMinute:
		return t.Minute()%iv.step == 0
	case unitHour:
		return t.Hour()%iv.step == 0
	case unitDay:
		return (t.Day()-1)%iv.step == 0
	case unitMonth:
		return (int(t.Month())-1)%iv.step == 0
	case unitYear:
		return t.Year()%iv.step == 0
	default:
		return true
	}
}

// rangeInclusive lists every interval boundary in [start, stop].
func (iv timeInterval) rangeInclusive(start, stop time.Time) []time.Time {
	t := floorUnit(start, iv.unit)
	if t.Before(start) {
		t = offsetUnit(t, iv.unit)
	}
	var out []time.Time
	for !t.After(stop) {
		if iv.matches(t) {
			out = append(out, t)
		}
		t = offsetUnit(t, iv.unit)
	}
	return out
}

// timeTicks returns about count calendar-aligned instants in [start, stop].
func timeTicks(start, stop time.Time, count int) []time.Time {
	if count <= 0 || start.IsZero() && stop.IsZero() {
		return nil
	}
	reverse := stop.Before(start)
	if reverse {
		start, stop = stop, start
	}
	if start.Equal(stop) {
		return []time.Time{start.UTC()}
	}
	iv := chooseInterval(start, stop, count)
	if iv.unit == unitMillisecond && iv.step > 1 {
		// Walk multiples of the step directly instead of every millisecond.
		step := int64(iv.step)
		first := (start.UnixMilli() + step - 1) / step * step
		var out []time.Time
		for ms := first; ms <= stop.UnixMilli(); ms += step {
			out = append(out, time.UnixMilli(ms).UTC())
		}
		return out
	}
	ticks := iv.rangeInclusive(start.UTC(), stop.UTC())
	if reverse {
		for l, r := 0, len(ticks)-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}
	return ticks
}

// formatTimeTick labels t with the coarsest unit it is not aligned to.
func formatTimeTick(t time.Time) string {
	t = t.UTC()
	switch {
	case floorUnit(t, unitSecond).Before(t):
		return t.Format(".000")
	case floorUnit(t, unitMinute).Before(t):
		return t.Format(":05")
	case floorUnit(t, unitHour).Before(t):
		return t.Format("03:04")
	case floorUnit(t, unitDay).Before(t):
		return t.Format("03 PM")
	case floorUnit(t, unitMonth).Before(t):
		if floorUnit(t, unitWeek).Before(t) {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case floorUnit(t, unitYear).Before(t):
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}
