package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DateLayout is the canonical calendar-date representation of a DataPoint.
const DateLayout = "2006-01-02"

// acceptedDateLayouts are tried in order when parsing a date string.
var acceptedDateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses an ISO-8601 date or date-time string. Values without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected ISO-8601 (e.g. 2012-02-24)", s)
}

// FormatDate renders a date as YYYY-MM-DD, or as RFC 3339 with fractional seconds
// when it carries a time of day.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(DateLayout)
	}
	return t.Format(time.RFC3339Nano)
}

type dataPointJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MarshalJSON encodes the date as an ISO-8601 string.
func (p DataPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(dataPointJSON{Date: FormatDate(p.Date), Value: p.Value})
}

// UnmarshalJSON decodes an ISO-8601 date string.
func (p *DataPoint) UnmarshalJSON(b []byte) error {
	var raw dataPointJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	p.Date = t
	p.Value = raw.Value
	return nil
}

// ToDataPoints converts forecast wire records into data points.
func ToDataPoints(records []PredictionRecord) ([]DataPoint, error) {
	points := make([]DataPoint, 0, len(records))
	for i, r := range records {
		t, err := ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("prediction record %d: %w", i, err)
		}
		points = append(points, DataPoint{Date: t, Value: r.Sales})
	}
	return points, nil
}

// SortDataPoints sorts points ascending by date in place.
func SortDataPoints(points []DataPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// ValidateDataPoints checks that values are finite and dates are distinct.
func ValidateDataPoints(points []DataPoint) error {
	seen := make(map[int64]struct{}, len(points))
	for i, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return fmt.Errorf("point %d (%s) has a non-finite value", i, FormatDate(p.Date))
		}
		key := p.Date.UnixNano()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate date %s", FormatDate(p.Date))
		}
		seen[key] = struct{}{}
	}
	return nil
}

// IsSorted reports whether points are in ascending date order.
func IsSorted(points []DataPoint) bool {
	return sort.SliceIsSorted(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// FindCustomer returns the customer with the given ID or name (case-insensitive).
func (c Catalog) FindCustomer(key string) (Customer, bool) {
	key = strings.TrimSpace(key)
	return lo.Find(c.Customers, func(cu Customer) bool {
		return fmt.Sprint(cu.ID) == key || strings.EqualFold(cu.Name, key)
	})
}

// HasDepartment reports whether d is a selectable department.
func (c Catalog) HasDepartment(d int) bool {
	return lo.Contains(c.Departments, d)
}

// HasStore reports whether s is a selectable store.
func (c Catalog) HasStore(s int) bool {
	return lo.Contains(c.Stores, s)
}
