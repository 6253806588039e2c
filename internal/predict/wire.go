package predict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/storecast/schema"
)

// flexFloat accepts a JSON number, a numeric string such as "2,255" or "₹599", or null.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// recommendationWire is one record of the recommendation response.
type recommendationWire struct {
	Manufacturer  string    `json:"manufacturer"`
	Name          string    `json:"name"`
	Ratings       flexFloat `json:"ratings"`
	NoOfRatings   flexFloat `json:"no_of_ratings"`
	DiscountPrice flexFloat `json:"discount_price"`
	ActualPrice   flexFloat `json:"actual_price"`
}

func (r recommendationWire) item() schema.RecommendationItem {
	return schema.RecommendationItem{
		Manufacturer:  r.Manufacturer,
		Name:          r.Name,
		Ratings:       float64(r.Ratings),
		NoOfRatings:   float64(r.NoOfRatings),
		DiscountPrice: float64(r.DiscountPrice),
		ActualPrice:   float64(r.ActualPrice),
	}
}
