// Package schema holds the shared types passed between the storecast layers.
package schema

import (
	"time"
)

// DataPoint is a single dated value in a series.
type DataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// PredictionRecord is the wire shape of one entry in a forecast response.
type PredictionRecord struct {
	Date  string  `json:"Date"`
	Sales float64 `json:"Sales"`
}

// ForecastRequest selects which department and store to forecast.
type ForecastRequest struct {
	Department int `json:"department"`
	Store      int `json:"store"`
}

// ForecastResult is a sorted forecast series plus the size of its trailing window.
type ForecastResult struct {
	Department int         `json:"department"`
	Store      int         `json:"store"`
	Highlight  int         `json:"highlight"`
	Points     []DataPoint `json:"points"`
}

// RecommendationItem is one recommended product.
type RecommendationItem struct {
	Manufacturer  string  `json:"manufacturer"`
	Name          string  `json:"name"`
	Ratings       float64 `json:"ratings"`
	NoOfRatings   float64 `json:"no_of_ratings"`
	DiscountPrice float64 `json:"discount_price"`
	ActualPrice   float64 `json:"actual_price"`
}

// RecommendationResult holds the recommendations for one purchase.
type RecommendationResult struct {
	LastPurchase string               `json:"last_purchase"`
	Items        []RecommendationItem `json:"items"`
}

// ClassificationResult is the label assigned to an uploaded image.
type ClassificationResult struct {
	Label       string `json:"classification"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Customer is a registered user whose last purchase seeds recommendations.
type Customer struct {
	ID           int    `json:"id" mapstructure:"id"`
	Name         string `json:"name" mapstructure:"name"`
	LastPurchase string `json:"last_purchase" mapstructure:"last_purchase"`
}

// Catalog lists the selectable options for the forms.
type Catalog struct {
	Departments []int      `json:"departments"`
	Stores      []int      `json:"stores"`
	Customers   []Customer `json:"customers"`
}
