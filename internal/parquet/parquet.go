// Package parquet provides data structures and functions for exporting storecast
// forecasts and submission history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/storecast/schema"
	"github.com/parquet-go/parquet-go"
)

// ForecastPoint is one dated value of a forecast series.
type ForecastPoint struct {
	// Department and Store identify the forecast series
	Department int32 `parquet:"department,snappy"`
	Store      int32 `parquet:"store,snappy"`

	// Date is the point date (stored as TIMESTAMP with nanosecond precision)
	Date time.Time `parquet:"date,snappy"`

	// Sales is the predicted or actual value
	Sales float64 `parquet:"sales,snappy"`

	// Highlighted marks points in the trailing forecast window
	Highlighted bool `parquet:"highlighted,snappy"`
}

// Submission represents one recorded form submission.
// This struct maps to the storecast_submissions database table.
type Submission struct {
	SubmissionID int64     `parquet:"submission_id,snappy"`
	Form         string    `parquet:"form,snappy,dict"`
	RequestKey   string    `parquet:"request_key,snappy"`
	Status       string    `parquet:"status,snappy,dict"`
	Reason       *string   `parquet:"reason,optional,snappy"`
	DurationMs   int32     `parquet:"duration_ms,snappy"`
	Cached       bool      `parquet:"cached,snappy"`
	CreatedAt    time.Time `parquet:"created_at,snappy"`
}

// writeRows writes rows to w with a schema inferred from T.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteForecastPoints writes forecast rows to w.
func WriteForecastPoints(w io.Writer, rows []ForecastPoint) error {
	return writeRows(w, rows)
}

// WriteSubmissions writes submission rows to w.
func WriteSubmissions(w io.Writer, rows []Submission) error {
	return writeRows(w, rows)
}

// WriteSubmissionsParquet writes submission rows to a new file at outputPath.
func WriteSubmissionsParquet(rows []Submission, outputPath string) error {
	return writeFile(rows, outputPath)
}

// ConvertForecastResult flattens a forecast into Parquet rows.
func ConvertForecastResult(result schema.ForecastResult) []ForecastPoint {
	split := max(0, len(result.Points)-max(0, result.Highlight))
	rows := make([]ForecastPoint, len(result.Points))
	for i, p := range result.Points {
		rows[i] = ForecastPoint{
			Department:  int32(result.Department),
			Store:       int32(result.Store),
			Date:        p.Date,
			Sales:       p.Value,
			Highlighted: i >= split,
		}
	}
	return rows
}

// ConvertSubmissionRecords converts schema.SubmissionRecord to Submission for Parquet export.
func ConvertSubmissionRecords(records []schema.SubmissionRecord) []Submission {
	rows := make([]Submission, len(records))
	for i, record := range records {
		rows[i] = Submission{
			SubmissionID: record.SubmissionID,
			Form:         string(record.Form),
			RequestKey:   record.RequestKey,
			Status:       record.Status,
			Reason:       record.Reason,
			DurationMs:   record.DurationMs,
			Cached:       record.Cached,
			CreatedAt:    record.CreatedAt,
		}
	}
	return rows
}
