package core

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/storecast/schema"
	"github.com/samber/lo"
)

// Series input formats.
const (
	JSONSeries = "json"
	CSVSeries  = "csv"
)

// valueColumns are the CSV header names accepted for the value column.
var valueColumns = []string{"value", "sales", "prediction"}

// LoadSeries reads data points from path, or from stdin when path is "-" or empty.
// The format comes from the file extension, otherwise from the first byte of the input.
func LoadSeries(path string, stdin io.Reader) ([]schema.DataPoint, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open series: %w", err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	br := bufio.NewReader(r)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != JSONSeries && format != CSVSeries {
		format = sniffSeriesFormat(br)
	}
	return ReadSeries(br, format)
}

// sniffSeriesFormat picks JSON when the input starts with '[' or '{', CSV otherwise.
func sniffSeriesFormat(br *bufio.Reader) string {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return CSVSeries
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
		case '[', '{':
			return JSONSeries
		default:
			return CSVSeries
		}
	}
}

// ReadSeries decodes data points in the given format. JSON accepts an array of
// {"date","value"} objects or a forecast response {"prediction":[{"Date","Sales"}]}.
// CSV takes date and value columns, with an optional header row.
func ReadSeries(r io.Reader, format string) ([]schema.DataPoint, error) {
	switch format {
	case JSONSeries:
		return readJSONSeries(r)
	case CSVSeries:
		return readCSVSeries(r)
	default:
		return nil, fmt.Errorf("unsupported series format %q: must be json or csv", format)
	}
}

func readJSONSeries(r io.Reader) ([]schema.DataPoint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("series input is empty")
	}

	if data[0] == '{' {
		var wrapped struct {
			Prediction []schema.PredictionRecord `json:"prediction"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("invalid series JSON: %w", err)
		}
		return schema.ToDataPoints(wrapped.Prediction)
	}

	var points []schema.DataPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("invalid series JSON: %w", err)
	}
	return points, nil
}

func readCSVSeries(r io.Reader) ([]schema.DataPoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid series CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("series input is empty")
	}

	dateCol, valueCol := 0, 1
	if _, err := schema.ParseDate(records[0][0]); err != nil {
		header := lo.Map(records[0], func(h string, _ int) string { return strings.ToLower(strings.TrimSpace(h)) })
		dateCol = lo.IndexOf(header, "date")
		valueCol = -1
		for _, name := range valueColumns {
			if idx := lo.IndexOf(header, name); idx >= 0 {
				valueCol = idx
				break
			}
		}
		if dateCol < 0 || valueCol < 0 {
			return nil, fmt.Errorf("series CSV header must name a date column and one of %v", valueColumns)
		}
		records = records[1:]
	}

	points := make([]schema.DataPoint, 0, len(records))
	for i, rec := range records {
		if len(rec) <= max(dateCol, valueCol) {
			return nil, fmt.Errorf("series row %d has %d columns", i+1, len(rec))
		}
		date, err := schema.ParseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+1, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[valueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("series row %d: invalid value %q", i+1, rec[valueCol])
		}
		points = append(points, schema.DataPoint{Date: date, Value: value})
	}
	return points, nil
}

// PrepareSeries sorts points ascending by date and rejects duplicates and non-finite values.
func PrepareSeries(points []schema.DataPoint) ([]schema.DataPoint, error) {
	sorted := append([]schema.DataPoint(nil), points...)
	schema.SortDataPoints(sorted)
	if err := schema.ValidateDataPoints(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
