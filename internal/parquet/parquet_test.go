package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/storecast/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubmissions() []schema.SubmissionRecord {
	reason := "status"
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []schema.SubmissionRecord{
		{SubmissionID: 1, Form: schema.ForecastForm, RequestKey: "abc", Status: "ok", DurationMs: 120, CreatedAt: now},
		{SubmissionID: 2, Form: schema.ClassificationForm, RequestKey: "def", Status: "failed", Reason: &reason, DurationMs: 30, CreatedAt: now.Add(time.Minute)},
		{SubmissionID: 3, Form: schema.ForecastForm, RequestKey: "abc", Status: "ok", Cached: true, CreatedAt: now.Add(2 * time.Minute)},
	}
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"forecast point", new(ForecastPoint), []string{"department", "store", "date", "sales", "highlighted"}},
		{"submission", new(Submission), []string{"submission_id", "form", "request_key", "status", "reason", "duration_ms", "cached", "created_at"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestConvertForecastResult(t *testing.T) {
	base := time.Date(2012, 10, 5, 0, 0, 0, 0, time.UTC)
	result := schema.ForecastResult{Department: 2, Store: 3, Highlight: 2}
	for i := range 4 {
		result.Points = append(result.Points, schema.DataPoint{Date: base.AddDate(0, 0, 7*i), Value: float64(i)})
	}

	rows := ConvertForecastResult(result)
	require.Len(t, rows, 4)
	assert.Equal(t, []bool{false, false, true, true}, []bool{rows[0].Highlighted, rows[1].Highlighted, rows[2].Highlighted, rows[3].Highlighted})
	assert.Equal(t, int32(2), rows[0].Department)
	assert.Equal(t, int32(3), rows[0].Store)

	t.Run("window larger than series", func(t *testing.T) {
		result.Highlight = 10
		rows := ConvertForecastResult(result)
		for _, r := range rows {
			assert.True(t, r.Highlighted)
		}
	})
}

func TestWriteForecastPointsRoundTrip(t *testing.T) {
	rows := []ForecastPoint{
		{Department: 1, Store: 1, Date: time.Date(2012, 10, 5, 0, 0, 0, 0, time.UTC), Sales: 100.5},
		{Department: 1, Store: 1, Date: time.Date(2012, 10, 12, 0, 0, 0, 0, time.UTC), Sales: 120, Highlighted: true},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteForecastPoints(&buf, rows))

	reader := parquet.NewGenericReader[ForecastPoint](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()

	got := make([]ForecastPoint, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(rows), n)
	for i := range rows {
		assert.WithinDuration(t, rows[i].Date, got[i].Date, time.Nanosecond)
		assert.InDelta(t, rows[i].Sales, got[i].Sales, 1e-9)
		assert.Equal(t, rows[i].Highlighted, got[i].Highlighted)
	}
}

func TestWriteSubmissionsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "submissions.parquet")
	data := ConvertSubmissionRecords(sampleSubmissions())

	require.NoError(t, WriteSubmissionsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Submission](file)
	defer func() { _ = reader.Close() }()

	got := make([]Submission, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	for i := range data {
		assert.Equal(t, data[i].SubmissionID, got[i].SubmissionID)
		assert.Equal(t, data[i].Form, got[i].Form)
		assert.Equal(t, data[i].Status, got[i].Status)
		assert.Equal(t, data[i].Cached, got[i].Cached)
		if data[i].Reason == nil {
			assert.Nil(t, got[i].Reason)
		} else {
			require.NotNil(t, got[i].Reason)
			assert.Equal(t, *data[i].Reason, *got[i].Reason)
		}
	}
}

func TestWriteSubmissionsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSubmissionsParquet([]Submission{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteSubmissionsParquet_InvalidPath(t *testing.T) {
	err := WriteSubmissionsParquet(ConvertSubmissionRecords(sampleSubmissions()), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}
