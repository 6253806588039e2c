package core

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/storecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeries(t *testing.T) {
	oct5 := time.Date(2012, 10, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		format string
		input  string
		want   []schema.DataPoint
	}{
		{"json array", JSONSeries, `[{"date":"2012-10-05","value":1.5}]`, []schema.DataPoint{{Date: oct5, Value: 1.5}}},
		{"forecast response", JSONSeries, `{"prediction":[{"Date":"2012-10-05 00:00:00","Sales":7}]}`, []schema.DataPoint{{Date: oct5, Value: 7}}},
		{"csv with header", CSVSeries, "Date,Sales\n2012-10-05,3\n", []schema.DataPoint{{Date: oct5, Value: 3}}},
		{"csv reordered header", CSVSeries, "value,date\n4,2012-10-05\n", []schema.DataPoint{{Date: oct5, Value: 4}}},
		{"csv without header", CSVSeries, "2012-10-05, 9\n", []schema.DataPoint{{Date: oct5, Value: 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSeries(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSeriesErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{"empty json", JSONSeries, "  "},
		{"malformed json", JSONSeries, `[{"date":`},
		{"bad json date", JSONSeries, `[{"date":"later","value":1}]`},
		{"empty csv", CSVSeries, ""},
		{"csv header without value", CSVSeries, "date,count\n2012-10-05,1\n"},
		{"csv bad value", CSVSeries, "2012-10-05,abc\n"},
		{"csv short row", CSVSeries, "date,value\n2012-10-05\n"},
		{"unknown format", "xml", "<a/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSeries(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestSniffSeriesFormat(t *testing.T) {
	assert.Equal(t, JSONSeries, sniffSeriesFormat(bufio.NewReader(strings.NewReader("\n  [1]"))))
	assert.Equal(t, JSONSeries, sniffSeriesFormat(bufio.NewReader(strings.NewReader("{}"))))
	assert.Equal(t, CSVSeries, sniffSeriesFormat(bufio.NewReader(strings.NewReader("date,value"))))
	assert.Equal(t, CSVSeries, sniffSeriesFormat(bufio.NewReader(strings.NewReader(""))))
}

func TestLoadSeries(t *testing.T) {
	points, err := LoadSeries("-", strings.NewReader(` [{"date":"2012-10-05","value":1}]`))
	require.NoError(t, err)
	assert.Len(t, points, 1)

	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,value\n2012-10-12,2\n2012-10-05,1\n"), 0o644))
	points, err = LoadSeries(path, nil)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	_, err = LoadSeries(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestPrepareSeries(t *testing.T) {
	in := []schema.DataPoint{
		{Date: time.Date(2012, 10, 12, 0, 0, 0, 0, time.UTC), Value: 2},
		{Date: time.Date(2012, 10, 5, 0, 0, 0, 0, time.UTC), Value: 1},
	}
	got, err := PrepareSeries(in)
	require.NoError(t, err)
	assert.True(t, schema.IsSorted(got))
	assert.Equal(t, 2.0, in[0].Value, "input is left untouched")

	_, err = PrepareSeries(append(in, in[0]))
	assert.Error(t, err)
}

func TestExecuteChart(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "series.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
		{"date":"2012-10-12","value":20},
		{"date":"2012-10-05","value":10},
		{"date":"2012-10-19","value":30}
	]`), 0o644))

	cfg := testConfig()
	cfg.Output = schema.SVGOut
	cfg.ChartInput = input
	cfg.Highlight = 1
	cfg.OutputFile = filepath.Join(dir, "chart.svg")
	require.NoError(t, ExecuteChart(context.Background(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, `class="series normal"`)
	assert.Contains(t, svg, `class="series highlighted"`)
}
