package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/parquet"
	"github.com/huangsam/storecast/schema"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistory writes submissions to the configured output file or stdout.
func PrintHistory(records []schema.SubmissionRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHistory(w, records, cfg)
	}, fmt.Sprintf("Wrote %s history", cfg.Output))
}

// WriteHistory writes submissions to w. Text output uses colored status labels when enabled.
func WriteHistory(w io.Writer, records []schema.SubmissionRecord, cfg *contract.Config) error {
	if cfg.Output == schema.TextOut {
		return writeHistoryTable(w, records, cfg.UseColors)
	}
	return WriteHistoryRecords(w, records, cfg.Output)
}

// WriteHistoryRecords writes submissions in a machine readable format: csv, json or parquet.
func WriteHistoryRecords(w io.Writer, records []schema.SubmissionRecord, format schema.OutputMode) error {
	switch format {
	case schema.JSONOut:
		if records == nil {
			records = []schema.SubmissionRecord{}
		}
		return writeJSON(w, records)
	case schema.CSVOut:
		return writeHistoryCSV(w, records)
	case schema.ParquetOut:
		return parquet.WriteSubmissions(w, parquet.ConvertSubmissionRecords(records))
	default:
		return fmt.Errorf("%s output is not supported for history export", format)
	}
}

func writeHistoryCSV(w io.Writer, records []schema.SubmissionRecord) error {
	header := []string{"submission_id", "form", "request_key", "status", "reason", "duration_ms", "cached", "created_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			reason := ""
			if r.Reason != nil {
				reason = *r.Reason
			}
			row := []string{
				strconv.FormatInt(r.SubmissionID, 10),
				string(r.Form),
				r.RequestKey,
				r.Status,
				reason,
				strconv.FormatInt(int64(r.DurationMs), 10),
				strconv.FormatBool(r.Cached),
				r.CreatedAt.UTC().Format(time.RFC3339Nano),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeHistoryTable(w io.Writer, records []schema.SubmissionRecord, useColors bool) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		label := contract.GetPlainLabel(r.Status, r.Cached)
		if useColors {
			label = contract.GetColorLabel(r.Status, r.Cached)
		}
		reason := "-"
		if r.Reason != nil {
			reason = *r.Reason
		}
		rows[i] = []string{
			strconv.FormatInt(r.SubmissionID, 10),
			formatStatusTime(r.CreatedAt),
			string(r.Form),
			label,
			reason,
			fmt.Sprintf("%dms", r.DurationMs),
			contract.TruncateText(r.RequestKey, 12),
		}
	}
	headers := []string{"ID", "Time", "Form", "Status", "Reason", "Duration", "Key"}
	if err := renderTable(w, headers, rows, tw.AlignLeft); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d submissions shown.\n", len(records))
	return nil
}
