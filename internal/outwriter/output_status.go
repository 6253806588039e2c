package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
	"github.com/olekukonko/tablewriter/tw"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintStatus writes the store status to the configured output file or stdout.
func PrintStatus(status schema.ServiceStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteStatus(w, status, cfg)
	}, "Wrote status")
}

// WriteStatus writes the cache and history status to w.
func WriteStatus(w io.Writer, status schema.ServiceStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}
	if cfg.Output != schema.TextOut {
		return fmt.Errorf("%s output is not supported for status", cfg.Output)
	}
	if err := writeCacheStatus(w, status.Cache); err != nil {
		return err
	}
	return writeHistoryStatus(w, status.History)
}

func formatStatusTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(statusTimeFormat)
}

func writeCacheStatus(w io.Writer, status schema.CacheStatus) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		rows = append(rows,
			[]string{"Total Entries", strconv.Itoa(status.TotalEntries)},
			[]string{"Last Entry", formatStatusTime(status.LastEntryTime)},
			[]string{"Oldest Entry", formatStatusTime(status.OldestEntryTime)},
			[]string{"Table Size", fmt.Sprintf("%d bytes", status.TableSizeBytes)},
		)
	}
	return renderTable(w, []string{"Cache", "Value"}, rows, tw.AlignLeft)
}

func writeHistoryStatus(w io.Writer, status schema.HistoryStatus) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		rows = append(rows,
			[]string{"Total Submissions", strconv.Itoa(status.TotalSubmissions)},
			[]string{"Failed Submissions", strconv.Itoa(status.FailedSubmissions)},
		)
		if status.TotalSubmissions > 0 {
			rows = append(rows,
				[]string{"Last Submission ID", strconv.FormatInt(status.LastSubmissionID, 10)},
				[]string{"Last Submission", formatStatusTime(status.LastSubmission)},
				[]string{"Oldest Submission", formatStatusTime(status.OldestSubmission)},
			)
		}
		forms := make([]string, 0, len(status.ByForm))
		for form := range status.ByForm {
			forms = append(forms, string(form))
		}
		sort.Strings(forms)
		for _, form := range forms {
			rows = append(rows, []string{"  " + form, strconv.Itoa(status.ByForm[schema.FormKind(form)])})
		}
	}
	return renderTable(w, []string{"History", "Value"}, rows, tw.AlignLeft)
}
