package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/outwriter"
	"github.com/huangsam/storecast/internal/parquet"
	"github.com/huangsam/storecast/schema"
)

// ExportHistory writes every recorded submission to outputFile in the given format.
// Parquet needs a file; csv and json fall back to stdout when outputFile is empty.
// Progress messages go to out.
func ExportHistory(store contract.HistoryStore, format schema.OutputMode, outputFile string, out io.Writer) error {
	if store == nil {
		return errors.New("history storage is not configured. Set --history-backend to enable it")
	}
	if format == schema.ParquetOut && outputFile == "" {
		return errors.New("--output-file is required for parquet export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalSubmissions == 0 {
		return errors.New("no submission history found to export")
	}
	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total submissions: %d\n", status.TotalSubmissions)

	records, err := store.ListSubmissions(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve submissions: %w", err)
	}

	if format == schema.ParquetOut {
		if err := parquet.WriteSubmissionsParquet(parquet.ConvertSubmissionRecords(records), outputFile); err != nil {
			return fmt.Errorf("failed to write submissions: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Exported %d submissions to: %s\n", len(records), outputFile)
		return nil
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}
	if err := outwriter.WriteHistoryRecords(file, records, format); err != nil {
		return fmt.Errorf("failed to write submissions: %w", err)
	}
	if file != os.Stdout {
		_, _ = fmt.Fprintf(out, "Exported %d submissions to: %s\n", len(records), outputFile)
	}
	return nil
}
