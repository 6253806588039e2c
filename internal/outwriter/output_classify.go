package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintClassification writes the classification to the configured output file or stdout.
func PrintClassification(result schema.ClassificationResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteClassification(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s classification", cfg.Output))
}

// WriteClassification writes the classification to w, dispatching on the configured output format.
func WriteClassification(w io.Writer, result schema.ClassificationResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		header := []string{"file_name", "content_type", "size_bytes", "width", "height", "classification"}
		err := writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			return cw.Write([]string{
				result.FileName,
				result.ContentType,
				strconv.FormatInt(result.SizeBytes, 10),
				strconv.Itoa(result.Width),
				strconv.Itoa(result.Height),
				result.Label,
			})
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.TextOut:
		rows := [][]string{
			{"File", result.FileName},
			{"Type", result.ContentType},
			{"Size", fmt.Sprintf("%d bytes", result.SizeBytes)},
			{"Dimensions", fmt.Sprintf("%dx%d", result.Width, result.Height)},
			{"Classification", result.Label},
		}
		if err := renderTable(w, []string{"Field", "Value"}, rows, tw.AlignLeft); err != nil {
			return fmt.Errorf("error writing classification table output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Classification completed in %v.\n", duration)
	default:
		return fmt.Errorf("%s output is not supported for classification", cfg.Output)
	}
	return nil
}
