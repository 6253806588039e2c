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

// recommendFixedWidth is the room taken by every recommendation column except Name.
const recommendFixedWidth = 95

// PrintRecommendations writes recommendations to the configured output file or stdout.
func PrintRecommendations(result schema.RecommendationResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRecommendations(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s recommendations", cfg.Output))
}

// WriteRecommendations writes recommendations to w, dispatching on the configured output format.
func WriteRecommendations(w io.Writer, result schema.RecommendationResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRecommendationsCSV(w, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.TextOut:
		if err := writeRecommendationsTable(w, result, fmtFloat, terminalWidth(), duration); err != nil {
			return fmt.Errorf("error writing recommendations table output: %w", err)
		}
	default:
		return fmt.Errorf("%s output is not supported for recommendations", cfg.Output)
	}
	return nil
}

func recommendationRow(item schema.RecommendationItem, fmtFloat func(float64) string) []string {
	return []string{
		item.Manufacturer,
		item.Name,
		fmtFloat(item.Ratings),
		strconv.FormatFloat(item.NoOfRatings, 'f', -1, 64),
		fmtFloat(item.DiscountPrice),
		fmtFloat(item.ActualPrice),
	}
}

func writeRecommendationsCSV(w io.Writer, result schema.RecommendationResult, fmtFloat func(float64) string) error {
	header := []string{"manufacturer", "name", "ratings", "no_of_ratings", "discount_price", "actual_price"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, item := range result.Items {
			if err := cw.Write(recommendationRow(item, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRecommendationsTable(w io.Writer, result schema.RecommendationResult, fmtFloat func(float64) string, termWidth int, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "Recommended after purchasing %q\n", result.LastPurchase)

	nameWidth := maxTextColumnWidth(termWidth, recommendFixedWidth)
	rows := make([][]string, len(result.Items))
	for i, item := range result.Items {
		row := recommendationRow(item, fmtFloat)
		row[1] = contract.TruncateText(row[1], nameWidth)
		rows[i] = append([]string{strconv.Itoa(i + 1)}, row...)
	}
	headers := []string{"#", "Manufacturer", "Name", "Ratings", "No. of Ratings", "Discount Price", "Actual Price"}
	if err := renderTable(w, headers, rows, tw.AlignLeft); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Recommendations completed in %v with %d items.\n", duration, len(result.Items))
	return nil
}
