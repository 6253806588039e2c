package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// PrintCatalog writes the catalog to the configured output file or stdout.
func PrintCatalog(catalog schema.Catalog, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCatalog(w, catalog, cfg)
	}, "Wrote catalog")
}

// WriteCatalog writes the selectable departments, stores and customers to w.
func WriteCatalog(w io.Writer, catalog schema.Catalog, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, catalog)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"id", "name", "last_purchase"}, func(cw *csv.Writer) error {
			for _, c := range catalog.Customers {
				if err := cw.Write([]string{strconv.Itoa(c.ID), c.Name, c.LastPurchase}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.TextOut:
		joinInts := func(values []int) string {
			return strings.Join(lo.Map(values, func(v int, _ int) string { return strconv.Itoa(v) }), ", ")
		}
		_, _ = fmt.Fprintf(w, "Departments: %s\n", joinInts(catalog.Departments))
		_, _ = fmt.Fprintf(w, "Stores: %s\n", joinInts(catalog.Stores))

		width := maxTextColumnWidth(terminalWidth(), 40)
		rows := lo.Map(catalog.Customers, func(c schema.Customer, _ int) []string {
			return []string{strconv.Itoa(c.ID), c.Name, contract.TruncateText(c.LastPurchase, width)}
		})
		return renderTable(w, []string{"ID", "Customer", "Last Purchase"}, rows, tw.AlignLeft)
	default:
		return fmt.Errorf("%s output is not supported for the catalog", cfg.Output)
	}
}
