package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	return writeRows(csvWriter)
}

// sheet is one worksheet of an xlsx workbook.
type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// writeXLSX renders sheets into a workbook and streams it to w.
func writeXLSX(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", s.name, err)
		}

		header := make([]any, len(s.header))
		for j, h := range s.header {
			header[j] = h
		}
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", s.name, err)
		}
		for j, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", s.name, j+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// newTable returns a right-aligned table writer with the given headers.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

// renderTable writes data and renders the table.
func renderTable(table *tablewriter.Table, data [][]string) error {
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// createFormatters creates the common formatter closures used across multiple output types.
// fmtFloat is a plain fixed-point number; fmtMoney adds thousands separators.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtMoney func(float64) string) {
	numFmt := "%.*f"
	moneyFmt := "#,###." + strings.Repeat("#", precision)
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	fmtMoney = func(v float64) string {
		return humanize.FormatFloat(moneyFmt, v)
	}
	return fmtFloat, fmtMoney
}

// fmtOptional formats an undefined value as "N/A".
func fmtOptional(v *float64, format func(float64) string) string {
	if v == nil {
		return schema.Undefined
	}
	return format(*v)
}

// optionalCell returns the value for spreadsheet cells, leaving undefined values empty.
func optionalCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// colorize applies the label color when colors are enabled.
func colorize(cfg *contract.Config, label string) string {
	if !cfg.UseColors {
		return label
	}
	return contract.GetColorLabel(label)
}

// writeFooter prints the standard trailer under a table.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}
