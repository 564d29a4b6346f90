package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/schema"
)

// WriteReportResults outputs every report section. CSV and Parquet hold a single
// table, so the report is only available as text, JSON or a workbook.
func WriteReportResults(w io.Writer, res schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, res)
	case schema.CSVOut, schema.ParquetOut:
		return errUnsupported(cfg.Output, "report (use text, json or xlsx)")
	case schema.XLSXOut:
		sheets := []sheet{summarySheet(res.Summary, cfg)}
		if res.Compare != nil {
			sheets = append(sheets, comparisonSheets(*res.Compare, cfg)[0])
		}
		sheets = append(sheets, trendSheets(res.Trend)...)
		sheets = append(sheets, paretoSheet(res.Pareto), growthSheet(res.Growth))
		return writeXLSX(w, sheets)
	default:
		return writeReportText(w, res, cfg, duration)
	}
}

type reportSection struct {
	title string
	write func() error
}

func writeReportText(w io.Writer, res schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	sections := []reportSection{
		{"Summary", func() error { return writeSummaryTable(w, res.Summary, cfg) }},
		{"Trend", func() error { return writeTrendTable(w, res.Trend, cfg) }},
		{"Concentration", func() error { return writeParetoTable(w, res.Pareto, cfg) }},
		{"Growth", func() error { return writeGrowthTable(w, res.Growth, cfg) }},
	}
	if res.Compare != nil {
		cmp := *res.Compare
		sections = append(sections, reportSection{"Comparison", func() error { return writeComparisonBody(w, cmp, cfg) }})
	}

	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "\n== %s ==\n", s.title); err != nil {
			return err
		}
		if err := s.write(); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}
