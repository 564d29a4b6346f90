// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// Every method writes to cfg.OutputFile, or stdout when it is empty.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteComparison prints a branch comparison using the configured output format.
func (ow *OutWriter) WriteComparison(res schema.BranchComparison, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, res, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteTrend prints a monthly trend using the configured output format.
func (ow *OutWriter) WriteTrend(res schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteTrendResults(w, res, cfg, duration)
	}, successMessage(cfg.Output))
}

// WritePareto prints a Pareto table using the configured output format.
func (ow *OutWriter) WritePareto(res schema.ParetoResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteParetoResults(w, res, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteGrowth prints a year-over-year table using the configured output format.
func (ow *OutWriter) WriteGrowth(res schema.GrowthResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteGrowthResults(w, res, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteSummary prints headline KPIs using the configured output format.
func (ow *OutWriter) WriteSummary(res schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummaryResults(w, res, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteBranches prints the branch catalog using the configured output format.
func (ow *OutWriter) WriteBranches(branches []schema.Branch, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteBranchResults(w, branches, cfg)
	}, successMessage(cfg.Output))
}

// WriteReport prints every report section using the configured output format.
func (ow *OutWriter) WriteReport(res schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteReportResults(w, res, cfg, duration)
	}, successMessage(cfg.Output))
}

func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	case schema.ParquetOut:
		return "Wrote Parquet"
	case schema.XLSXOut:
		return "Wrote workbook"
	default:
		return "Wrote table"
	}
}

// errUnsupported reports an output format a result cannot be rendered in.
func errUnsupported(mode schema.OutputMode, what string) error {
	return fmt.Errorf("output format '%s' is not supported for %s", mode, what)
}
