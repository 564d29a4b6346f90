// Package parquet provides data structures and functions for exporting salespulse
// results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/salespulse/schema"
	"github.com/parquet-go/parquet-go"
)

// MonthlySales is one slot of a filled branch x month grid.
type MonthlySales struct {
	// BranchID identifies the branch
	BranchID string `parquet:"branch_id,snappy"`

	// Period is the month as YYYY-MM
	Period string `parquet:"period,snappy"`

	Year  int32 `parquet:"year,snappy"`
	Month int32 `parquet:"month,snappy"`

	// Amount is zero for months without sales
	Amount float64 `parquet:"amount,snappy"`
}

// ParetoEntry is one ranked entity of a Pareto table.
type ParetoEntry struct {
	Rank            int32   `parquet:"rank,snappy"`
	EntityID        string  `parquet:"entity_id,snappy"`
	Label           string  `parquet:"label,snappy"`
	Amount          float64 `parquet:"amount,snappy"`
	Share           float64 `parquet:"share,snappy"`
	CumulativeShare float64 `parquet:"cumulative_share,snappy"`
	Class           string  `parquet:"class,snappy"`
}

// YearGrowth is one year of a growth table.
type YearGrowth struct {
	Year   int32   `parquet:"year,snappy"`
	Amount float64 `parquet:"amount,snappy"`

	// GrowthPct is null for the first year and after a zero year
	GrowthPct *float64 `parquet:"growth_pct,optional,snappy"`
}

// BranchRecord is one entry of the branch catalog.
type BranchRecord struct {
	BranchID string `parquet:"branch_id,snappy"`
	Name     string `parquet:"name,snappy"`
	City     string `parquet:"city,snappy"`
	Label    string `parquet:"label,snappy"`
}

// KPIRecord holds headline figures for a window.
type KPIRecord struct {
	Start         string  `parquet:"start,snappy"`
	End           string  `parquet:"end,snappy"`
	TotalSales    float64 `parquet:"total_sales,snappy"`
	Orders        int64   `parquet:"orders,snappy"`
	AverageTicket float64 `parquet:"average_ticket,snappy"`
}

// WriteRows encodes rows into w. The schema is derived from the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertDenseRows converts filled grid rows for Parquet export.
func ConvertDenseRows(rows []schema.DenseRow) []MonthlySales {
	result := make([]MonthlySales, len(rows))
	for i, r := range rows {
		result[i] = MonthlySales{
			BranchID: r.EntityID,
			Period:   r.PeriodLabel,
			Year:     int32(r.Year),
			Month:    int32(r.Month),
			Amount:   r.Amount,
		}
	}
	return result
}

// ConvertParetoRows converts Pareto rows for Parquet export.
func ConvertParetoRows(rows []schema.ParetoRow) []ParetoEntry {
	result := make([]ParetoEntry, len(rows))
	for i, r := range rows {
		result[i] = ParetoEntry{
			Rank:            int32(r.Rank),
			EntityID:        r.EntityID,
			Label:           r.Label,
			Amount:          r.Amount,
			Share:           r.Share,
			CumulativeShare: r.CumulativeShare,
			Class:           string(r.Class),
		}
	}
	return result
}

// ConvertYoYRows converts growth rows for Parquet export.
func ConvertYoYRows(rows []schema.YoYRow) []YearGrowth {
	result := make([]YearGrowth, len(rows))
	for i, r := range rows {
		result[i] = YearGrowth{Year: int32(r.Year), Amount: r.Amount, GrowthPct: r.GrowthPct}
	}
	return result
}

// ConvertBranches converts the branch catalog for Parquet export.
func ConvertBranches(branches []schema.Branch) []BranchRecord {
	result := make([]BranchRecord, len(branches))
	for i, b := range branches {
		result[i] = BranchRecord{BranchID: b.ID, Name: b.Name, City: b.City, Label: b.Label()}
	}
	return result
}

// ConvertSummary converts a KPI summary into a single-row table.
func ConvertSummary(s schema.SummaryResult) []KPIRecord {
	return []KPIRecord{{
		Start:         s.Start,
		End:           s.End,
		TotalSales:    s.KPIs.TotalSales,
		Orders:        int64(s.KPIs.Orders),
		AverageTicket: s.KPIs.AverageTicket,
	}}
}
