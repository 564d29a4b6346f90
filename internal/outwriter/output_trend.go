package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/parquet"
	"github.com/huangsam/salespulse/schema"
)

// WriteTrendResults outputs a monthly trend, dispatching based on the output format configured.
func WriteTrendResults(w io.Writer, res schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, res)
	case schema.CSVOut:
		return writeTrendCSV(w, res, cfg)
	case schema.ParquetOut:
		return parquet.WriteRows(w, parquet.ConvertDenseRows(res.Rows))
	case schema.XLSXOut:
		return writeXLSX(w, trendSheets(res))
	default:
		if err := writeTrendTable(w, res, cfg); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}
}

// writeTrendTable writes the wide month x branch table and the mean interval per branch.
func writeTrendTable(w io.Writer, res schema.TrendResult, cfg *contract.Config) error {
	_, fmtMoney := createFormatters(cfg.Precision)

	if _, err := fmt.Fprintf(w, "Monthly sales (%s to %s)\n", res.Start, res.End); err != nil {
		return err
	}

	table := newTable(w, append([]string{"Period"}, res.Wide.Entities...))
	data := make([][]string, 0, len(res.Wide.Periods))
	for i, period := range res.Wide.Periods {
		row := []string{period}
		for _, v := range res.Wide.Values[i] {
			row = append(row, fmtMoney(v))
		}
		data = append(data, row)
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Mean monthly sales with %.0f%% confidence intervals\n", (1-cfg.Alpha)*100); err != nil {
		return err
	}
	ciTable := newTable(w, []string{"Branch", "Mean", "CI Lower", "CI Upper", "N"})
	ciData := make([][]string, 0, len(res.Intervals))
	for _, bi := range res.Intervals {
		ciData = append(ciData, intervalRow(bi, fmtMoney))
	}
	return renderTable(ciTable, ciData)
}

// writeTrendCSV writes the long-format grid, one branch-month per row.
func writeTrendCSV(w io.Writer, res schema.TrendResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	header := []string{"branch_id", "year", "month", "period", "month_name", "amount"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range res.Rows {
			row := []string{
				r.EntityID,
				fmt.Sprintf("%d", r.Year),
				fmt.Sprintf("%d", r.Month),
				r.PeriodLabel,
				r.MonthName,
				fmtFloat(r.Amount),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// trendSheets lays the trend out as the wide table, the long grid and the intervals.
func trendSheets(res schema.TrendResult) []sheet {
	wide := sheet{name: "Wide", header: append([]string{"period"}, res.Wide.Entities...)}
	for i, period := range res.Wide.Periods {
		row := []any{period}
		for _, v := range res.Wide.Values[i] {
			row = append(row, v)
		}
		wide.rows = append(wide.rows, row)
	}

	intervals := sheet{name: "Intervals", header: []string{"branch_id", "mean", "ci_lower", "ci_upper", "n"}}
	for _, bi := range res.Intervals {
		ci := bi.Interval
		intervals.rows = append(intervals.rows, []any{bi.BranchID, optionalCell(ci.Mean), optionalCell(ci.Lower), optionalCell(ci.Upper), ci.N})
	}
	return []sheet{wide, gridSheet("Monthly", res.Rows), intervals}
}
