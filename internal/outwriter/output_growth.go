package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/parquet"
	"github.com/huangsam/salespulse/schema"
)

// WriteGrowthResults outputs a year-over-year table, dispatching based on the output format configured.
func WriteGrowthResults(w io.Writer, res schema.GrowthResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, res)
	case schema.CSVOut:
		return writeGrowthCSV(w, res, cfg)
	case schema.ParquetOut:
		return parquet.WriteRows(w, parquet.ConvertYoYRows(res.Rows))
	case schema.XLSXOut:
		return writeXLSX(w, []sheet{growthSheet(res)})
	default:
		if err := writeGrowthTable(w, res, cfg); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}
}

func writeGrowthTable(w io.Writer, res schema.GrowthResult, cfg *contract.Config) error {
	fmtFloat, fmtMoney := createFormatters(cfg.Precision)

	scope := "all branches"
	if len(res.Branches) > 0 {
		scope = strings.Join(res.Branches, ", ")
	}
	if _, err := fmt.Fprintf(w, "Year-over-year growth (%s)\n", scope); err != nil {
		return err
	}

	table := newTable(w, []string{"Year", "Amount", "Growth"})
	data := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		growth := fmtOptional(r.GrowthPct, func(v float64) string {
			sign := ""
			if v > 0 {
				sign = "+"
			}
			return sign + fmtFloat(v) + "%"
		})
		data = append(data, []string{strconv.Itoa(r.Year), fmtMoney(r.Amount), growth})
	}
	return renderTable(table, data)
}

func writeGrowthCSV(w io.Writer, res schema.GrowthResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeCSVWithHeader(w, []string{"year", "amount", "growth_pct"}, func(cw *csv.Writer) error {
		for _, r := range res.Rows {
			growth := ""
			if r.GrowthPct != nil {
				growth = fmtFloat(*r.GrowthPct)
			}
			if err := cw.Write([]string{strconv.Itoa(r.Year), fmtFloat(r.Amount), growth}); err != nil {
				return err
			}
		}
		return nil
	})
}

func growthSheet(res schema.GrowthResult) sheet {
	s := sheet{name: "Growth", header: []string{"year", "amount", "growth_pct"}}
	for _, r := range res.Rows {
		s.rows = append(s.rows, []any{r.Year, r.Amount, optionalCell(r.GrowthPct)})
	}
	return s
}
