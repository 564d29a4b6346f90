package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/parquet"
	"github.com/huangsam/salespulse/schema"
)

// WriteSummaryResults outputs headline KPIs, dispatching based on the output format configured.
func WriteSummaryResults(w io.Writer, res schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, res)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
			for _, kv := range summaryPairs(res, cfg) {
				if err := cw.Write(kv[:]); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return parquet.WriteRows(w, parquet.ConvertSummary(res))
	case schema.XLSXOut:
		return writeXLSX(w, []sheet{summarySheet(res, cfg)})
	default:
		if err := writeSummaryTable(w, res, cfg); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}
}

func writeSummaryTable(w io.Writer, res schema.SummaryResult, cfg *contract.Config) error {
	table := newTable(w, []string{"Metric", "Value"})
	var data [][]string
	for _, kv := range summaryPairs(res, cfg) {
		data = append(data, kv[:])
	}
	return renderTable(table, data)
}

// summaryPairs flattens the summary into metric/value pairs.
func summaryPairs(res schema.SummaryResult, cfg *contract.Config) [][2]string {
	_, fmtMoney := createFormatters(cfg.Precision)
	scope := "all"
	if len(res.Branches) > 0 {
		scope = strings.Join(res.Branches, ",")
	}
	coverage := "no sales"
	if res.Coverage.Rows > 0 {
		coverage = fmt.Sprintf("%s to %s", res.Coverage.MinDate.Format(contract.DayLayout), res.Coverage.MaxDate.Format(contract.DayLayout))
	}
	return [][2]string{
		{"window", res.Start + " to " + res.End},
		{"branches", scope},
		{"total_sales", fmtMoney(res.KPIs.TotalSales)},
		{"orders", humanize.Comma(int64(res.KPIs.Orders))},
		{"average_ticket", fmtMoney(res.KPIs.AverageTicket)},
		{"data_coverage", coverage},
		{"data_rows", humanize.Comma(int64(res.Coverage.Rows))},
	}
}

func summarySheet(res schema.SummaryResult, cfg *contract.Config) sheet {
	s := sheet{name: "Summary", header: []string{"metric", "value"}}
	for _, kv := range summaryPairs(res, cfg) {
		s.rows = append(s.rows, []any{kv[0], kv[1]})
	}
	return s
}

// WriteBranchResults outputs the branch catalog, dispatching based on the output format configured.
func WriteBranchResults(w io.Writer, branches []schema.Branch, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, branches)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"branch_id", "name", "city", "label"}, func(cw *csv.Writer) error {
			for _, b := range branches {
				if err := cw.Write([]string{b.ID, b.Name, b.City, b.Label()}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return parquet.WriteRows(w, parquet.ConvertBranches(branches))
	case schema.XLSXOut:
		s := sheet{name: "Branches", header: []string{"branch_id", "name", "city", "label"}}
		for _, b := range branches {
			s.rows = append(s.rows, []any{b.ID, b.Name, b.City, b.Label()})
		}
		return writeXLSX(w, []sheet{s})
	default:
		table := newTable(w, []string{"#", "Branch", "Label"})
		data := make([][]string, 0, len(branches))
		for i, b := range branches {
			data = append(data, []string{strconv.Itoa(i + 1), b.ID, b.Label()})
		}
		return renderTable(table, data)
	}
}
