package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/parquet"
	"github.com/huangsam/salespulse/schema"
)

// WriteComparisonResults outputs a branch comparison, dispatching based on the output format configured.
func WriteComparisonResults(w io.Writer, res schema.BranchComparison, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, res)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
			for _, kv := range comparisonStats(res, cfg, false) {
				if err := cw.Write(kv[:]); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return parquet.WriteRows(w, parquet.ConvertDenseRows(res.Rows))
	case schema.XLSXOut:
		return writeXLSX(w, comparisonSheets(res, cfg))
	default:
		// Default to human-readable table
		if err := writeComparisonBody(w, res, cfg); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}
}

// writeComparisonBody writes the per-branch intervals followed by the test statistics.
func writeComparisonBody(w io.Writer, res schema.BranchComparison, cfg *contract.Config) error {
	_, fmtMoney := createFormatters(cfg.Precision)

	if _, err := fmt.Fprintf(w, "Branch comparison: %s vs %s (%s to %s, %d months)\n",
		res.BranchA, res.BranchB, res.Start, res.End, res.Months); err != nil {
		return err
	}

	table := newTable(w, []string{"Branch", "Mean", "CI Lower", "CI Upper", "N"})
	var data [][]string
	for _, bi := range []schema.BranchInterval{
		{BranchID: res.BranchA, Interval: res.IntervalA},
		{BranchID: res.BranchB, Interval: res.IntervalB},
	} {
		data = append(data, intervalRow(bi, fmtMoney))
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	statsTable := newTable(w, []string{"Statistic", "Value"})
	var statRows [][]string
	for _, kv := range comparisonStats(res, cfg, true) {
		statRows = append(statRows, kv[:])
	}
	return renderTable(statsTable, statRows)
}

// intervalRow renders one branch mean interval.
func intervalRow(bi schema.BranchInterval, fmtMoney func(float64) string) []string {
	ci := bi.Interval
	return []string{
		bi.BranchID,
		fmtOptional(ci.Mean, fmtMoney),
		fmtOptional(ci.Lower, fmtMoney),
		fmtOptional(ci.Upper, fmtMoney),
		strconv.Itoa(ci.N),
	}
}

// comparisonStats flattens the comparison into metric/value pairs.
// Labels are colored only when color is requested and enabled.
func comparisonStats(res schema.BranchComparison, cfg *contract.Config, color bool) [][2]string {
	fmtFloat, fmtMoney := createFormatters(cfg.Precision)
	label := func(s string) string {
		if color {
			return colorize(cfg, s)
		}
		return s
	}

	winner := schema.Undefined
	switch {
	case res.Means.Winner == "":
	case res.Means.Percent == nil:
		winner = fmt.Sprintf("%s (%s has a zero mean)", res.Means.Winner, res.Means.Base)
	default:
		winner = fmt.Sprintf("%s (+%s vs %s)", res.Means.Winner, res.Means.PercentText, res.Means.Base)
	}

	tStat, df, pValue, verdict := schema.Undefined, schema.Undefined, schema.Undefined, schema.Undefined
	if res.TTest != nil {
		tStat = fmtFloat(res.TTest.TStatistic)
		df = fmtFloat(res.TTest.DegreesOfFreedom)
		pValue = fmt.Sprintf("%.4f", res.TTest.PValue)
	}
	if res.Significant != nil {
		verdict = label(contract.GetSignificanceLabel(res.TTest.PValue, cfg.Alpha))
	}

	magnitude := res.Magnitude
	if magnitude == "" {
		magnitude = schema.Undefined
	}

	return [][2]string{
		{"mean_" + res.BranchA, fmtOptional(res.Means.MeanA, fmtMoney)},
		{"mean_" + res.BranchB, fmtOptional(res.Means.MeanB, fmtMoney)},
		{"winner", winner},
		{"difference_pct", res.Means.PercentText},
		{"t_statistic", tStat},
		{"degrees_of_freedom", df},
		{"p_value", pValue},
		{"alpha", strconv.FormatFloat(cfg.Alpha, 'g', -1, 64)},
		{"verdict", verdict},
		{"cohens_d", fmtOptional(res.CohensD, fmtFloat)},
		{"magnitude", label(magnitude)},
	}
}

// comparisonSheets lays the comparison out as a statistics sheet and the monthly grid.
func comparisonSheets(res schema.BranchComparison, cfg *contract.Config) []sheet {
	stats := sheet{name: "Statistics", header: []string{"metric", "value"}}
	for _, kv := range comparisonStats(res, cfg, false) {
		stats.rows = append(stats.rows, []any{kv[0], kv[1]})
	}
	return []sheet{stats, gridSheet("Monthly", res.Rows)}
}

// gridSheet lays dense rows out one slot per line.
func gridSheet(name string, rows []schema.DenseRow) sheet {
	s := sheet{name: name, header: []string{"branch_id", "period", "month_name", "amount"}}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.EntityID, r.PeriodLabel, r.MonthName, r.Amount})
	}
	return s
}
