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

// WriteParetoResults outputs a Pareto table, dispatching based on the output format configured.
func WriteParetoResults(w io.Writer, res schema.ParetoResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, res)
	case schema.CSVOut:
		return writeParetoCSV(w, res, cfg)
	case schema.ParquetOut:
		return parquet.WriteRows(w, parquet.ConvertParetoRows(res.Rows))
	case schema.XLSXOut:
		return writeXLSX(w, []sheet{paretoSheet(res)})
	default:
		if err := writeParetoTable(w, res, cfg); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}
}

// writeParetoTable writes ranked entities followed by the concentration summary.
func writeParetoTable(w io.Writer, res schema.ParetoResult, cfg *contract.Config) error {
	_, fmtMoney := createFormatters(cfg.Precision)
	maxWidth := GetMaxLabelWidth(cfg)

	table := newTable(w, []string{"Rank", "Entity", "Label", "Amount", "Share", "Cumulative", "Class"})
	data := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			r.EntityID,
			contract.TruncateLabel(r.Label, maxWidth),
			fmtMoney(r.Amount),
			fmtShare(r.Share, cfg.Precision),
			fmtShare(r.CumulativeShare, cfg.Precision),
			colorize(cfg, string(r.Class)),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	s := res.Summary
	if _, err := fmt.Fprintf(w, "Showing top %d of %d %ss. Total: %s\n", len(res.Rows), s.Entities, res.Dimension, fmtMoney(s.Total)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Vital few (to %.0f%%): %d. HHI: %.4f (%s)\n",
		schema.ClassACutoff*100, s.VitalFew, s.HHI, colorize(cfg, s.Band))
	return err
}

// fmtShare renders a 0-1 share as a percentage.
func fmtShare(v float64, precision int) string {
	return fmt.Sprintf("%.*f%%", precision, v*100)
}

func writeParetoCSV(w io.Writer, res schema.ParetoResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	header := []string{"rank", "entity_id", "label", "amount", "share", "cumulative_amount", "cumulative_share", "class"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range res.Rows {
			row := []string{
				strconv.Itoa(r.Rank),
				r.EntityID,
				r.Label,
				fmtFloat(r.Amount),
				strconv.FormatFloat(r.Share, 'f', 6, 64),
				fmtFloat(r.CumulativeAmount),
				strconv.FormatFloat(r.CumulativeShare, 'f', 6, 64),
				string(r.Class),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func paretoSheet(res schema.ParetoResult) sheet {
	s := sheet{name: "Pareto", header: []string{"rank", "entity_id", "label", "amount", "share", "cumulative_amount", "cumulative_share", "class"}}
	for _, r := range res.Rows {
		s.rows = append(s.rows, []any{r.Rank, r.EntityID, r.Label, r.Amount, r.Share, r.CumulativeAmount, r.CumulativeShare, string(r.Class)})
	}
	return s
}
