// Package concentration derives Pareto tables and year-over-year growth from sales aggregates.
package concentration

import (
	"sort"

	"github.com/huangsam/salespulse/schema"
)

// HHI band thresholds.
const (
	moderateHHI = 0.15
	highHHI     = 0.25
)

// Pareto ranks aggregates by amount, largest first, and attaches the share,
// running total and cumulative share of each row. Ties keep their input order.
// A zero total yields zero shares rather than an error.
func Pareto(aggregates []schema.EntityAmount) schema.ParetoResult {
	sorted := make([]schema.EntityAmount, len(aggregates))
	copy(sorted, aggregates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})

	var total float64
	for _, a := range sorted {
		total += a.Amount
	}

	rows := make([]schema.ParetoRow, len(sorted))
	summary := schema.ParetoSummary{Total: total, Entities: len(sorted)}
	var running, prevShare float64
	for i, a := range sorted {
		running += a.Amount
		row := schema.ParetoRow{
			Rank:             i + 1,
			EntityID:         a.EntityID,
			Label:            a.Label,
			Amount:           a.Amount,
			CumulativeAmount: running,
		}
		if total != 0 {
			row.Share = a.Amount / total
			row.CumulativeShare = running / total
			summary.HHI += row.Share * row.Share
		}
		if i == len(sorted)-1 && total > 0 {
			row.CumulativeShare = 1
		}
		row.Class = classify(prevShare, total)
		if total > 0 && prevShare < schema.ClassACutoff {
			summary.VitalFew++
		}
		prevShare = row.CumulativeShare
		rows[i] = row
	}
	summary.Band = Band(summary.HHI)

	return schema.ParetoResult{Rows: rows, Summary: summary}
}

// classify assigns the ABC class from the cumulative share reached before the row.
func classify(before, total float64) schema.ParetoClass {
	switch {
	case total <= 0:
		return schema.ClassC
	case before < schema.ClassACutoff:
		return schema.ClassA
	case before < schema.ClassBCutoff:
		return schema.ClassB
	default:
		return schema.ClassC
	}
}

// Band labels a Herfindahl-Hirschman index expressed on a 0-1 scale.
func Band(hhi float64) string {
	switch {
	case hhi < moderateHHI:
		return schema.Unconcentrated
	case hhi < highHHI:
		return schema.ModeratelyConcentrated
	default:
		return schema.HighlyConcentrated
	}
}

// Top returns the first n rows of a Pareto result. Shares keep referring to the full total.
func Top(res schema.ParetoResult, n int) schema.ParetoResult {
	if n > 0 && n < len(res.Rows) {
		res.Rows = res.Rows[:n]
	}
	return res
}

// YoYGrowth sums amounts per year, orders years ascending and computes the
// percent change from each previous year. The first year, and any year whose
// predecessor is zero, has no growth value.
func YoYGrowth(years []schema.YearAmount) []schema.YoYRow {
	totals := make(map[int]float64, len(years))
	for _, y := range years {
		totals[y.Year] += y.Amount
	}

	ordered := make([]int, 0, len(totals))
	for y := range totals {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	rows := make([]schema.YoYRow, len(ordered))
	for i, y := range ordered {
		rows[i] = schema.YoYRow{Year: y, Amount: totals[y]}
		if i == 0 {
			continue
		}
		if prev := totals[ordered[i-1]]; prev != 0 {
			rows[i].GrowthPct = schema.Float((totals[y] - prev) / prev * 100)
		}
	}
	return rows
}
