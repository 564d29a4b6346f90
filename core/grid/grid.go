// Package grid turns sparse monthly aggregates into dense, gap-filled tables.
package grid

import (
	"sort"
	"time"

	"github.com/huangsam/salespulse/schema"
)

// MonthsBetween returns every calendar month from start to end, both inclusive.
// Only the year and month of each date matter. When start falls in a later
// month than end the result is empty; callers validate ranges before this point.
func MonthsBetween(start, end time.Time) []schema.PeriodKey {
	first := schema.PeriodKeyOf(start)
	last := schema.PeriodKeyOf(end)
	if last.Before(first) {
		return []schema.PeriodKey{}
	}

	count := 12*(last.Year-first.Year) + (last.Month - first.Month) + 1
	keys := make([]schema.PeriodKey, 0, count)
	y, m := first.Year, first.Month
	for range count {
		keys = append(keys, schema.PeriodKey{Year: y, Month: m})
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return keys
}

// slot indexes an observation by entity and month.
type slot struct {
	entity string
	key    schema.PeriodKey
}

// Fill builds one row per (entity, month) in entities x keys. Amounts of
// observations sharing a slot are summed, empty slots are zero and
// observations outside the grid are dropped. Rows come out entity-major in
// the order entities and keys were given, with duplicate entities collapsed.
func Fill(observations []schema.Observation, entities []string, keys []schema.PeriodKey) []schema.DenseRow {
	entities = uniqueEntities(entities)
	if len(entities) == 0 || len(keys) == 0 {
		return []schema.DenseRow{}
	}

	sums := make(map[slot]float64, len(observations))
	for _, o := range observations {
		sums[slot{entity: o.EntityID, key: schema.PeriodKey{Year: o.Year, Month: o.Month}}] += o.Amount
	}

	rows := make([]schema.DenseRow, 0, len(entities)*len(keys))
	for _, e := range entities {
		for _, k := range keys {
			rows = append(rows, schema.DenseRow{
				EntityID:    e,
				Year:        k.Year,
				Month:       k.Month,
				Amount:      sums[slot{entity: e, key: k}],
				PeriodLabel: k.Label(),
				MonthName:   schema.MonthName(k.Month),
			})
		}
	}
	return rows
}

// FillRange is Fill over MonthsBetween(start, end).
func FillRange(observations []schema.Observation, entities []string, start, end time.Time) []schema.DenseRow {
	return Fill(observations, entities, MonthsBetween(start, end))
}

// SortChronological orders rows by (year, month, entity) in place.
func SortChronological(rows []schema.DenseRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := rows[i].Key(), rows[j].Key()
		if ki != kj {
			return ki.Before(kj)
		}
		return rows[i].EntityID < rows[j].EntityID
	})
}

// Series returns the amounts of one entity in the order the rows appear.
func Series(rows []schema.DenseRow, entity string) []float64 {
	var out []float64
	for _, r := range rows {
		if r.EntityID == entity {
			out = append(out, r.Amount)
		}
	}
	return out
}

// Pivot turns a dense grid into a month x entity table. Columns keep the
// first-seen entity order and periods are chronological.
func Pivot(rows []schema.DenseRow) schema.WideTable {
	var entities []string
	col := map[string]int{}
	keys := map[schema.PeriodKey]struct{}{}
	for _, r := range rows {
		if _, ok := col[r.EntityID]; !ok {
			col[r.EntityID] = len(entities)
			entities = append(entities, r.EntityID)
		}
		keys[r.Key()] = struct{}{}
	}

	ordered := make([]schema.PeriodKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	rowIdx := make(map[schema.PeriodKey]int, len(ordered))
	table := schema.WideTable{
		Entities: entities,
		Periods:  make([]string, len(ordered)),
		Values:   make([][]float64, len(ordered)),
	}
	for i, k := range ordered {
		rowIdx[k] = i
		table.Periods[i] = k.Label()
		table.Values[i] = make([]float64, len(entities))
	}
	for _, r := range rows {
		table.Values[rowIdx[r.Key()]][col[r.EntityID]] += r.Amount
	}
	return table
}

func uniqueEntities(entities []string) []string {
	seen := make(map[string]struct{}, len(entities))
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
