package grid

import (
	"testing"
	"time"

	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []schema.PeriodKey
	}{
		{
			name:  "partial end month",
			start: date(2024, time.January, 1),
			end:   date(2024, time.March, 15),
			want:  []schema.PeriodKey{{Year: 2024, Month: 1}, {Year: 2024, Month: 2}, {Year: 2024, Month: 3}},
		},
		{
			name:  "same month",
			start: date(2024, time.May, 3),
			end:   date(2024, time.May, 28),
			want:  []schema.PeriodKey{{Year: 2024, Month: 5}},
		},
		{
			name:  "year rollover",
			start: date(2023, time.November, 30),
			end:   date(2024, time.February, 1),
			want:  []schema.PeriodKey{{Year: 2023, Month: 11}, {Year: 2023, Month: 12}, {Year: 2024, Month: 1}, {Year: 2024, Month: 2}},
		},
		{
			name:  "reversed",
			start: date(2024, time.March, 1),
			end:   date(2024, time.January, 1),
			want:  []schema.PeriodKey{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsBetween(tt.start, tt.end))
		})
	}
}

func TestMonthsBetweenLength(t *testing.T) {
	for y1 := 2019; y1 <= 2021; y1++ {
		for m1 := 1; m1 <= 12; m1++ {
			for span := 0; span < 30; span++ {
				start := date(y1, time.Month(m1), 10)
				end := start.AddDate(0, span, 0)
				keys := MonthsBetween(start, end)
				want := 12*(end.Year()-start.Year()) + int(end.Month()) - int(start.Month()) + 1
				require.Len(t, keys, want)
				assert.Equal(t, schema.PeriodKeyOf(start), keys[0])
				assert.Equal(t, schema.PeriodKeyOf(end), keys[len(keys)-1])
				for i := 1; i < len(keys); i++ {
					assert.True(t, keys[i-1].Before(keys[i]))
				}
			}
		}
	}
}

func TestFill(t *testing.T) {
	keys := MonthsBetween(date(2024, time.January, 1), date(2024, time.March, 31))

	t.Run("empty observations yield zero rows", func(t *testing.T) {
		rows := Fill(nil, []string{"A", "B"}, []schema.PeriodKey{{Year: 2024, Month: 1}})
		require.Len(t, rows, 2)
		assert.Equal(t, schema.DenseRow{EntityID: "A", Year: 2024, Month: 1, PeriodLabel: "2024-01", MonthName: "January"}, rows[0])
		assert.Equal(t, "B", rows[1].EntityID)
		assert.Zero(t, rows[1].Amount)
	})

	t.Run("no entities", func(t *testing.T) {
		obs := []schema.Observation{{EntityID: "A", Year: 2024, Month: 1, Amount: 10}}
		assert.Empty(t, Fill(obs, nil, keys))
	})

	t.Run("fills gaps and drops outsiders", func(t *testing.T) {
		obs := []schema.Observation{
			{EntityID: "A", Year: 2024, Month: 1, Amount: 10},
			{EntityID: "A", Year: 2024, Month: 3, Amount: 30},
			{EntityID: "B", Year: 2024, Month: 2, Amount: 5},
			{EntityID: "C", Year: 2024, Month: 2, Amount: 99}, // entity not requested
			{EntityID: "A", Year: 2023, Month: 12, Amount: 7}, // outside the window
		}
		rows := Fill(obs, []string{"A", "B"}, keys)
		require.Len(t, rows, 6)
		assert.Equal(t, []float64{10, 0, 30}, Series(rows, "A"))
		assert.Equal(t, []float64{0, 5, 0}, Series(rows, "B"))
		assert.Equal(t, "February", rows[1].MonthName)
		assert.Equal(t, "2024-03", rows[2].PeriodLabel)
	})

	t.Run("duplicate slots are summed", func(t *testing.T) {
		obs := []schema.Observation{
			{EntityID: "A", Year: 2024, Month: 2, Amount: 1.5},
			{EntityID: "A", Year: 2024, Month: 2, Amount: 2.5},
		}
		rows := Fill(obs, []string{"A"}, keys)
		assert.Equal(t, []float64{0, 4, 0}, Series(rows, "A"))
	})

	t.Run("duplicate entities collapse", func(t *testing.T) {
		rows := Fill(nil, []string{"A", "A", "B"}, keys)
		assert.Len(t, rows, 6)
	})

	t.Run("one row per slot", func(t *testing.T) {
		entities := []string{"X", "Y", "Z"}
		rows := Fill([]schema.Observation{{EntityID: "Y", Year: 2024, Month: 2, Amount: 1}}, entities, keys)
		require.Len(t, rows, len(entities)*len(keys))
		seen := map[string]bool{}
		for _, r := range rows {
			id := r.EntityID + "/" + r.PeriodLabel
			assert.False(t, seen[id], "duplicate slot %s", id)
			seen[id] = true
		}
	})
}

func TestFillIdempotent(t *testing.T) {
	keys := MonthsBetween(date(2024, time.January, 1), date(2024, time.June, 1))
	obs := []schema.Observation{
		{EntityID: "A", Year: 2024, Month: 2, Amount: 12},
		{EntityID: "B", Year: 2024, Month: 5, Amount: 8},
	}
	first := Fill(obs, []string{"A", "B"}, keys)

	again := make([]schema.Observation, 0, len(first))
	for _, r := range first {
		again = append(again, schema.Observation{EntityID: r.EntityID, Year: r.Year, Month: r.Month, Amount: r.Amount})
	}
	assert.Equal(t, first, Fill(again, []string{"A", "B"}, keys))
}

func TestFillRange(t *testing.T) {
	rows := FillRange(nil, []string{"A"}, date(2024, time.November, 1), date(2025, time.January, 31))
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-01", rows[2].PeriodLabel)
}

func TestSortChronological(t *testing.T) {
	rows := Fill(nil, []string{"B", "A"}, []schema.PeriodKey{{Year: 2024, Month: 1}, {Year: 2024, Month: 2}})
	SortChronological(rows)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.PeriodLabel + ":" + r.EntityID
	}
	assert.Equal(t, []string{"2024-01:A", "2024-01:B", "2024-02:A", "2024-02:B"}, got)
}

func TestPivot(t *testing.T) {
	obs := []schema.Observation{
		{EntityID: "A", Year: 2024, Month: 1, Amount: 1},
		{EntityID: "B", Year: 2024, Month: 2, Amount: 2},
	}
	rows := Fill(obs, []string{"A", "B"}, []schema.PeriodKey{{Year: 2024, Month: 1}, {Year: 2024, Month: 2}})
	table := Pivot(rows)

	assert.Equal(t, []string{"A", "B"}, table.Entities)
	assert.Equal(t, []string{"2024-01", "2024-02"}, table.Periods)
	assert.Equal(t, [][]float64{{1, 0}, {0, 2}}, table.Values)
}

func TestPivotEmpty(t *testing.T) {
	table := Pivot(nil)
	assert.Empty(t, table.Entities)
	assert.Empty(t, table.Periods)
}
