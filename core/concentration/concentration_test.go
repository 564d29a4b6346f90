package concentration

import (
	"testing"

	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPareto(t *testing.T) {
	t.Run("two products", func(t *testing.T) {
		res := Pareto([]schema.EntityAmount{{EntityID: "P2", Amount: 40}, {EntityID: "P1", Amount: 60}})
		require.Len(t, res.Rows, 2)

		assert.Equal(t, "P1", res.Rows[0].EntityID)
		assert.Equal(t, 60.0, res.Rows[0].CumulativeAmount)
		assert.InDelta(t, 0.6, res.Rows[0].CumulativeShare, 1e-9)
		assert.Equal(t, 1, res.Rows[0].Rank)

		assert.Equal(t, "P2", res.Rows[1].EntityID)
		assert.Equal(t, 100.0, res.Rows[1].CumulativeAmount)
		assert.Equal(t, 1.0, res.Rows[1].CumulativeShare)

		assert.Equal(t, 100.0, res.Summary.Total)
		assert.InDelta(t, 0.52, res.Summary.HHI, 1e-9)
		assert.Equal(t, schema.HighlyConcentrated, res.Summary.Band)
		assert.Equal(t, 2, res.Summary.VitalFew)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		res := Pareto([]schema.EntityAmount{
			{EntityID: "X", Amount: 10},
			{EntityID: "Y", Amount: 20},
			{EntityID: "Z", Amount: 10},
		})
		ids := []string{res.Rows[0].EntityID, res.Rows[1].EntityID, res.Rows[2].EntityID}
		assert.Equal(t, []string{"Y", "X", "Z"}, ids)
	})

	t.Run("cumulative share is monotone and ends at one", func(t *testing.T) {
		in := []schema.EntityAmount{
			{EntityID: "a", Amount: 0.1}, {EntityID: "b", Amount: 0.2}, {EntityID: "c", Amount: 0.3},
			{EntityID: "d", Amount: 7}, {EntityID: "e", Amount: 1e-9}, {EntityID: "f", Amount: 3.3},
		}
		res := Pareto(in)
		for i := 1; i < len(res.Rows); i++ {
			assert.GreaterOrEqual(t, res.Rows[i].CumulativeShare, res.Rows[i-1].CumulativeShare)
			assert.GreaterOrEqual(t, res.Rows[i-1].Amount, res.Rows[i].Amount)
		}
		assert.Equal(t, 1.0, res.Rows[len(res.Rows)-1].CumulativeShare)
	})

	t.Run("abc classes", func(t *testing.T) {
		res := Pareto([]schema.EntityAmount{
			{EntityID: "a", Amount: 70}, {EntityID: "b", Amount: 15},
			{EntityID: "c", Amount: 10}, {EntityID: "d", Amount: 5},
		})
		classes := make([]schema.ParetoClass, len(res.Rows))
		for i, r := range res.Rows {
			classes[i] = r.Class
		}
		assert.Equal(t, []schema.ParetoClass{schema.ClassA, schema.ClassA, schema.ClassB, schema.ClassC}, classes)
		assert.Equal(t, 2, res.Summary.VitalFew)
	})

	t.Run("zero total", func(t *testing.T) {
		res := Pareto([]schema.EntityAmount{{EntityID: "a"}, {EntityID: "b"}})
		require.Len(t, res.Rows, 2)
		for _, r := range res.Rows {
			assert.Zero(t, r.Share)
			assert.Zero(t, r.CumulativeShare)
		}
		assert.Zero(t, res.Summary.VitalFew)
	})

	t.Run("empty", func(t *testing.T) {
		res := Pareto(nil)
		assert.Empty(t, res.Rows)
		assert.Zero(t, res.Summary.Total)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []schema.EntityAmount{{EntityID: "a", Amount: 1}, {EntityID: "b", Amount: 2}}
		Pareto(in)
		assert.Equal(t, "a", in[0].EntityID)
	})
}

func TestBand(t *testing.T) {
	assert.Equal(t, schema.Unconcentrated, Band(0.1))
	assert.Equal(t, schema.ModeratelyConcentrated, Band(0.15))
	assert.Equal(t, schema.ModeratelyConcentrated, Band(0.2))
	assert.Equal(t, schema.HighlyConcentrated, Band(0.25))
}

func TestTop(t *testing.T) {
	res := Pareto([]schema.EntityAmount{{EntityID: "a", Amount: 3}, {EntityID: "b", Amount: 2}, {EntityID: "c", Amount: 1}})
	top := Top(res, 2)
	require.Len(t, top.Rows, 2)
	assert.Equal(t, 6.0, top.Summary.Total)
	assert.Len(t, Top(res, 0).Rows, 3)
	assert.Len(t, Top(res, 10).Rows, 3)
}

func TestYoYGrowth(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		rows := YoYGrowth([]schema.YearAmount{{Year: 2024, Amount: 150}, {Year: 2023, Amount: 100}})
		require.Len(t, rows, 2)
		assert.Equal(t, 2023, rows[0].Year)
		assert.Nil(t, rows[0].GrowthPct)
		require.NotNil(t, rows[1].GrowthPct)
		assert.InDelta(t, 50.0, *rows[1].GrowthPct, 1e-9)
	})

	t.Run("zero prior year", func(t *testing.T) {
		rows := YoYGrowth([]schema.YearAmount{{Year: 2021, Amount: 0}, {Year: 2022, Amount: 10}, {Year: 2023, Amount: 5}})
		assert.Nil(t, rows[1].GrowthPct)
		require.NotNil(t, rows[2].GrowthPct)
		assert.InDelta(t, -50.0, *rows[2].GrowthPct, 1e-9)
	})

	t.Run("duplicate years are summed", func(t *testing.T) {
		rows := YoYGrowth([]schema.YearAmount{{Year: 2023, Amount: 40}, {Year: 2023, Amount: 60}, {Year: 2024, Amount: 50}})
		require.Len(t, rows, 2)
		assert.Equal(t, 100.0, rows[0].Amount)
		assert.InDelta(t, -50.0, *rows[1].GrowthPct, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, YoYGrowth(nil))
	})
}
