package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testConfig(mode schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       mode,
		Precision:    2,
		Alpha:        0.05,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func sampleComparison() schema.BranchComparison {
	tt := schema.TTestResult{TStatistic: 3.0940923067, PValue: 0.0241260807, DegreesOfFreedom: 5.4496642424}
	significant := true
	return schema.BranchComparison{
		BranchA: "NYC01",
		BranchB: "CHI01",
		Start:   "2024-01-01",
		End:     "2024-04-30",
		Months:  4,
		Means: schema.ComparisonResult{
			EntityA: "NYC01", EntityB: "CHI01",
			MeanA: schema.Float(1250), MeanB: schema.Float(1000),
			Winner: "NYC01", Base: "CHI01",
			Percent: schema.Float(25), PercentText: "25.00%",
		},
		IntervalA:   schema.ConfidenceInterval{Mean: schema.Float(1250), Lower: schema.Float(1100), Upper: schema.Float(1400), N: 4, Alpha: 0.05},
		IntervalB:   schema.ConfidenceInterval{Mean: schema.Float(1000), N: 1, Alpha: 0.05},
		TTest:       &tt,
		Significant: &significant,
		CohensD:     schema.Float(-1.2),
		Magnitude:   schema.EffectLarge,
		Rows: []schema.DenseRow{
			{EntityID: "NYC01", Year: 2024, Month: 1, Amount: 1250, PeriodLabel: "2024-01", MonthName: "January"},
			{EntityID: "CHI01", Year: 2024, Month: 1, Amount: 0, PeriodLabel: "2024-01", MonthName: "January"},
		},
	}
}

func TestWriteComparisonResultsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), testConfig(schema.TextOut), 100*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Branch comparison: NYC01 vs CHI01")
	assert.Contains(t, out, "1,250.00")
	assert.Contains(t, out, "1,400.00")
	assert.Contains(t, out, "NYC01 (+25.00% vs CHI01)")
	assert.Contains(t, out, "0.0241")
	assert.Contains(t, out, contract.SignificantValue)
	assert.Contains(t, out, "-1.20")
	assert.Contains(t, out, schema.EffectLarge)
	assert.Contains(t, out, schema.Undefined) // CHI01 interval bounds
	assert.Contains(t, out, "Cache backend: none")
}

func TestWriteComparisonResultsUndefined(t *testing.T) {
	res := schema.BranchComparison{
		BranchA: "A", BranchB: "B",
		Means:     schema.ComparisonResult{EntityA: "A", EntityB: "B", PercentText: schema.Undefined},
		Magnitude: schema.Undefined,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, res, testConfig(schema.CSVOut), 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	got := map[string]string{}
	for _, r := range records[1:] {
		got[r[0]] = r[1]
	}
	assert.Equal(t, schema.Undefined, got["winner"])
	assert.Equal(t, schema.Undefined, got["p_value"])
	assert.Equal(t, schema.Undefined, got["verdict"])
	assert.Equal(t, schema.Undefined, got["cohens_d"])
}

func TestWriteComparisonZeroBase(t *testing.T) {
	res := sampleComparison()
	res.Means.Percent = nil
	res.Means.PercentText = schema.Undefined
	pairs := comparisonStats(res, testConfig(schema.TextOut), false)
	assert.Equal(t, [2]string{"winner", "NYC01 (CHI01 has a zero mean)"}, pairs[2])
}

func TestWriteComparisonResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), testConfig(schema.JSONOut), 0))

	var decoded schema.BranchComparison
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "NYC01", decoded.Means.Winner)
	require.NotNil(t, decoded.TTest)
	assert.InDelta(t, 0.0241260807, decoded.TTest.PValue, 1e-9)
	assert.Nil(t, decoded.IntervalB.Lower)
}

func TestWriteComparisonResultsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), testConfig(schema.XLSXOut), 0))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Statistics", "Monthly"}, f.GetSheetList())
	v, err := f.GetCellValue("Statistics", "A4")
	require.NoError(t, err)
	assert.Equal(t, "winner", v)
	v, err = f.GetCellValue("Monthly", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", v)
}

func TestWriteComparisonResultsParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), testConfig(schema.ParquetOut), 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PAR1")))
}

func sampleTrend() schema.TrendResult {
	return schema.TrendResult{
		Start: "2024-01-01",
		End:   "2024-02-29",
		Rows: []schema.DenseRow{
			{EntityID: "A", Year: 2024, Month: 1, Amount: 10, PeriodLabel: "2024-01", MonthName: "January"},
			{EntityID: "A", Year: 2024, Month: 2, Amount: 0, PeriodLabel: "2024-02", MonthName: "February"},
			{EntityID: "B", Year: 2024, Month: 1, Amount: 2500.5, PeriodLabel: "2024-01", MonthName: "January"},
			{EntityID: "B", Year: 2024, Month: 2, Amount: 30, PeriodLabel: "2024-02", MonthName: "February"},
		},
		Wide: schema.WideTable{
			Entities: []string{"A", "B"},
			Periods:  []string{"2024-01", "2024-02"},
			Values:   [][]float64{{10, 2500.5}, {0, 30}},
		},
		Intervals: []schema.BranchInterval{
			{BranchID: "A", Interval: schema.ConfidenceInterval{Mean: schema.Float(5), Lower: schema.Float(-58.53), Upper: schema.Float(68.53), N: 2}},
		},
	}
}

func TestWriteTrendResults(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResults(&buf, sampleTrend(), testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "Monthly sales (2024-01-01 to 2024-02-29)")
		assert.Contains(t, out, "2,500.50")
		assert.Contains(t, out, "95% confidence intervals")
		assert.Contains(t, out, "-58.53")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResults(&buf, sampleTrend(), testConfig(schema.CSVOut), 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, []string{"branch_id", "year", "month", "period", "month_name", "amount"}, records[0])
		assert.Equal(t, []string{"A", "2024", "2", "2024-02", "February", "0.00"}, records[2])
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResults(&buf, sampleTrend(), testConfig(schema.XLSXOut), 0))
		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, []string{"Wide", "Monthly", "Intervals"}, f.GetSheetList())
		v, err := f.GetCellValue("Wide", "C1")
		require.NoError(t, err)
		assert.Equal(t, "B", v)
	})
}

func sampleParetoResult() schema.ParetoResult {
	return schema.ParetoResult{
		Dimension: schema.ProductDimension,
		Rows: []schema.ParetoRow{
			{Rank: 1, EntityID: "P1", Label: "Espresso Machine", Amount: 80, Share: 0.8, CumulativeAmount: 80, CumulativeShare: 0.8, Class: schema.ClassA},
			{Rank: 2, EntityID: "P2", Label: strings.Repeat("x", 100), Amount: 20, Share: 0.2, CumulativeAmount: 100, CumulativeShare: 1, Class: schema.ClassB},
		},
		Summary: schema.ParetoSummary{Total: 100, Entities: 2, VitalFew: 1, HHI: 0.68, Band: schema.HighlyConcentrated},
	}
}

func TestWriteParetoResults(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteParetoResults(&buf, sampleParetoResult(), testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "Espresso Machine")
		assert.Contains(t, out, "80.00%")
		assert.Contains(t, out, "100.00%")
		assert.Contains(t, out, "...")
		assert.NotContains(t, out, strings.Repeat("x", 100))
		assert.Contains(t, out, "Showing top 2 of 2 products. Total: 100.00")
		assert.Contains(t, out, "HHI: 0.6800 (highly concentrated)")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteParetoResults(&buf, sampleParetoResult(), testConfig(schema.CSVOut), 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "0.800000", records[1][4])
		assert.Equal(t, "B", records[2][7])
	})
}

func TestWriteGrowthResults(t *testing.T) {
	res := schema.GrowthResult{Rows: []schema.YoYRow{
		{Year: 2023, Amount: 1000},
		{Year: 2024, Amount: 1250, GrowthPct: schema.Float(25)},
		{Year: 2025, Amount: 1000, GrowthPct: schema.Float(-20)},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteGrowthResults(&buf, res, testConfig(schema.TextOut), 0))
	out := buf.String()
	assert.Contains(t, out, "Year-over-year growth (all branches)")
	assert.Contains(t, out, "+25.00%")
	assert.Contains(t, out, "-20.00%")
	assert.Contains(t, out, schema.Undefined)

	buf.Reset()
	require.NoError(t, WriteGrowthResults(&buf, res, testConfig(schema.CSVOut), 0))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "1000.00", ""}, records[1])
}

func sampleSummary() schema.SummaryResult {
	return schema.SummaryResult{
		Start: "2024-01-01",
		End:   "2024-12-31",
		KPIs:  schema.KPISummary{TotalSales: 1234567.891, Orders: 4321, AverageTicket: 285.71},
		Coverage: schema.DataRange{
			MinDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			MaxDate: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			Rows:    9000,
		},
	}
}

func TestWriteSummaryResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryResults(&buf, sampleSummary(), testConfig(schema.TextOut), 0))
	out := buf.String()
	assert.Contains(t, out, "1,234,567.89")
	assert.Contains(t, out, "4,321")
	assert.Contains(t, out, "2023-01-02 to 2024-12-30")

	empty := schema.SummaryResult{Start: "2024-01-01", End: "2024-01-31"}
	pairs := summaryPairs(empty, testConfig(schema.TextOut))
	assert.Contains(t, pairs, [2]string{"data_coverage", "no sales"})
	assert.Contains(t, pairs, [2]string{"branches", "all"})
}

func TestWriteBranchResults(t *testing.T) {
	branches := []schema.Branch{{ID: "NYC01", Name: "Midtown", City: "New York"}}

	var buf bytes.Buffer
	require.NoError(t, WriteBranchResults(&buf, branches, testConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "New York - Midtown")

	buf.Reset()
	require.NoError(t, WriteBranchResults(&buf, branches, testConfig(schema.JSONOut)))
	var decoded []schema.Branch
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, branches, decoded)
}

func TestWriteReportResults(t *testing.T) {
	cmp := sampleComparison()
	res := schema.ReportResult{
		Summary: sampleSummary(),
		Compare: &cmp,
		Trend:   sampleTrend(),
		Pareto:  sampleParetoResult(),
		Growth:  schema.GrowthResult{Rows: []schema.YoYRow{{Year: 2024, Amount: 10}}},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReportResults(&buf, res, testConfig(schema.TextOut), 0))
		out := buf.String()
		for _, title := range []string{"== Summary ==", "== Trend ==", "== Concentration ==", "== Growth ==", "== Comparison =="} {
			assert.Contains(t, out, title)
		}
		assert.Equal(t, 1, strings.Count(out, "Analysis completed"))
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReportResults(&buf, res, testConfig(schema.XLSXOut), 0))
		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, []string{"Summary", "Statistics", "Wide", "Monthly", "Intervals", "Pareto", "Growth"}, f.GetSheetList())
	})

	t.Run("single table formats", func(t *testing.T) {
		for _, mode := range []schema.OutputMode{schema.CSVOut, schema.ParquetOut} {
			var buf bytes.Buffer
			assert.Error(t, WriteReportResults(&buf, res, testConfig(mode), 0))
		}
	})
}

func TestOutWriterWritesFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "growth.json")

	ow := NewOutWriter()
	require.NoError(t, ow.WriteGrowth(schema.GrowthResult{Rows: []schema.YoYRow{{Year: 2024, Amount: 5}}}, cfg, 0))
	assert.FileExists(t, cfg.OutputFile)
}

func TestGetMaxLabelWidth(t *testing.T) {
	assert.Equal(t, 15, GetMaxLabelWidth(&contract.Config{Width: 60}))
	assert.Equal(t, 45, GetMaxLabelWidth(&contract.Config{Width: 120}))
	assert.Equal(t, 60, GetMaxLabelWidth(&contract.Config{Width: 400}))
}
