package schema

// ParetoRow is one entity in a cumulative-share table.
type ParetoRow struct {
	Rank             int         `json:"rank"`
	EntityID         string      `json:"entity_id"`
	Label            string      `json:"label,omitempty"`
	Amount           float64     `json:"amount"`
	Share            float64     `json:"share"`
	CumulativeAmount float64     `json:"cumulative_amount"`
	CumulativeShare  float64     `json:"cumulative_share"`
	Class            ParetoClass `json:"class"`
}

// ParetoSummary describes how concentrated a Pareto table is.
type ParetoSummary struct {
	Total    float64 `json:"total"`
	Entities int     `json:"entities"`
	VitalFew int     `json:"vital_few"` // Rows needed to reach the class A cut-off
	HHI      float64 `json:"hhi"`       // Herfindahl-Hirschman index on shares (0-1)
	Band     string  `json:"band"`
}

// ParetoResult is a full Pareto table with its summary.
type ParetoResult struct {
	Dimension Dimension     `json:"dimension"`
	Rows      []ParetoRow   `json:"rows"`
	Summary   ParetoSummary `json:"summary"`
}

// HHI bands.
const (
	Unconcentrated         = "unconcentrated"
	ModeratelyConcentrated = "moderately concentrated"
	HighlyConcentrated     = "highly concentrated"
)

// YoYRow is one year of a growth table. GrowthPct is nil for the first year and after a zero year.
type YoYRow struct {
	Year      int      `json:"year"`
	Amount    float64  `json:"amount"`
	GrowthPct *float64 `json:"growth_pct"`
}

// GrowthResult is a year-over-year growth table.
type GrowthResult struct {
	Branches []string `json:"branches"`
	Rows     []YoYRow `json:"rows"`
}

// SummaryResult bundles KPIs with the data coverage.
type SummaryResult struct {
	Start    string     `json:"start"`
	End      string     `json:"end"`
	Branches []string   `json:"branches"`
	KPIs     KPISummary `json:"kpis"`
	Coverage DataRange  `json:"coverage"`
}

// ReportResult is the multi-section report.
type ReportResult struct {
	Summary SummaryResult     `json:"summary"`
	Compare *BranchComparison `json:"compare,omitempty"`
	Trend   TrendResult       `json:"trend"`
	Pareto  ParetoResult      `json:"pareto"`
	Growth  GrowthResult      `json:"growth"`
}
