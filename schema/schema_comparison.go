package schema

// ConfidenceInterval is a two-sided interval around a sample mean.
// Mean is nil for an empty sample; Lower and Upper are nil when N < 2.
type ConfidenceInterval struct {
	Mean  *float64 `json:"mean"`
	Lower *float64 `json:"lower"`
	Upper *float64 `json:"upper"`
	N     int      `json:"n"`
	Alpha float64  `json:"alpha"`
}

// Defined reports whether the interval bounds exist.
func (ci ConfidenceInterval) Defined() bool {
	return ci.Lower != nil && ci.Upper != nil
}

// ComparisonResult is the outcome of comparing two sample means.
type ComparisonResult struct {
	EntityA     string   `json:"entity_a"`
	EntityB     string   `json:"entity_b"`
	MeanA       *float64 `json:"mean_a"`
	MeanB       *float64 `json:"mean_b"`
	Winner      string   `json:"winner"`       // Empty when either mean is undefined
	Base        string   `json:"base"`         // Entity with the smaller mean
	Percent     *float64 `json:"percent"`      // |meanA - meanB| / base mean * 100
	PercentText string   `json:"percent_text"` // e.g. "12.50%" or "N/A"
}

// TTestResult holds Welch's unequal-variance t-test output.
type TTestResult struct {
	TStatistic       float64 `json:"t_statistic"`
	PValue           float64 `json:"p_value"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
}

// EffectBands are the |d| thresholds separating effect size labels.
type EffectBands struct {
	Small  float64 `json:"small"`  // below: very small
	Medium float64 `json:"medium"` // below: small
	Large  float64 `json:"large"`  // below: medium, at or above: large
}

// DefaultEffectBands are the conventional Cohen thresholds.
var DefaultEffectBands = EffectBands{Small: 0.2, Medium: 0.5, Large: 0.8}

// Effect size magnitude labels.
const (
	EffectVerySmall = "very small"
	EffectSmall     = "small"
	EffectMedium    = "medium"
	EffectLarge     = "large"
	Undefined       = "N/A"
)

// BranchComparison bundles every statistic for a pairwise branch comparison.
type BranchComparison struct {
	BranchA     string             `json:"branch_a"`
	BranchB     string             `json:"branch_b"`
	Start       string             `json:"start"`
	End         string             `json:"end"`
	Months      int                `json:"months"`
	Means       ComparisonResult   `json:"means"`
	IntervalA   ConfidenceInterval `json:"interval_a"`
	IntervalB   ConfidenceInterval `json:"interval_b"`
	TTest       *TTestResult       `json:"t_test"`       // nil when undefined
	Significant *bool              `json:"significant"`  // p < alpha, nil when undefined
	CohensD     *float64           `json:"cohens_d"`     // nil when undefined
	Magnitude   string             `json:"magnitude"`    // Effect label or "N/A"
	Rows        []DenseRow         `json:"rows"`         // The filled grid used
}

// BranchInterval is the mean interval of one branch over the requested range.
type BranchInterval struct {
	BranchID string             `json:"branch_id"`
	Interval ConfidenceInterval `json:"interval"`
}

// TrendResult is the filled monthly grid for one or more branches.
type TrendResult struct {
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Rows      []DenseRow       `json:"rows"`
	Wide      WideTable        `json:"wide"`
	Intervals []BranchInterval `json:"intervals"`
}
