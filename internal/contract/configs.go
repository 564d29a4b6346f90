package contract

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/salespulse/schema"
)

// Default values for configuration.
const (
	DefaultLookbackMonths = 12
	DefaultResultLimit    = 10
	MaxResultLimit        = 1000
	DefaultPrecision      = 2
	MaxPrecision          = 4
	DefaultAlpha          = 0.05
	DefaultCacheTTL       = 10 * time.Minute
	DefaultAddr           = ":8080"
	DefaultEffectBands    = "0.2,0.5,0.8"
)

// Accepted layouts for the start and end dates.
const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
)

// DateFormat is the date representation used in output headers.
var DateFormat = DayLayout

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	StartTime   time.Time // First day of the start month
	EndTime     time.Time // Last day of the end month
	Branches    []string
	Alpha       float64
	EffectBands schema.EffectBands
	Dimension   schema.Dimension
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	SalesBackend   schema.DatabaseBackend
	SalesDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	Addr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Start          string  `mapstructure:"start"`
	End            string  `mapstructure:"end"`
	Branches       string  `mapstructure:"branches"`
	Alpha          float64 `mapstructure:"alpha"`
	EffectBands    string  `mapstructure:"effect-bands"`
	Dimension      string  `mapstructure:"dimension"`
	Limit          int     `mapstructure:"limit"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	SalesBackend   string  `mapstructure:"sales-backend"`
	SalesDBConnect string  `mapstructure:"sales-db-connect"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	CacheTTL       string  `mapstructure:"cache-ttl"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Branches != nil {
		clone.Branches = slices.Clone(c.Branches)
	}
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processStatistics(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateSalesBackend checks the sales backend and its connection string.
func ValidateSalesBackend(backend schema.DatabaseBackend, connStr string) error {
	if _, ok := schema.ValidSalesBackends[backend]; !ok {
		return fmt.Errorf("invalid sales backend '%s'. must be sqlite, mysql, postgresql", backend)
	}
	return ValidateDatabaseConnectionString(backend, connStr)
}

// validateBackendConfigs validates sales and cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Sales Backend Validation ---
	cfg.SalesBackend = schema.DatabaseBackend(strings.ToLower(input.SalesBackend))
	cfg.SalesDBConnect = input.SalesDBConnect
	if err := ValidateSalesBackend(cfg.SalesBackend, cfg.SalesDBConnect); err != nil {
		return err
	}

	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	if cfg.CacheBackend == schema.SQLiteBackend && cfg.SalesBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		salesPath := cfg.SalesDBConnect
		if salesPath == "" {
			salesPath = GetSalesDBFilePath()
		}
		if cachePath == salesPath {
			return fmt.Errorf("cache and sales storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// validateSimpleInputs handles all simple validations and copies.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = strings.TrimSpace(input.OutputFile)
	cfg.Width = input.Width
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Dimension Validation ---
	cfg.Dimension = schema.Dimension(strings.ToLower(input.Dimension))
	if _, ok := schema.ValidDimensions[cfg.Dimension]; !ok {
		return fmt.Errorf("invalid dimension '%s'. must be product, branch", input.Dimension)
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", cfg.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("output format '%s' requires --output-file", cfg.Output)
	}

	// --- 4. Branches Processing ---
	cfg.Branches = ParseBranches(input.Branches)

	return nil
}

// processTimeRange resolves the month-aligned date window. The start snaps to
// the first day of its month and the end to the last day of its month.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	endMonth := FirstOfMonth(now)
	startMonth := endMonth.AddDate(0, -(DefaultLookbackMonths - 1), 0)

	if input.Start != "" {
		t, err := ParseMonthDate(input.Start)
		if err != nil {
			return fmt.Errorf("invalid start date format for '%s'. Expected YYYY-MM or YYYY-MM-DD: %v", input.Start, err)
		}
		startMonth = FirstOfMonth(t)
	}
	if input.End != "" {
		t, err := ParseMonthDate(input.End)
		if err != nil {
			return fmt.Errorf("invalid end date format for '%s'. Expected YYYY-MM or YYYY-MM-DD: %v", input.End, err)
		}
		endMonth = FirstOfMonth(t)
	}

	cfg.StartTime = startMonth
	cfg.EndTime = LastOfMonth(endMonth)
	return ValidateRange(cfg.StartTime, cfg.EndTime)
}

// processStatistics parses alpha and the effect size bands.
func processStatistics(cfg *Config, input *ConfigRawInput) error {
	if !(input.Alpha > 0 && input.Alpha < 1) {
		return fmt.Errorf("alpha must be strictly between 0 and 1 (received %v)", input.Alpha)
	}
	cfg.Alpha = input.Alpha

	bandsStr := input.EffectBands
	if strings.TrimSpace(bandsStr) == "" {
		bandsStr = DefaultEffectBands
	}
	bands, err := ParseEffectBands(bandsStr)
	if err != nil {
		return fmt.Errorf("invalid effect-bands: %w", err)
	}
	cfg.EffectBands = bands
	return nil
}

// ValidateRange rejects windows whose start comes after their end.
func ValidateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: start (%s) cannot be after end (%s)", ErrInvalidRange, start.Format(DateFormat), end.Format(DateFormat))
	}
	return nil
}

// ParseMonthDate parses YYYY-MM or YYYY-MM-DD in UTC.
func ParseMonthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(MonthLayout, s)
}

// FirstOfMonth returns midnight UTC on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// LastOfMonth returns midnight UTC on the last day of t's month.
func LastOfMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, -1)
}

// ParseBranches splits a comma-separated branch list, trimming blanks and duplicates.
func ParseBranches(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ParseEffectBands parses "small,medium,large" thresholds, e.g. "0.2,0.5,0.8".
func ParseEffectBands(s string) (schema.EffectBands, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return schema.EffectBands{}, fmt.Errorf("expected 3 comma-separated thresholds, got %d", len(parts))
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return schema.EffectBands{}, fmt.Errorf("invalid threshold '%s': %w", p, err)
		}
		if v <= 0 {
			return schema.EffectBands{}, fmt.Errorf("thresholds must be positive (received %v)", v)
		}
		vals[i] = v
	}
	if vals[0] >= vals[1] || vals[1] >= vals[2] {
		return schema.EffectBands{}, fmt.Errorf("thresholds must be strictly increasing (received %s)", s)
	}
	return schema.EffectBands{Small: vals[0], Medium: vals[1], Large: vals[2]}, nil
}

// RequireBranchPair returns the two branches of a pairwise comparison.
func RequireBranchPair(branches []string) (string, string, error) {
	if len(branches) != 2 {
		return "", "", fmt.Errorf("%w: expected 2, got %d", ErrBranchCount, len(branches))
	}
	return branches[0], branches[1], nil
}

// Overrides holds per-request adjustments applied on top of a base config.
// Zero values keep the base setting.
type Overrides struct {
	Start     string
	End       string
	Branches  string
	Dimension string
	Limit     int
	Alpha     float64
}

// WithOverrides returns a validated copy of c with the non-zero overrides applied.
func (c *Config) WithOverrides(o Overrides) (*Config, error) {
	out := c.Clone()
	if o.Start != "" {
		t, err := ParseMonthDate(o.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start '%s'", ErrInvalidInput, o.Start)
		}
		out.StartTime = FirstOfMonth(t)
	}
	if o.End != "" {
		t, err := ParseMonthDate(o.End)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end '%s'", ErrInvalidInput, o.End)
		}
		out.EndTime = LastOfMonth(t)
	}
	if err := ValidateRange(out.StartTime, out.EndTime); err != nil {
		return nil, err
	}
	if o.Branches != "" {
		out.Branches = ParseBranches(o.Branches)
	}
	if o.Dimension != "" {
		dim := schema.Dimension(strings.ToLower(o.Dimension))
		if _, ok := schema.ValidDimensions[dim]; !ok {
			return nil, fmt.Errorf("%w: invalid dimension '%s'", ErrInvalidInput, o.Dimension)
		}
		out.Dimension = dim
	}
	if o.Limit != 0 {
		if o.Limit < 0 || o.Limit > MaxResultLimit {
			return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxResultLimit)
		}
		out.ResultLimit = o.Limit
	}
	if o.Alpha != 0 {
		if o.Alpha < 0 || o.Alpha >= 1 {
			return nil, fmt.Errorf("%w: alpha must be strictly between 0 and 1", ErrInvalidInput)
		}
		out.Alpha = o.Alpha
	}
	return out, nil
}
