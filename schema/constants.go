package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for sales data and caching.
	DatabaseBackend string

	// Dimension represents the entity kind used by concentration analysis.
	Dimension string

	// ParetoClass is the ABC class of a row in a Pareto table.
	ParetoClass string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All dimensions supported.
const (
	ProductDimension Dimension = "product" // default
	BranchDimension  Dimension = "branch"
)

// Pareto classes.
const (
	ClassA ParetoClass = "A"
	ClassB ParetoClass = "B"
	ClassC ParetoClass = "C"
)

// Cumulative share cut-offs for the Pareto classes.
const (
	ClassACutoff = 0.80
	ClassBCutoff = 0.95
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSalesBackends lists the backends that can hold sales data.
var ValidSalesBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidDimensions lists all valid dimensions.
var ValidDimensions = map[Dimension]struct{}{
	ProductDimension: {},
	BranchDimension:  {},
}

// MonthNames maps month numbers (1-12) to English names.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name for month m, or "" when m is out of range.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return MonthNames[m-1]
}
