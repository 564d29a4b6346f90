package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/salespulse/schema"
)

// Significance label constants.
const (
	SignificantValue    = "Significant"
	NotSignificantValue = "Not significant"
)

// Color variables for console output.
var (
	StrongColor   = color.New(color.FgRed, color.Bold)     // StrongColor marks large effects and class A rows.
	NotableColor  = color.New(color.FgMagenta, color.Bold) // NotableColor marks medium effects and significant results.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor marks small effects and class B rows.
	LowColor      = color.New(color.FgCyan)                // LowColor is the informational / low-priority signal.
)

// GetSignificanceLabel returns the plain label for a p-value at level alpha.
func GetSignificanceLabel(p, alpha float64) string {
	if p < alpha {
		return SignificantValue
	}
	return NotSignificantValue
}

// GetColorLabel returns a colored text label for console output (table).
// Unknown labels are returned unchanged.
func GetColorLabel(text string) string {
	switch text {
	case schema.EffectLarge, string(schema.ClassA), schema.HighlyConcentrated:
		return StrongColor.Sprint(text)
	case schema.EffectMedium, SignificantValue, schema.ModeratelyConcentrated:
		return NotableColor.Sprint(text)
	case schema.EffectSmall, string(schema.ClassB):
		return ModerateColor.Sprint(text)
	case schema.EffectVerySmall, string(schema.ClassC), NotSignificantValue, schema.Unconcentrated:
		return LowColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".salespulse_cache.db"
	}
	return filepath.Join(homeDir, ".salespulse_cache.db")
}

// GetSalesDBFilePath returns the path to the SQLite DB file for sales data.
func GetSalesDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".salespulse_sales.db"
	}
	return filepath.Join(homeDir, ".salespulse_sales.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
