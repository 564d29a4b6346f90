package dbconn

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "sqlite", false},
		{schema.MySQLBackend, "mysql", false},
		{schema.PostgreSQLBackend, "pgx", false},
		{schema.NoneBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			got, err := DriverName(tt.backend)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(schema.SQLiteBackend, "", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
	assert.FileExists(t, path)
}

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"cache", "_results", "sales_2024"}
	invalid := []string{"", "1table", "drop table;", "a-b", "name with space"}

	for _, name := range valid {
		assert.NoError(t, ValidateIdentifier(name), name)
	}
	for _, name := range invalid {
		assert.Error(t, ValidateIdentifier(name), name)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`sales`", QuoteIdentifier("sales", schema.MySQLBackend))
	assert.Equal(t, `"sales"`, QuoteIdentifier("sales", schema.PostgreSQLBackend))
	assert.Equal(t, `"sales"`, QuoteIdentifier("sales", schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", Placeholders(schema.MySQLBackend, 1, 3))
	assert.Equal(t, "$3, $4", Placeholders(schema.PostgreSQLBackend, 3, 2))
	assert.Equal(t, "", Placeholders(schema.SQLiteBackend, 1, 0))
	assert.Equal(t, "$2::date", DateParam(schema.PostgreSQLBackend, 2))
	assert.Equal(t, "?", DateParam(schema.SQLiteBackend, 2))
}

func TestDateExpressions(t *testing.T) {
	assert.Equal(t, "YEAR(s.sold_at)", YearExpr(schema.MySQLBackend, "s.sold_at"))
	assert.Equal(t, "CAST(EXTRACT(MONTH FROM s.sold_at) AS INTEGER)", MonthExpr(schema.PostgreSQLBackend, "s.sold_at"))
	assert.Equal(t, "CAST(strftime('%m', s.sold_at) AS INTEGER)", MonthExpr(schema.SQLiteBackend, "s.sold_at"))
	assert.Equal(t, "CAST(strftime('%Y', s.sold_at) AS INTEGER)", YearExpr(schema.SQLiteBackend, "s.sold_at"))
}
