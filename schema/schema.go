// Package schema has configs, models and global variables for all parts of salespulse.
package schema

import (
	"fmt"
	"time"
)

// Observation is one pre-aggregated sales amount for an entity in a calendar month.
type Observation struct {
	EntityID string  `json:"entity_id"` // Branch or product identifier
	Year     int     `json:"year"`      // Calendar year
	Month    int     `json:"month"`     // Calendar month (1-12)
	Amount   float64 `json:"amount"`    // Summed sales amount
}

// PeriodKey identifies a calendar month. Keys are ordered by (Year, Month).
type PeriodKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Label returns the key as "YYYY-MM".
func (k PeriodKey) Label() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// Before reports whether k comes strictly before other.
func (k PeriodKey) Before(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// PeriodKeyOf returns the month that contains t.
func PeriodKeyOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: int(t.Month())}
}

// DenseRow is one slot of a gap-filled entity x month grid.
type DenseRow struct {
	EntityID    string  `json:"entity_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Amount      float64 `json:"amount"`       // Zero when the slot had no observation
	PeriodLabel string  `json:"period_label"` // "YYYY-MM"
	MonthName   string  `json:"month_name"`   // English month name
}

// Key returns the period of the row.
func (r DenseRow) Key() PeriodKey {
	return PeriodKey{Year: r.Year, Month: r.Month}
}

// WideTable is a month x entity pivot of a dense grid.
type WideTable struct {
	Entities []string    `json:"entities"` // Column order
	Periods  []string    `json:"periods"`  // Row labels, chronological
	Values   [][]float64 `json:"values"`   // Values[period][entity]
}

// EntityAmount is a total amount attributed to a product or branch.
type EntityAmount struct {
	EntityID string  `json:"entity_id"`
	Label    string  `json:"label,omitempty"`
	Amount   float64 `json:"amount"`
}

// YearAmount is the total amount for one calendar year.
type YearAmount struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// Branch is a sales location.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Label returns the display label "city - name".
func (b Branch) Label() string {
	if b.City == "" {
		return b.Name
	}
	return b.City + " - " + b.Name
}

// KPISummary holds headline figures over a date range.
type KPISummary struct {
	TotalSales    float64 `json:"total_sales"`
	Orders        int     `json:"orders"`
	AverageTicket float64 `json:"average_ticket"` // Zero when there are no orders
}

// DataRange describes the coverage of the sales table.
type DataRange struct {
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
	Rows    int       `json:"rows"`
}

// Float returns a pointer to v for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
