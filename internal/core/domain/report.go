package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPI summarizes a (possibly filtered) record set.
type KPI struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalUnits   int64           `json:"total_units"`
}

// TimePoint is one point of the daily revenue series.
type TimePoint struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductRevenue ranks one product by total revenue.
type ProductRevenue struct {
	Product string          `json:"product"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueMatrix is the region×product pivot of summed revenue.
// Rows follow Regions, columns follow Products; cells with no sales are zero.
type RevenueMatrix struct {
	Regions  []string            `json:"regions"`
	Products []string            `json:"products"`
	Cells    [][]decimal.Decimal `json:"cells"`
}

// MonthPoint aggregates one calendar month.
type MonthPoint struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Units   int64           `json:"units"`
}

// CorrelationMatrix holds pairwise Pearson coefficients for the numeric
// columns of the table, rounded to two decimals. The matrix is symmetric and
// Values[i][j] corresponds to Columns[i] vs Columns[j].
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
