package service

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

// The aggregations below are pure functions of their input slice. The service
// wrapper layers loading and caching on top; correctness never depends on the
// cache.

// FilterRecords applies region/product exact-match filters and an inclusive
// date range. Zero filter fields match everything.
func FilterRecords(records []domain.SalesRecord, f ports.ReportFilter) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if f.Region != "" && r.Region != f.Region {
			continue
		}
		if f.Product != "" && r.Product != f.Product {
			continue
		}
		if !f.From.IsZero() && r.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Date.After(f.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize computes the headline KPIs over the given records.
func Summarize(records []domain.SalesRecord) domain.KPI {
	kpi := domain.KPI{TotalRevenue: decimal.Zero}
	for _, r := range records {
		kpi.TotalRevenue = kpi.TotalRevenue.Add(r.Revenue)
		kpi.TotalUnits += r.UnitsSold
	}
	return kpi
}

// TimeSeries groups revenue by calendar date, ascending.
func TimeSeries(records []domain.SalesRecord) []domain.TimePoint {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, r := range records {
		day := truncateToDay(r.Date)
		byDay[day] = byDay[day].Add(r.Revenue)
	}

	points := make([]domain.TimePoint, 0, len(byDay))
	for day, rev := range byDay {
		points = append(points, domain.TimePoint{Date: day, Revenue: rev})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// TopProducts ranks products by summed revenue, highest first. Revenue ties
// break by product name ascending so the order is deterministic regardless of
// store iteration order.
func TopProducts(records []domain.SalesRecord) []domain.ProductRevenue {
	byProduct := make(map[string]decimal.Decimal)
	for _, r := range records {
		byProduct[r.Product] = byProduct[r.Product].Add(r.Revenue)
	}

	ranked := make([]domain.ProductRevenue, 0, len(byProduct))
	for p, rev := range byProduct {
		ranked = append(ranked, domain.ProductRevenue{Product: p, Revenue: rev})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Revenue.Equal(ranked[j].Revenue) {
			return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
		}
		return ranked[i].Product < ranked[j].Product
	})
	return ranked
}

// RegionProductMatrix pivots revenue over region×product. Axes are sorted
// ascending and cells with no sales hold zero, so the sum over all cells
// equals Summarize().TotalRevenue.
func RegionProductMatrix(records []domain.SalesRecord) domain.RevenueMatrix {
	type cellKey struct{ region, product string }

	sums := make(map[cellKey]decimal.Decimal)
	regionSet := make(map[string]struct{})
	productSet := make(map[string]struct{})
	for _, r := range records {
		sums[cellKey{r.Region, r.Product}] = sums[cellKey{r.Region, r.Product}].Add(r.Revenue)
		regionSet[r.Region] = struct{}{}
		productSet[r.Product] = struct{}{}
	}

	m := domain.RevenueMatrix{
		Regions:  sortedKeys(regionSet),
		Products: sortedKeys(productSet),
	}
	m.Cells = make([][]decimal.Decimal, len(m.Regions))
	for i, region := range m.Regions {
		m.Cells[i] = make([]decimal.Decimal, len(m.Products))
		for j, product := range m.Products {
			m.Cells[i][j] = sums[cellKey{region, product}] // zero when absent
		}
	}
	return m
}

// MonthlyTrend groups revenue and units by calendar month, ascending.
func MonthlyTrend(records []domain.SalesRecord) []domain.MonthPoint {
	type monthAgg struct {
		revenue decimal.Decimal
		units   int64
	}

	byMonth := make(map[string]monthAgg)
	for _, r := range records {
		key := r.Date.Format("2006-01")
		agg := byMonth[key]
		agg.revenue = agg.revenue.Add(r.Revenue)
		agg.units += r.UnitsSold
		byMonth[key] = agg
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]domain.MonthPoint, 0, len(months))
	for _, m := range months {
		points = append(points, domain.MonthPoint{
			Month:   m,
			Revenue: byMonth[m].revenue,
			Units:   byMonth[m].units,
		})
	}
	return points
}

// CorrelationMatrix computes pairwise Pearson coefficients over the numeric
// columns (units_sold, revenue, and any extra column that is numeric in every
// row), rounded to two decimals. A column with zero variance correlates as 0
// with everything except itself.
func CorrelationMatrix(records []domain.SalesRecord) domain.CorrelationMatrix {
	cols, vectors := numericColumns(records)

	cm := domain.CorrelationMatrix{Columns: cols}
	cm.Values = make([][]float64, len(cols))
	for i := range cols {
		cm.Values[i] = make([]float64, len(cols))
		for j := range cols {
			if i == j {
				cm.Values[i][j] = 1
				continue
			}
			cm.Values[i][j] = round2(pearson(vectors[i], vectors[j]))
		}
	}
	return cm
}

func numericColumns(records []domain.SalesRecord) ([]string, [][]float64) {
	if len(records) == 0 {
		return nil, nil
	}

	cols := []string{domain.ColUnitsSold, domain.ColRevenue}
	vectors := [][]float64{make([]float64, len(records)), make([]float64, len(records))}
	for i, r := range records {
		vectors[0][i] = float64(r.UnitsSold)
		vectors[1][i], _ = r.Revenue.Float64()
	}

	// Candidate extras come from the first record; a candidate survives only
	// if every row carries it with a numeric value.
	for _, extra := range records[0].Extra {
		vec := make([]float64, len(records))
		ok := true
		for i, r := range records {
			raw, present := r.Extra.Get(extra.Name)
			if !present {
				ok = false
				break
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				ok = false
				break
			}
			vec[i] = v
		}
		if ok {
			cols = append(cols, extra.Name)
			vectors = append(vectors, vec)
		}
	}
	return cols, vectors
}

func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
