package aggregate

import (
	"github.com/go-gota/gota/series"

	"github.com/ajitpratap0/cinelens/pkg/models"
)

// ColumnMissing is the null count of one column
type ColumnMissing struct {
	Column string      `json:"column" yaml:"column"`
	Kind   models.Kind `json:"kind" yaml:"kind"`
	Nulls  int         `json:"nulls" yaml:"nulls"`
}

// MissingCounts returns the number of nulls in every column, in column order
func MissingCounts(t *models.Table) []ColumnMissing {
	out := make([]ColumnMissing, t.NumCols())
	for c, col := range t.Columns() {
		out[c] = ColumnMissing{Column: col.Name, Kind: col.Kind}
		for r := 0; r < t.NumRows(); r++ {
			if t.Cell(r, c).IsNull() {
				out[c].Nulls++
			}
		}
	}
	return out
}

// ColumnSummary holds descriptive statistics of one numeric column computed
// over its present values. Statistics stay zero when Count is zero.
type ColumnSummary struct {
	Column string  `json:"column" yaml:"column"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe summarizes every numeric column
func Describe(t *models.Table) []ColumnSummary {
	var out []ColumnSummary
	for c, col := range t.Columns() {
		if !col.Kind.IsNumeric() {
			continue
		}

		vals := make([]float64, 0, t.NumRows())
		for r := 0; r < t.NumRows(); r++ {
			if f, ok := t.Cell(r, c).Float64(); ok {
				vals = append(vals, f)
			}
		}

		sum := ColumnSummary{Column: col.Name, Count: len(vals)}
		if len(vals) > 0 {
			s := series.New(vals, series.Float, col.Name)
			sum.Mean = s.Mean()
			sum.Min = s.Min()
			sum.Q1 = s.Quantile(0.25)
			sum.Median = s.Median()
			sum.Q3 = s.Quantile(0.75)
			sum.Max = s.Max()
			// sample deviation is undefined for a single value
			if len(vals) > 1 {
				sum.Std = s.StdDev()
			}
		}
		out = append(out, sum)
	}
	return out
}
