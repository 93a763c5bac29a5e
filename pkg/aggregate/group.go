// Package aggregate answers read-only questions about a cleaned table.
//
// Every function here is a pure function of its table argument; tables are
// immutable, so queries may run concurrently.
package aggregate

import (
	"sort"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// Counts maps a group key to its row count
type Counts map[models.Value]int

// Sums maps a group key to the sum of a numeric column
type Sums map[models.Value]float64

// Total returns the sum of all counts
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// GroupCount partitions rows by the value of column by and counts, per
// partition, the rows whose of cell is present. An empty of counts every row.
// Rows with a null key form their own partition.
//
// The counts sum to the row count only when of is empty or has no nulls. Rows
// with a null of cell are left out, though their partition is still reported.
func GroupCount(t *models.Table, by, of string) (Counts, error) {
	b, _, err := t.Lookup(by)
	if err != nil {
		return nil, err
	}
	o := -1
	if of != "" {
		if o, _, err = t.Lookup(of); err != nil {
			return nil, err
		}
	}

	counts := make(Counts)
	for r := 0; r < t.NumRows(); r++ {
		key := t.Cell(r, b)
		if o >= 0 && t.Cell(r, o).IsNull() {
			if _, ok := counts[key]; !ok {
				counts[key] = 0
			}
			continue
		}
		counts[key]++
	}
	return counts, nil
}

// GroupSum partitions rows by the value of column by and sums the numeric
// column of per partition, skipping nulls. A non-numeric of is a type error.
func GroupSum(t *models.Table, by, of string) (Sums, error) {
	b, _, err := t.Lookup(by)
	if err != nil {
		return nil, err
	}
	o, col, err := t.Lookup(of)
	if err != nil {
		return nil, err
	}
	if !col.Kind.IsNumeric() {
		return nil, errors.Newf(errors.ErrorTypeType, "cannot sum %s column", col.Kind).
			WithDetail("column", of)
	}

	sums := make(Sums)
	for r := 0; r < t.NumRows(); r++ {
		key := t.Cell(r, b)
		f, _ := t.Cell(r, o).Float64()
		sums[key] += f
	}
	return sums, nil
}

// Ranked is one group in display order
type Ranked struct {
	Key   models.Value `json:"key" yaml:"key"`
	Value float64      `json:"value" yaml:"value"`
}

// TopGroups orders groups by value descending, breaking ties by key ascending, and
// keeps the first n (all when n <= 0).
func TopGroups[N int | float64](groups map[models.Value]N, n int) []Ranked {
	ranked := make([]Ranked, 0, len(groups))
	for k, v := range groups {
		ranked = append(ranked, Ranked{Key: k, Value: float64(v)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Key.Less(ranked[j].Key)
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ByKey orders groups by key ascending
func ByKey[N int | float64](groups map[models.Value]N) []Ranked {
	ranked := make([]Ranked, 0, len(groups))
	for k, v := range groups {
		ranked = append(ranked, Ranked{Key: k, Value: float64(v)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Key.Less(ranked[j].Key)
	})
	return ranked
}
