// Package clean brings a freshly loaded table to an analysis-ready state.
//
// Each step is a pure function from one models.Table to a new one. Clean runs
// them in the fixed order projection, deduplication, imputation, date
// normalization.
package clean

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// Options configures the full cleaning pass
type Options struct {
	// Drop lists the columns removed before anything else
	Drop []string
	// DateColumn is parsed into dates; empty skips date normalization
	DateColumn string
	// Dates controls how DateColumn is parsed
	Dates DateOptions
}

// Clean applies projection, deduplication, imputation and date normalization
func Clean(t *models.Table, opts Options) (*models.Table, error) {
	out, err := Project(t, opts.Drop)
	if err != nil {
		return nil, err
	}

	out = Deduplicate(out)

	out, err = Impute(out)
	if err != nil {
		return nil, err
	}

	if opts.DateColumn == "" {
		return out, nil
	}
	return NormalizeDates(out, opts.DateColumn, opts.Dates)
}

// Project returns a table without the named columns. Row values and order are
// preserved for every remaining column. Naming a column that does not exist is
// a schema error.
func Project(t *models.Table, drop []string) (*models.Table, error) {
	dropped := make(map[int]bool, len(drop))
	for _, name := range drop {
		i, _, err := t.Lookup(name)
		if err != nil {
			return nil, err
		}
		dropped[i] = true
	}

	keep := make([]int, 0, t.NumCols()-len(dropped))
	columns := make([]models.Column, 0, t.NumCols()-len(dropped))
	for i, c := range t.Columns() {
		if !dropped[i] {
			keep = append(keep, i)
			columns = append(columns, c)
		}
	}

	rows := make([][]models.Value, t.NumRows())
	for r := range rows {
		row := make([]models.Value, len(keep))
		for j, c := range keep {
			row[j] = t.Cell(r, c)
		}
		rows[r] = row
	}

	return models.NewTable(columns, rows)
}

// Deduplicate drops every row equal to an earlier row, keeping the first
// occurrence and the original order of retained rows. Nulls compare equal to
// nulls of the same column.
func Deduplicate(t *models.Table) *models.Table {
	seen := make(map[string]struct{}, t.NumRows())
	rows := make([][]models.Value, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		key := rowKey(t, r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, t.Row(r))
	}
	return models.MustTable(t.Columns(), rows)
}

// CountDuplicates returns how many rows Deduplicate would drop
func CountDuplicates(t *models.Table) int {
	seen := make(map[string]struct{}, t.NumRows())
	dups := 0
	for r := 0; r < t.NumRows(); r++ {
		key := rowKey(t, r)
		if _, dup := seen[key]; dup {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// rowKey encodes a full row so equal rows produce equal keys
func rowKey(t *models.Table, r int) string {
	var b strings.Builder
	var buf [8]byte
	for c := 0; c < t.NumCols(); c++ {
		v := t.Cell(r, c)
		if v.IsNull() {
			b.WriteByte(0)
			continue
		}
		b.WriteByte(1)
		switch v.Kind() {
		case models.KindInt:
			binary.LittleEndian.PutUint64(buf[:], uint64(v.Int64()))
			b.Write(buf[:])
		case models.KindFloat:
			f, _ := v.Float64()
			if f == 0 {
				f = 0 // fold -0 into +0
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
			b.Write(buf[:])
		case models.KindDate:
			binary.LittleEndian.PutUint64(buf[:], uint64(v.Time().Unix()))
			b.Write(buf[:])
		default:
			binary.LittleEndian.PutUint64(buf[:], uint64(len(v.Str())))
			b.Write(buf[:])
			b.WriteString(v.Str())
		}
	}
	return b.String()
}

// Impute replaces missing cells of every numeric column with that column's
// mean over its non-missing cells. All means are computed before any cell is
// replaced. Integer columns that receive a mean become float columns.
// Non-numeric columns are returned unchanged.
//
// A numeric column with missing cells and no present cell has no mean and
// yields an invalid column error.
func Impute(t *models.Table) (*models.Table, error) {
	columns := t.Columns()
	fill := make(map[int]float64)

	for c, col := range columns {
		if !col.Kind.IsNumeric() {
			continue
		}
		mean, nulls, err := columnMean(t, c)
		if err != nil {
			return nil, err
		}
		if nulls > 0 {
			fill[c] = mean
		}
	}

	return applyFill(t, fill)
}

// ImputeColumn imputes a single numeric column the way Impute does
func ImputeColumn(t *models.Table, name string) (*models.Table, error) {
	c, col, err := t.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !col.Kind.IsNumeric() {
		return nil, errors.Newf(errors.ErrorTypeType, "cannot impute %s column", col.Kind).
			WithDetail("column", name)
	}

	mean, nulls, err := columnMean(t, c)
	if err != nil {
		return nil, err
	}
	if nulls == 0 {
		return t, nil
	}
	return applyFill(t, map[int]float64{c: mean})
}

func columnMean(t *models.Table, c int) (mean float64, nulls int, err error) {
	var sum float64
	present := 0
	for r := 0; r < t.NumRows(); r++ {
		f, ok := t.Cell(r, c).Float64()
		if !ok {
			nulls++
			continue
		}
		sum += f
		present++
	}

	if present == 0 && nulls > 0 {
		name := t.Columns()[c].Name
		return 0, nulls, errors.New(errors.ErrorTypeInvalidColumn, "mean is undefined for a column with no values").
			WithDetail("column", name)
	}
	if present == 0 {
		return 0, 0, nil
	}
	return sum / float64(present), nulls, nil
}

func applyFill(t *models.Table, fill map[int]float64) (*models.Table, error) {
	if len(fill) == 0 {
		return t, nil
	}

	columns := t.Columns()
	for c := range fill {
		columns[c].Kind = models.KindFloat
	}

	rows := make([][]models.Value, t.NumRows())
	for r := range rows {
		row := t.Row(r)
		for c, mean := range fill {
			if row[c].IsNull() {
				row[c] = models.Float(mean)
				continue
			}
			f, _ := row[c].Float64()
			row[c] = models.Float(f)
		}
		rows[r] = row
	}

	return models.NewTable(columns, rows)
}
