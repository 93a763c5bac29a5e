package aggregate

import (
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// Which selects the minimum or the maximum
type Which int

const (
	// Min selects the smallest value
	Min Which = iota
	// Max selects the largest value
	Max
)

// String returns "min" or "max"
func (w Which) String() string {
	if w == Max {
		return "max"
	}
	return "min"
}

// MarshalText renders the selector in reports
func (w Which) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Extreme is the global minimum or maximum of a column and every row that
// holds it
type Extreme struct {
	Column string   `json:"column" yaml:"column"`
	Which  Which    `json:"which" yaml:"which"`
	Value  float64  `json:"value" yaml:"value"`
	IDs    []string `json:"ids" yaml:"ids"`
}

// ExtremeRows finds the min or max of the numeric column and returns the id
// column's value for every row equal to it, in row order. Ties are all kept.
func ExtremeRows(t *models.Table, column string, which Which, id string) (*Extreme, error) {
	if t.NumRows() == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyTable, "table has no rows").
			WithDetail("column", column)
	}
	c, col, err := t.Lookup(column)
	if err != nil {
		return nil, err
	}
	if !col.Kind.IsNumeric() {
		return nil, errors.Newf(errors.ErrorTypeType, "cannot take the %s of a %s column", which, col.Kind).
			WithDetail("column", column)
	}
	i, _, err := t.Lookup(id)
	if err != nil {
		return nil, err
	}

	var best float64
	found := false
	for r := 0; r < t.NumRows(); r++ {
		f, ok := t.Cell(r, c).Float64()
		if !ok {
			continue
		}
		if !found || (which == Max && f > best) || (which == Min && f < best) {
			best = f
			found = true
		}
	}
	if !found {
		return nil, errors.Newf(errors.ErrorTypeInvalidColumn, "%s is undefined for a column with no values", which).
			WithDetail("column", column)
	}

	ext := &Extreme{Column: column, Which: which, Value: best}
	for r := 0; r < t.NumRows(); r++ {
		if f, ok := t.Cell(r, c).Float64(); ok && f == best {
			ext.IDs = append(ext.IDs, t.Cell(r, i).String())
		}
	}
	return ext, nil
}
