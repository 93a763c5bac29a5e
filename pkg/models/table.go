package models

import (
	"github.com/ajitpratap0/cinelens/pkg/errors"
)

// Column describes one named, homogeneously typed column
type Column struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Table is an immutable ordered collection of rows over a fixed set of columns.
// Transformations never modify a Table; they build a new one.
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a table, checking that column names are unique, every row has
// one cell per column, and every cell matches its column kind. The inputs are
// copied.
func NewTable(columns []Column, rows [][]Value) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]Value, len(rows)),
	}
	copy(t.columns, columns)

	for i, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.New(errors.ErrorTypeSchema, "duplicate column name").
				WithDetail("column", c.Name)
		}
		t.index[c.Name] = i
	}

	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Newf(errors.ErrorTypeSchema, "row %d has %d cells, want %d", r, len(row), len(columns))
		}
		for c, v := range row {
			if v.Kind() != columns[c].Kind {
				return nil, errors.Newf(errors.ErrorTypeType, "row %d column %q holds a %s value, want %s",
					r, columns[c].Name, v.Kind(), columns[c].Kind)
			}
		}
		t.rows[r] = append([]Value(nil), row...)
	}

	return t, nil
}

// MustTable is NewTable for statically known inputs; it panics on error
func MustTable(columns []Column, rows [][]Value) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the column count
func (t *Table) NumCols() int { return len(t.columns) }

// Columns returns a copy of the column list
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Lookup returns the position and descriptor of a column, or a schema error
func (t *Table) Lookup(name string) (int, Column, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, Column{}, errors.New(errors.ErrorTypeSchema, "column does not exist").
			WithDetail("column", name)
	}
	return i, t.columns[i], nil
}

// Row returns a copy of row i
func (t *Table) Row(i int) []Value {
	return append([]Value(nil), t.rows[i]...)
}

// Cell returns the value at row i, column c
func (t *Table) Cell(i, c int) Value {
	return t.rows[i][c]
}

// Values returns a copy of one column's cells
func (t *Table) Values(name string) ([]Value, error) {
	c, _, err := t.Lookup(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, nil
}

// Equal reports whether two tables have the same columns and rows in the same order
func (t *Table) Equal(o *Table) bool {
	if t.NumCols() != o.NumCols() || t.NumRows() != o.NumRows() {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for r := range t.rows {
		for c := range t.rows[r] {
			if t.rows[r][c] != o.rows[r][c] {
				return false
			}
		}
	}
	return true
}
