package clean

import (
	"strings"
	"time"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// DefaultDateLayouts covers the TMDB export (M/D/YY) and common ISO forms
var DefaultDateLayouts = []string{
	"1/2/06",
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
	time.RFC3339,
}

// DateOptions controls date parsing
type DateOptions struct {
	// Layouts are tried in order; nil selects DefaultDateLayouts
	Layouts []string
	// CenturyPivot, when positive, moves a two-digit-year date that parsed
	// later than this year back by a century ("1/1/66" -> 1966 with pivot 2025)
	CenturyPivot int
}

// NormalizeDates converts the named string column into a date column.
//
// Nulls stay null. A column holding only nulls converts whatever its kind. Any
// present value that no layout accepts fails the whole operation with a parse
// error.
func NormalizeDates(t *models.Table, column string, opts DateOptions) (*models.Table, error) {
	c, col, err := t.Lookup(column)
	if err != nil {
		return nil, err
	}
	if col.Kind == models.KindDate {
		return t, nil
	}
	if col.Kind != models.KindString && !allNull(t, c) {
		return nil, errors.Newf(errors.ErrorTypeType, "cannot parse dates from a %s column", col.Kind).
			WithDetail("column", column)
	}

	layouts := opts.Layouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	columns := t.Columns()
	columns[c].Kind = models.KindDate

	rows := make([][]models.Value, t.NumRows())
	for r := range rows {
		row := t.Row(r)
		if row[c].IsNull() {
			row[c] = models.Null(models.KindDate)
			rows[r] = row
			continue
		}

		d, err := parseDate(strings.TrimSpace(row[c].Str()), layouts, opts.CenturyPivot)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "unparseable date").
				WithDetail("column", column).
				WithDetail("row", r).
				WithDetail("value", row[c].Str())
		}
		row[c] = models.Date(d)
		rows[r] = row
	}

	return models.NewTable(columns, rows)
}

func allNull(t *models.Table, c int) bool {
	for r := 0; r < t.NumRows(); r++ {
		if !t.Cell(r, c).IsNull() {
			return false
		}
	}
	return true
}

func parseDate(s string, layouts []string, pivot int) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		d, err := time.Parse(layout, s)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if pivot > 0 && hasTwoDigitYear(layout) && d.Year() > pivot {
			d = d.AddDate(-100, 0, 0)
		}
		return d, nil
	}
	return time.Time{}, firstErr
}

func hasTwoDigitYear(layout string) bool {
	return strings.Contains(layout, "06") && !strings.Contains(layout, "2006")
}
