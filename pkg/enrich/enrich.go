// Package enrich derives new columns from cleaned ones.
package enrich

import (
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// AddYear returns a table with an integer column holding the calendar year of
// each row's date. A null date gives a null year. When yearColumn already
// exists it is replaced in place; otherwise it is appended.
func AddYear(t *models.Table, dateColumn, yearColumn string) (*models.Table, error) {
	d, col, err := t.Lookup(dateColumn)
	if err != nil {
		return nil, err
	}
	if col.Kind != models.KindDate {
		return nil, errors.Newf(errors.ErrorTypeType, "year needs a date column, %q is %s", dateColumn, col.Kind).
			WithDetail("column", dateColumn)
	}

	columns := t.Columns()
	y, exists := t.ColumnIndex(yearColumn)
	if exists {
		columns[y].Kind = models.KindInt
	} else {
		y = len(columns)
		columns = append(columns, models.Column{Name: yearColumn, Kind: models.KindInt})
	}

	rows := make([][]models.Value, t.NumRows())
	for r := range rows {
		row := t.Row(r)
		year := models.Null(models.KindInt)
		if date := row[d]; !date.IsNull() {
			year = models.Int(int64(date.Time().Year()))
		}
		if exists {
			row[y] = year
		} else {
			row = append(row, year)
		}
		rows[r] = row
	}

	return models.NewTable(columns, rows)
}
