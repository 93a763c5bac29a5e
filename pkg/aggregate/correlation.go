package aggregate

import (
	"math"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// Series is a pair of aligned numeric columns, ready for a scatter plot
type Series struct {
	X     string    `json:"x" yaml:"x"`
	Y     string    `json:"y" yaml:"y"`
	XVals []float64 `json:"x_values" yaml:"x_values"`
	YVals []float64 `json:"y_values" yaml:"y_values"`
}

// Len returns the number of pairs
func (s *Series) Len() int { return len(s.XVals) }

// Paired returns the (x, y) values of every row where both cells are present
func Paired(t *models.Table, x, y string) (*Series, error) {
	xi, err := numericColumn(t, x)
	if err != nil {
		return nil, err
	}
	yi, err := numericColumn(t, y)
	if err != nil {
		return nil, err
	}

	s := &Series{
		X:     x,
		Y:     y,
		XVals: make([]float64, 0, t.NumRows()),
		YVals: make([]float64, 0, t.NumRows()),
	}
	for r := 0; r < t.NumRows(); r++ {
		xv, okx := t.Cell(r, xi).Float64()
		yv, oky := t.Cell(r, yi).Float64()
		if !okx || !oky {
			continue
		}
		s.XVals = append(s.XVals, xv)
		s.YVals = append(s.YVals, yv)
	}
	return s, nil
}

// Pearson returns Pearson's correlation coefficient of the series. It needs at
// least two pairs and non-zero variance on both sides.
func Pearson(s *Series) (float64, error) {
	n := s.Len()
	if n < 2 {
		return 0, errors.Newf(errors.ErrorTypeInvalidColumn, "correlation needs at least 2 pairs, have %d", n).
			WithDetail("x", s.X).
			WithDetail("y", s.Y)
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += s.XVals[i]
		my += s.YVals[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := s.XVals[i] - mx
		dy := s.YVals[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, errors.New(errors.ErrorTypeInvalidColumn, "correlation is undefined for a constant column").
			WithDetail("x", s.X).
			WithDetail("y", s.Y)
	}

	r := sxy / math.Sqrt(sxx*syy)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r)), nil
}

func numericColumn(t *models.Table, name string) (int, error) {
	i, col, err := t.Lookup(name)
	if err != nil {
		return 0, err
	}
	if !col.Kind.IsNumeric() {
		return 0, errors.Newf(errors.ErrorTypeType, "%q is a %s column, want numeric", name, col.Kind).
			WithDetail("column", name)
	}
	return i, nil
}
