package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/config"
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/json"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

func day(y int, m time.Month, d int) models.Value {
	return models.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func cleanedMovies(t *testing.T) *models.Table {
	t.Helper()
	cols := []models.Column{
		{Name: "original_title", Kind: models.KindString},
		{Name: "popularity", Kind: models.KindFloat},
		{Name: "revenue", Kind: models.KindFloat},
		{Name: "runtime", Kind: models.KindFloat},
		{Name: "vote_count", Kind: models.KindInt},
		{Name: "release_date", Kind: models.KindDate},
		{Name: "release_year", Kind: models.KindInt},
	}
	tbl, err := models.NewTable(cols, [][]models.Value{
		{models.String("A"), models.Float(1), models.Float(100), models.Float(90), models.Int(10), day(2013, 3, 1), models.Int(2013)},
		{models.String("B"), models.Float(2), models.Float(200), models.Float(120), models.Int(7), day(2014, 6, 1), models.Int(2014)},
		{models.String("C"), models.Float(3), models.Float(200), models.Float(90), models.Int(5), day(2013, 9, 27), models.Int(2013)},
	})
	require.NoError(t, err)
	return tbl
}

func testOptions() Options {
	cfg := config.NewDefaultConfig()
	return OptionsFromConfig(cfg, zap.NewNop())
}

func TestBuild(t *testing.T) {
	r, err := Build(context.Background(), cleanedMovies(t), testOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, r.Rows)

	require.NotNil(t, r.PopularityRevenue.Pearson)
	assert.Equal(t, 3, r.PopularityRevenue.Pairs)
	assert.Greater(t, *r.PopularityRevenue.Pearson, 0.0)

	assert.Equal(t, models.Int(2013), r.MoviesPerYear.Top.Key)
	assert.Equal(t, 2.0, r.MoviesPerYear.Top.Value)

	assert.Equal(t, []aggregate.Ranked{
		{Key: models.Int(2013), Value: 15},
		{Key: models.Int(2014), Value: 7},
	}, r.VotesPerYear.Groups)

	require.NotNil(t, r.VoteCountPopularity.Pearson)
	assert.Less(t, *r.VoteCountPopularity.Pearson, 0.0)

	assert.Equal(t, []string{"B", "C"}, r.Revenue.Highest.IDs)
	assert.Equal(t, []string{"A"}, r.Revenue.Lowest.IDs)
	assert.Equal(t, []string{"B"}, r.Runtime.Highest.IDs)
	assert.Equal(t, []string{"A", "C"}, r.Runtime.Lowest.IDs)

	assert.Equal(t, models.Int(2013), r.RevenuePerYear.Top.Key)
	assert.Equal(t, 300.0, r.RevenuePerYear.Top.Value)
}

func TestBuildUndefinedCorrelation(t *testing.T) {
	cols := []models.Column{
		{Name: "original_title", Kind: models.KindString},
		{Name: "popularity", Kind: models.KindFloat},
		{Name: "revenue", Kind: models.KindFloat},
		{Name: "runtime", Kind: models.KindFloat},
		{Name: "vote_count", Kind: models.KindInt},
		{Name: "release_year", Kind: models.KindInt},
	}
	tbl := models.MustTable(cols, [][]models.Value{
		{models.String("Z"), models.Float(1), models.Float(0), models.Float(0), models.Int(1), models.Int(2015)},
	})

	r, err := Build(context.Background(), tbl, testOptions())
	require.NoError(t, err)
	assert.Nil(t, r.PopularityRevenue.Pearson)
	assert.NotEmpty(t, r.PopularityRevenue.Note)
	assert.Equal(t, "undefined", r.PopularityRevenue.Strength())
	assert.Equal(t, []string{"Z"}, r.Runtime.Lowest.IDs)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(context.Background(), models.MustTable(cleanedMovies(t).Columns(), nil), testOptions())
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyTable))

	opts := testOptions()
	opts.RevenueColumn = "original_title"
	_, err = Build(context.Background(), cleanedMovies(t), opts)
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))

	opts = testOptions()
	opts.YearColumn = "premiere_year"
	_, err = Build(context.Background(), cleanedMovies(t), opts)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestStrength(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.9, "strong"},
		{-0.75, "strong"},
		{0.5, "moderate"},
		{0.25, "weak"},
		{0.05, "negligible"},
	}
	for _, tt := range tests {
		r := tt.r
		c := Correlation{Pearson: &r}
		assert.Equal(t, tt.want, c.Strength(), "r=%v", tt.r)
	}
}

func TestWriteText(t *testing.T) {
	r, err := Build(context.Background(), cleanedMovies(t), testOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, config.FormatText, 1))

	out := buf.String()
	assert.Contains(t, out, "cinelens report (3 movies)")
	assert.Contains(t, out, "Q1. Does popularity affect revenue?")
	assert.Contains(t, out, "2013: 2 movies")
	assert.Contains(t, out, "2013: 15 votes")
	assert.Contains(t, out, "... 1 more")
	assert.Contains(t, out, "B, C")
	assert.Contains(t, out, strings.Repeat("#", barWidth))
}

func TestWriteJSON(t *testing.T) {
	r, err := Build(context.Background(), cleanedMovies(t), testOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, config.FormatJSON, 0))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3.0, decoded["rows"])

	votes := decoded["votes_per_year"].(map[string]interface{})
	top := votes["top"].(map[string]interface{})
	assert.Equal(t, "2013", top["key"])
	assert.NotContains(t, buf.String(), "x_values", "paired values stay out of reports")
}

func TestWriteYAML(t *testing.T) {
	r, err := Build(context.Background(), cleanedMovies(t), testOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, config.FormatYAML, 0))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	revenue := decoded["revenue"].(map[string]interface{})
	highest := revenue["highest"].(map[string]interface{})
	assert.Equal(t, "max", highest["which"])
	assert.Equal(t, []interface{}{"B", "C"}, highest["ids"])
}

func TestWriteProfile(t *testing.T) {
	tbl := cleanedMovies(t)
	p := &Profile{
		Dataset:    "movies.csv",
		RawRows:    4,
		RawCols:    8,
		Rows:       tbl.NumRows(),
		Cols:       tbl.NumCols(),
		Duplicates: 1,
		Missing:    aggregate.MissingCounts(tbl),
		Summary:    aggregate.Describe(tbl),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p, config.FormatText, 0))
	assert.Contains(t, buf.String(), "duplicates removed")
	assert.Contains(t, buf.String(), "vote_count")

	buf.Reset()
	require.NoError(t, Write(&buf, p, config.FormatJSON, 0))
	assert.Contains(t, buf.String(), `"raw_rows": 4`)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, &Report{}, "xml", 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	err = Write(&bytes.Buffer{}, struct{}{}, config.FormatText, 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10))
	assert.Equal(t, "", bar(5, 0))
	assert.Equal(t, strings.Repeat("#", barWidth), bar(10, 10))
	assert.Equal(t, "#", bar(0.001, 10))
}

func TestWriteIPC(t *testing.T) {
	tbl := cleanedMovies(t)

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, tbl))

	rdr, err := ipc.NewReader(&buf, ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer rdr.Release()

	require.True(t, rdr.Next())
	rec := rdr.Record()
	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(tbl.NumCols()), rec.NumCols())

	titles := rec.Column(0).(*array.String)
	assert.Equal(t, "B", titles.Value(1))

	years := rec.Column(6).(*array.Int64)
	assert.Equal(t, int64(2014), years.Value(1))

	dates := rec.Column(5).(*array.Date32)
	assert.Equal(t, arrow.Date32FromTime(time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC)), dates.Value(1))

	assert.False(t, rdr.Next())
}

func TestToRecordNulls(t *testing.T) {
	cols := []models.Column{
		{Name: "original_title", Kind: models.KindString},
		{Name: "revenue", Kind: models.KindFloat},
	}
	tbl := models.MustTable(cols, [][]models.Value{
		{models.String("A"), models.Null(models.KindFloat)},
		{models.Null(models.KindString), models.Float(2)},
	})

	rec := ToRecord(tbl, nil)
	defer rec.Release()

	assert.True(t, rec.Column(1).IsNull(0))
	assert.True(t, rec.Column(0).IsNull(1))
	assert.Equal(t, 2.0, rec.Column(1).(*array.Float64).Value(1))
}
