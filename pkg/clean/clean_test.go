package clean

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

var movieColumns = []models.Column{
	{Name: "original_title", Kind: models.KindString},
	{Name: "tagline", Kind: models.KindString},
	{Name: "revenue", Kind: models.KindFloat},
	{Name: "vote_count", Kind: models.KindInt},
	{Name: "release_date", Kind: models.KindString},
}

func movie(title, tagline string, revenue models.Value, votes models.Value, date string) []models.Value {
	tag := models.String(tagline)
	if tagline == "" {
		tag = models.Null(models.KindString)
	}
	return []models.Value{models.String(title), tag, revenue, votes, models.String(date)}
}

func sampleTable() *models.Table {
	return models.MustTable(movieColumns, [][]models.Value{
		movie("Jurassic World", "The park is open.", models.Float(1513528810), models.Int(5562), "6/9/15"),
		movie("Mad Max", "", models.Null(models.KindFloat), models.Int(6185), "5/13/15"),
		movie("Jurassic World", "The park is open.", models.Float(1513528810), models.Int(5562), "6/9/15"),
		movie("Insurgent", "", models.Float(295238201), models.Null(models.KindInt), "3/18/15"),
	})
}

func TestProject(t *testing.T) {
	in := sampleTable()

	out, err := Project(in, []string{"tagline", "release_date"})
	require.NoError(t, err)

	assert.Equal(t, []string{"original_title", "revenue", "vote_count"}, out.ColumnNames())
	require.Equal(t, in.NumRows(), out.NumRows())
	for r := 0; r < in.NumRows(); r++ {
		assert.Equal(t, in.Cell(r, 0), out.Cell(r, 0))
		assert.Equal(t, in.Cell(r, 2), out.Cell(r, 1))
		assert.Equal(t, in.Cell(r, 3), out.Cell(r, 2))
	}

	// input untouched
	assert.Equal(t, 5, in.NumCols())
}

func TestProjectUnknownColumn(t *testing.T) {
	_, err := Project(sampleTable(), []string{"tagline", "homepage"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema), "got %v", err)
}

func TestDeduplicate(t *testing.T) {
	in := sampleTable()
	assert.Equal(t, 1, CountDuplicates(in))

	once := Deduplicate(in)
	require.Equal(t, 3, once.NumRows())
	assert.Equal(t, "Jurassic World", once.Cell(0, 0).Str())
	assert.Equal(t, "Mad Max", once.Cell(1, 0).Str())
	assert.Equal(t, "Insurgent", once.Cell(2, 0).Str())

	twice := Deduplicate(once)
	assert.True(t, once.Equal(twice), "deduplication must be idempotent")
	assert.Equal(t, 0, CountDuplicates(twice))
}

func TestDeduplicateTreatsNullsAsEqual(t *testing.T) {
	in := models.MustTable(movieColumns, [][]models.Value{
		movie("A", "", models.Null(models.KindFloat), models.Int(1), "1/1/15"),
		movie("A", "", models.Null(models.KindFloat), models.Int(1), "1/1/15"),
		movie("A", "x", models.Null(models.KindFloat), models.Int(1), "1/1/15"),
	})
	assert.Equal(t, 2, Deduplicate(in).NumRows())
}

func TestImpute(t *testing.T) {
	in := Deduplicate(sampleTable())

	out, err := Impute(in)
	require.NoError(t, err)

	revenue, err := out.Values("revenue")
	require.NoError(t, err)
	wantRevenue := (1513528810.0 + 295238201.0) / 2
	assert.Equal(t, models.Float(wantRevenue), revenue[1])
	for _, v := range revenue {
		assert.False(t, v.IsNull())
	}

	// integer column with a gap becomes float and receives the mean
	col, _ := out.Column("vote_count")
	assert.Equal(t, models.KindFloat, col.Kind)
	votes, err := out.Values("vote_count")
	require.NoError(t, err)
	assert.Equal(t, []models.Value{models.Float(5562), models.Float(6185), models.Float((5562.0 + 6185.0) / 2)}, votes)

	// string columns keep their nulls
	tags, err := out.Values("tagline")
	require.NoError(t, err)
	assert.True(t, tags[1].IsNull())
}

func TestImputeUsesPreReplacementMean(t *testing.T) {
	cols := []models.Column{{Name: "x", Kind: models.KindFloat}}
	in := models.MustTable(cols, [][]models.Value{
		{models.Float(1)}, {models.Null(models.KindFloat)}, {models.Float(5)}, {models.Null(models.KindFloat)},
	})

	out, err := Impute(in)
	require.NoError(t, err)
	vals, _ := out.Values("x")
	assert.Equal(t, models.Float(3), vals[1])
	assert.Equal(t, models.Float(3), vals[3])
}

func TestImputeAllMissingColumn(t *testing.T) {
	cols := []models.Column{{Name: "budget", Kind: models.KindFloat}}
	in := models.MustTable(cols, [][]models.Value{{models.Null(models.KindFloat)}, {models.Null(models.KindFloat)}})

	_, err := Impute(in)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidColumn), "got %v", err)

	_, err = ImputeColumn(in, "budget")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidColumn), "got %v", err)
}

func TestImputeSkipsTextColumnWithoutValues(t *testing.T) {
	cols := []models.Column{{Name: "release_date", Kind: models.KindString}, {Name: "votes", Kind: models.KindFloat}}
	in := models.MustTable(cols, [][]models.Value{
		{models.Null(models.KindString), models.Float(10)},
		{models.Null(models.KindString), models.Null(models.KindFloat)},
	})

	out, err := Impute(in)
	require.NoError(t, err)
	dates, _ := out.Values("release_date")
	assert.True(t, dates[0].IsNull())
	assert.True(t, dates[1].IsNull())
	votes, _ := out.Values("votes")
	assert.Equal(t, models.Float(10), votes[1])
}

func TestImputeEmptyTable(t *testing.T) {
	in := models.MustTable(movieColumns, nil)
	out, err := Impute(in)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumRows())
}

func TestImputeColumnErrors(t *testing.T) {
	in := sampleTable()

	_, err := ImputeColumn(in, "budget")
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))

	_, err = ImputeColumn(in, "tagline")
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))

	out, err := ImputeColumn(in, "revenue")
	require.NoError(t, err)
	col, _ := out.Column("vote_count")
	assert.Equal(t, models.KindInt, col.Kind, "other columns untouched")
}

func TestNormalizeDates(t *testing.T) {
	cols := []models.Column{{Name: "release_date", Kind: models.KindString}}
	in := models.MustTable(cols, [][]models.Value{
		{models.String("6/9/15")},
		{models.String("2014-06-01")},
		{models.String("12/25/2009")},
		{models.Null(models.KindString)},
	})

	out, err := NormalizeDates(in, "release_date", DateOptions{})
	require.NoError(t, err)

	col, _ := out.Column("release_date")
	assert.Equal(t, models.KindDate, col.Kind)

	vals, _ := out.Values("release_date")
	assert.Equal(t, models.Date(time.Date(2015, 6, 9, 0, 0, 0, 0, time.UTC)), vals[0])
	assert.Equal(t, models.Date(time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC)), vals[1])
	assert.Equal(t, models.Date(time.Date(2009, 12, 25, 0, 0, 0, 0, time.UTC)), vals[2])
	assert.True(t, vals[3].IsNull())
	assert.Equal(t, models.KindDate, vals[3].Kind())
}

func TestNormalizeDatesCenturyPivot(t *testing.T) {
	cols := []models.Column{{Name: "d", Kind: models.KindString}}
	in := models.MustTable(cols, [][]models.Value{{models.String("1/1/66")}, {models.String("2066-01-01")}})

	out, err := NormalizeDates(in, "d", DateOptions{CenturyPivot: 2025})
	require.NoError(t, err)
	vals, _ := out.Values("d")
	assert.Equal(t, 1966, vals[0].Time().Year())
	assert.Equal(t, 2066, vals[1].Time().Year(), "four-digit years are never shifted")
}

func TestNormalizeDatesAllNull(t *testing.T) {
	for _, kind := range []models.Kind{models.KindString, models.KindFloat, models.KindInt} {
		t.Run(kind.String(), func(t *testing.T) {
			cols := []models.Column{{Name: "release_date", Kind: kind}}
			in := models.MustTable(cols, [][]models.Value{{models.Null(kind)}, {models.Null(kind)}})

			out, err := NormalizeDates(in, "release_date", DateOptions{})
			require.NoError(t, err)
			col, _ := out.Column("release_date")
			assert.Equal(t, models.KindDate, col.Kind)
			vals, _ := out.Values("release_date")
			for _, v := range vals {
				assert.Equal(t, models.Null(models.KindDate), v)
			}
		})
	}

	empty := models.MustTable([]models.Column{{Name: "release_date", Kind: models.KindFloat}}, nil)
	out, err := NormalizeDates(empty, "release_date", DateOptions{})
	require.NoError(t, err)
	col, _ := out.Column("release_date")
	assert.Equal(t, models.KindDate, col.Kind)
}

func TestNormalizeDatesErrors(t *testing.T) {
	in := sampleTable()

	_, err := NormalizeDates(in, "premiere", DateOptions{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))

	_, err = NormalizeDates(in, "revenue", DateOptions{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))

	_, err = NormalizeDates(in, "original_title", DateOptions{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse), "got %v", err)
}

func TestClean(t *testing.T) {
	out, err := Clean(sampleTable(), Options{
		Drop:       []string{"tagline"},
		DateColumn: "release_date",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.NumRows())
	assert.Equal(t, []string{"original_title", "revenue", "vote_count", "release_date"}, out.ColumnNames())
	for _, c := range out.Columns() {
		if !c.Kind.IsNumeric() {
			continue
		}
		vals, _ := out.Values(c.Name)
		for _, v := range vals {
			assert.False(t, v.IsNull(), c.Name)
		}
	}
	col, _ := out.Column("release_date")
	assert.Equal(t, models.KindDate, col.Kind)
}
