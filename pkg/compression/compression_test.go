package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cinelens/pkg/errors"
)

const sample = "id,original_title,revenue\n135397,Jurassic World,1513528810\n76341,Mad Max: Fury Road,378436354\n"

func TestRoundTrip(t *testing.T) {
	for _, a := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy, S2} {
		for _, level := range []Level{Fastest, Default, Best} {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, a, level)
			require.NoError(t, err, "%s", a)
			_, err = io.WriteString(w, strings.Repeat(sample, 50))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := NewReader(&buf, a)
			require.NoError(t, err, "%s", a)
			got, err := io.ReadAll(r)
			require.NoError(t, err, "%s", a)
			require.NoError(t, r.Close())
			assert.Equal(t, strings.Repeat(sample, 50), string(got), "%s level %d", a, level)
		}
	}
}

func TestFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"tmdb-movies.csv":      None,
		"tmdb-movies.csv.gz":   Gzip,
		"tmdb-movies.CSV.GZ":   Gzip,
		"movies.arrows.zst":    Zstd,
		"movies.lz4":           LZ4,
		"movies.csv.sz":        Snappy,
		"movies.s2":            S2,
		"/data/archive.tar.xz": None,
	}
	for path, want := range tests {
		assert.Equal(t, want, FromPath(path), path)
	}
}

func TestParse(t *testing.T) {
	a, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, a)

	a, err = Parse(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, a)

	_, err = Parse("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNewReaderCorruptGzip(t *testing.T) {
	_, err := NewReader(strings.NewReader("not gzip"), Gzip)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}
