package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectra"
	"github.com/cwbudde/algo-spectra/internal/testutil"
)

func TestDefaultCapabilities(t *testing.T) {
	caps := NewRegistry().Capabilities()
	require.Len(t, caps, 5)

	want := []Capability{
		{Format: JCAMP, Extensions: []string{".jdx", ".jcamp", ".dx"}, Available: true},
		{Format: HDF5, Extensions: []string{".h5", ".hdf5"}, Available: true},
		{Format: NetCDF, Extensions: []string{".nc"}, Available: true},
		{Format: Delimited, Extensions: []string{".csv", ".tsv", ".txt"}, Available: true},
		{Format: Spreadsheet, Extensions: []string{".xlsx", ".xls"}, Available: true},
	}
	assert.Equal(t, want, caps)
	assert.Equal(t, want, Capabilities())
}

func TestLookup(t *testing.T) {
	r := NewRegistry()

	c, ok := r.Lookup("TSV")
	require.True(t, ok)
	assert.Equal(t, Delimited, c.Format)

	c, ok = r.Lookup(".JDX")
	require.True(t, ok)
	assert.Equal(t, JCAMP, c.Format)

	_, ok = r.Lookup(".xyz")
	assert.False(t, ok)
}

func TestUnsupportedExtension(t *testing.T) {
	path := testutil.WriteFile(t, "spectrum.xyz", "1,2\n")

	s, err := Load(path)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, spectra.IsUnsupported(err))

	var e *spectra.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, path, e.Path)
	assert.Contains(t, err.Error(), `".xyz"`)

	_, err = Load(testutil.WriteFile(t, "README", "x"))
	assert.True(t, spectra.IsUnsupported(err))
	assert.Contains(t, err.Error(), "no extension")
}

func TestDisabledFormat(t *testing.T) {
	r := NewRegistry(WithDisabled("turned off in configuration", NetCDF, "bogus"))

	c, ok := r.Lookup(".nc")
	require.True(t, ok)
	assert.False(t, c.Available)
	assert.Equal(t, "turned off in configuration", c.Reason)

	_, err := r.Load(testutil.WriteFile(t, "data.nc", "CDF"))
	require.Error(t, err)
	assert.True(t, spectra.IsUnsupported(err))
	assert.Contains(t, err.Error(), "netcdf: unsupported format: loader unavailable: turned off in configuration")

	other, ok := r.Lookup(".csv")
	require.True(t, ok)
	assert.True(t, other.Available)
}

func TestWithLoaderOverridesExtension(t *testing.T) {
	fake := LoaderFunc(func(path string) (*spectra.Spectrum, error) {
		return spectra.New(nil, []float64{1, 2, 3}, spectra.Metadata{"from": path})
	})
	r := NewRegistry(WithLoader("custom", fake, ".txt"))

	c, ok := r.Lookup(".txt")
	require.True(t, ok)
	assert.Equal(t, "custom", c.Format)

	delimited, ok := r.Lookup(".csv")
	require.True(t, ok)
	assert.Equal(t, []string{".csv", ".tsv"}, delimited.Extensions)

	s, err := r.Load("anything.TXT")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestLoaderErrorsAreClassified(t *testing.T) {
	failing := LoaderFunc(func(string) (*spectra.Spectrum, error) {
		return nil, errors.New("boom")
	})
	empty := LoaderFunc(func(string) (*spectra.Spectrum, error) {
		return nil, nil
	})
	r := NewRegistry(WithLoader("failing", failing, ".bad"), WithLoader("empty", empty, ".nil"))

	_, err := r.Load("x.bad")
	require.Error(t, err)
	assert.True(t, spectra.IsParseFailure(err))
	assert.Equal(t, "failing: parse failure: boom", err.Error())

	var e *spectra.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "x.bad", e.Path)

	_, err = r.Load("x.nil")
	assert.True(t, spectra.IsEmpty(err))
}

func TestMissingFileIsParseFailure(t *testing.T) {
	_, err := Load(t.TempDir() + "/missing.csv")
	require.Error(t, err)
	assert.True(t, spectra.IsParseFailure(err))
}
