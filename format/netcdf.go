package format

import (
	"errors"
	"fmt"
	"slices"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"

	"github.com/cwbudde/algo-spectra"
)

// source is the read-only view of a NetCDF or HDF5 file the loaders need.
type source interface {
	variables() []string
	values(name string) (any, error)
	attributes() spectra.Metadata
	close()
}

// groupSource adapts the root group of an opened file.
type groupSource struct {
	g api.Group
}

func (s groupSource) variables() []string { return s.g.ListVariables() }

func (s groupSource) values(name string) (any, error) {
	v, err := s.g.GetVariable(name)
	if err != nil {
		return nil, err
	}
	return v.Values, nil
}

func (s groupSource) attributes() spectra.Metadata {
	md := spectra.Metadata{}
	attrs := s.g.Attributes()
	if attrs == nil {
		return md
	}
	for _, k := range attrs.Keys() {
		if v, ok := attrs.Get(k); ok {
			md[k] = attributeValue(v)
		}
	}
	return md
}

func (s groupSource) close() { s.g.Close() }

func openNetCDF(path string) (source, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	return groupSource{g: g}, nil
}

func openHDF5(path string) (source, error) {
	g, err := hdf5.Open(path)
	if err != nil {
		return nil, err
	}
	return groupSource{g: g}, nil
}

func loadNetCDF(path string) (*spectra.Spectrum, error) {
	src, err := openNetCDF(path)
	if err != nil {
		return nil, spectra.Wrap(spectra.ParseFailure, NetCDF, err)
	}
	defer src.close()
	return netCDFSpectrum(src)
}

func loadHDF5(path string) (*spectra.Spectrum, error) {
	src, err := openHDF5(path)
	if err != nil {
		return nil, spectra.Wrap(spectra.ParseFailure, HDF5, err)
	}
	defer src.close()
	return hdf5Spectrum(src)
}

// netCDFSpectrum requires variables x and y. Global attributes become the
// metadata.
func netCDFSpectrum(src source) (*spectra.Spectrum, error) {
	names := src.variables()
	if !slices.Contains(names, "x") || !slices.Contains(names, "y") {
		return nil, spectra.Errorf(spectra.EmptyResult, NetCDF, "variables x and y not found (have %v)", names)
	}

	x, err := floatVariable(src, NetCDF, "x")
	if err != nil {
		return nil, err
	}
	y, err := floatVariable(src, NetCDF, "y")
	if err != nil {
		return nil, err
	}
	return newSpectrum(NetCDF, x, y, src.attributes())
}

// hdf5Spectrum prefers datasets x and y, then a single dataset data over
// the implicit index. Root attributes become the metadata.
func hdf5Spectrum(src source) (*spectra.Spectrum, error) {
	names := src.variables()

	var x, y []float64
	var err error
	switch {
	case slices.Contains(names, "x") && slices.Contains(names, "y"):
		if x, err = floatVariable(src, HDF5, "x"); err != nil {
			return nil, err
		}
		if y, err = floatVariable(src, HDF5, "y"); err != nil {
			return nil, err
		}
	case slices.Contains(names, "data"):
		if y, err = floatVariable(src, HDF5, "data"); err != nil {
			return nil, err
		}
	default:
		return nil, spectra.Errorf(spectra.EmptyResult, HDF5, "datasets x/y or data not found (have %v)", names)
	}
	return newSpectrum(HDF5, x, y, src.attributes())
}

func newSpectrum(format string, x, y []float64, md spectra.Metadata) (*spectra.Spectrum, error) {
	md["source_format"] = format
	s, err := spectra.New(x, y, md)
	switch {
	case errors.Is(err, spectra.ErrNoPoints):
		return nil, spectra.Errorf(spectra.EmptyResult, format, "no data points")
	case err != nil:
		return nil, spectra.Wrap(spectra.ParseFailure, format, err)
	}
	return s, nil
}

func floatVariable(src source, format, name string) ([]float64, error) {
	v, err := src.values(name)
	if err != nil {
		return nil, spectra.Wrap(spectra.ParseFailure, format, fmt.Errorf("variable %q: %w", name, err))
	}
	out, ok := toFloats(v)
	if !ok {
		return nil, spectra.Errorf(spectra.ParseFailure, format, "variable %q: unsupported type %T", name, v)
	}
	return out, nil
}

// toFloats converts one-dimensional numeric values, or a numeric scalar,
// to float64.
func toFloats(v any) ([]float64, bool) {
	switch s := v.(type) {
	case []float64:
		return slices.Clone(s), true
	case []float32:
		return convert(s), true
	case []int8:
		return convert(s), true
	case []int16:
		return convert(s), true
	case []int32:
		return convert(s), true
	case []int64:
		return convert(s), true
	case []uint8:
		return convert(s), true
	case []uint16:
		return convert(s), true
	case []uint32:
		return convert(s), true
	case []uint64:
		return convert(s), true
	}
	if f, ok := scalar(v); ok {
		return []float64{f}, true
	}
	return nil, false
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func convert[T number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func scalar(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// attributeValue flattens an attribute: strings stay strings, numbers and
// one-element numeric arrays become float64, anything else is printed.
func attributeValue(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := scalar(v); ok {
		return f
	}
	if fs, ok := toFloats(v); ok && len(fs) == 1 {
		return fs[0]
	}
	return fmt.Sprint(v)
}
