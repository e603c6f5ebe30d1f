// Package spectra holds the value types shared by the loaders, the signal
// operations and the analysis pipeline.
//
// A [Spectrum] pairs an independent variable (wavelength, wavenumber,
// chemical shift, sample index, ...) with a dependent variable (intensity,
// absorbance, ...) and carries a flat metadata map. Spectra are immutable:
// accessors return copies, and every transform in the dsp packages returns a
// new slice.
package spectra

import (
	"fmt"
	"sort"
)

// Metadata is a flat mapping of record names to scalar values. Values are
// float64, int64, bool or string.
type Metadata map[string]any

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value stored under key formatted as text, and whether
// the key was present.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

func (m Metadata) clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Spectrum is an ordered pair of equal-length numeric sequences plus
// metadata.
type Spectrum struct {
	x        []float64
	y        []float64
	metadata Metadata
}

// New validates and builds a spectrum. A nil x is replaced by the implicit
// sample index 0..n-1. The slices are copied.
func New(x, y []float64, md Metadata) (*Spectrum, error) {
	if len(y) == 0 {
		return nil, ErrNoPoints
	}
	if x != nil && len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(x), len(y))
	}

	s := &Spectrum{
		y:        append([]float64(nil), y...),
		metadata: md.clone(),
	}
	if x == nil {
		s.x = Index(len(y))
	} else {
		s.x = append([]float64(nil), x...)
	}
	return s, nil
}

// Index returns the sequence 0, 1, ..., n-1.
func Index(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// Len returns the number of points.
func (s *Spectrum) Len() int { return len(s.y) }

// X returns a copy of the independent variable.
func (s *Spectrum) X() []float64 { return append([]float64(nil), s.x...) }

// Y returns a copy of the dependent variable.
func (s *Spectrum) Y() []float64 { return append([]float64(nil), s.y...) }

// Metadata returns a copy of the metadata map.
func (s *Spectrum) Metadata() Metadata { return s.metadata.clone() }
