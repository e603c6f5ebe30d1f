// Package smooth provides Gaussian smoothing and min-max normalization of
// sampled series.
package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectra"
	"github.com/cwbudde/algo-spectra/dsp/conv"
)

// Truncate is the kernel half-width in standard deviations.
const Truncate = 4.0

// ErrInvalidSigma is returned for a negative or non-finite sigma.
var ErrInvalidSigma = fmt.Errorf("smooth: %w: sigma must be finite and >= 0", spectra.ErrPrecondition)

// Kernel returns the normalized Gaussian kernel for sigma, of length
// 2*radius+1 with radius = int(Truncate*sigma + 0.5).
func Kernel(sigma float64) ([]float64, error) {
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSigma, sigma)
	}

	radius := int(Truncate*sigma + 0.5)
	if radius == 0 {
		return []float64{1}, nil
	}

	k := make([]float64, 2*radius+1)
	inv := -0.5 / (sigma * sigma)
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(inv * x * x)
	}
	vecmath.ScaleBlockInPlace(k, 1/vecmath.Sum(k))
	return k, nil
}

// Gaussian convolves y with a Gaussian of standard deviation sigma samples.
// The series is extended by mirror reflection including the edge sample
// (d c b a | a b c d | d c b a), so the output has the length of y.
func Gaussian(y []float64, sigma float64) ([]float64, error) {
	k, err := Kernel(sigma)
	if err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return []float64{}, nil
	}
	if len(k) == 1 {
		return append([]float64(nil), y...), nil
	}

	radius := len(k) / 2
	padded := make([]float64, len(y)+2*radius)
	for i := range padded {
		padded[i] = y[reflect(i-radius, len(y))]
	}

	return conv.ConvolveMode(padded, k, conv.ModeValid)
}

// reflect maps an out-of-range index back into [0, n) by repeated mirroring
// about the edges.
func reflect(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// Normalize rescales y linearly onto [0, 1]. A constant series maps to all
// zeros.
func Normalize(y []float64) []float64 {
	out := append([]float64(nil), y...)
	if len(out) == 0 {
		return out
	}

	lo, hi := floats.Min(out), floats.Max(out)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	floats.AddConst(-lo, out)
	vecmath.ScaleBlockInPlace(out, 1/span)
	return out
}
