package spectrum

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-spectra"
)

// Errors returned by the transform functions.
var (
	ErrEmptyInput     = fmt.Errorf("spectrum: %w: empty input", spectra.ErrPrecondition)
	ErrLengthMismatch = fmt.Errorf("spectrum: %w: magnitude and phase length mismatch", spectra.ErrPrecondition)
)

// Transform is the discrete Fourier transform of a real series. All three
// slices have the length of the input; bin 0 is the DC component.
type Transform struct {
	Magnitude   []float64
	Phase       []float64
	Frequencies []float64
}

// plan transforms complex sequences of one fixed length. Inverse is
// normalized by 1/n.
type plan interface {
	forward(dst, src []complex128) error
	inverse(dst, src []complex128) error
}

type radix2Plan struct {
	p *algofft.Plan[complex128]
}

func (r radix2Plan) forward(dst, src []complex128) error { return r.p.Forward(dst, src) }
func (r radix2Plan) inverse(dst, src []complex128) error { return r.p.Inverse(dst, src) }

type mixedRadixPlan struct {
	t *fourier.CmplxFFT
}

func (m mixedRadixPlan) forward(dst, src []complex128) error {
	m.t.Coefficients(dst, src)
	return nil
}

func (m mixedRadixPlan) inverse(dst, src []complex128) error {
	m.t.Sequence(dst, src)
	scale := complex(1/float64(len(dst)), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}

func newPlan(n int) plan {
	if n >= 2 && isPowerOf2(n) {
		if p, err := algofft.NewPlan64(n); err == nil {
			return radix2Plan{p: p}
		}
	}
	return mixedRadixPlan{t: fourier.NewCmplxFFT(n)}
}

// Coefficients returns the unnormalized DFT of a real series.
func Coefficients(y []float64) ([]complex128, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	in := make([]complex128, n)
	for i, v := range y {
		in[i] = complex(v, 0)
	}
	if n == 1 {
		return in, nil
	}

	out := make([]complex128, n)
	if err := newPlan(n).forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward transform: %w", err)
	}
	return out, nil
}

// FFT transforms the full series y without padding or windowing.
func FFT(y []float64) (Transform, error) {
	bins, err := Coefficients(y)
	if err != nil {
		return Transform{}, err
	}

	return Transform{
		Magnitude:   Magnitude(bins),
		Phase:       Phase(bins),
		Frequencies: Frequencies(len(bins)),
	}, nil
}

// Reconstruct inverts a transform given as magnitude and phase and returns
// the real part of the recovered series.
func Reconstruct(magnitude, phase []float64) ([]float64, error) {
	n := len(magnitude)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if len(phase) != n {
		return nil, ErrLengthMismatch
	}

	bins := Polar(magnitude, phase)
	if n == 1 {
		return []float64{real(bins[0])}, nil
	}

	seq := make([]complex128, n)
	if err := newPlan(n).inverse(seq, bins); err != nil {
		return nil, fmt.Errorf("spectrum: inverse transform: %w", err)
	}

	out := make([]float64, n)
	for i, c := range seq {
		out[i] = real(c)
	}
	return out, nil
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
