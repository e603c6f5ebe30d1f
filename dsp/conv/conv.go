package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
)

// DirectThreshold is the longest kernel Convolve handles in the time domain.
const DirectThreshold = 64

// Mode selects the region of the full convolution that is returned.
type Mode int

const (
	// ModeFull returns all len(a)+len(b)-1 samples.
	ModeFull Mode = iota
	// ModeSame returns len(a) samples centered on the full result.
	ModeSame
	// ModeValid returns the samples where one input fully overlaps the other.
	ModeValid
)

// Direct convolves a with b in the time domain.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	dst := make([]float64, len(a)+len(b)-1)
	if len(b) < 4 {
		for i, av := range a {
			for j, bv := range b {
				dst[i+j] += av * bv
			}
		}
		return dst, nil
	}

	scaled := make([]float64, len(b))
	for i, av := range a {
		vecmath.ScaleBlock(scaled, b, av)
		vecmath.AddBlockInPlace(dst[i:i+len(b)], scaled)
	}
	return dst, nil
}

// Convolve returns the full linear convolution of a and b, picking the
// direct or overlap-add path by the length of the shorter input.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	if len(b) > len(a) {
		a, b = b, a
	}
	if len(b) <= DirectThreshold {
		return Direct(a, b)
	}
	return OverlapAdd(a, b)
}

// ConvolveMode convolves a with b and trims the result to mode.
func ConvolveMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeSame:
		start := (len(b) - 1) / 2
		return full[start : start+len(a)], nil
	case ModeValid:
		lo, hi := len(a), len(b)
		if lo > hi {
			lo, hi = hi, lo
		}
		return full[lo-1 : hi], nil
	default:
		return full, nil
	}
}
