package spectrum

import (
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex bin.
//
// The square roots run on the SIMD kernels of algo-vecmath when the CPU
// supports them. Scratch buffers are pooled, so in steady state this
// allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Phase returns arg(X[k]) for each bin in radians, in (-pi, pi].
func Phase(in []complex128) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// Frequencies returns the center frequency of each bin of an n-point
// transform in cycles per sample: 0, 1/n, ..., then the negative half.
func Frequencies(n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	step := 1 / float64(n)
	half := (n-1)/2 + 1
	for i := range out {
		if i < half {
			out[i] = step * float64(i)
		} else {
			out[i] = step * float64(i-n)
		}
	}
	return out
}

// Polar builds complex bins from magnitude and phase.
func Polar(magnitude, phase []float64) []complex128 {
	out := make([]complex128, len(magnitude))
	for i := range out {
		out[i] = cmplx.Rect(magnitude[i], phase[i])
	}
	return out
}
