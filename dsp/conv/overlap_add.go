package conv

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

const minBlockSize = 256

// OverlapAdd convolves signal with kernel by transforming blocks of the
// signal, multiplying with the kernel spectrum and summing the overlapping
// block tails.
func OverlapAdd(signal, kernel []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	block := max(nextPowerOf2(len(kernel)), minBlockSize)
	size := nextPowerOf2(block + len(kernel) - 1)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("conv: fft plan of size %d: %w", size, err)
	}

	kernelBins := make([]complex128, size)
	buf := make([]complex128, size)
	for i, v := range kernel {
		buf[i] = complex(v, 0)
	}
	if err := plan.Forward(kernelBins, buf); err != nil {
		return nil, fmt.Errorf("conv: kernel transform: %w", err)
	}

	out := make([]float64, len(signal)+len(kernel)-1)
	for start := 0; start < len(signal); start += block {
		end := min(start+block, len(signal))

		clear(buf)
		for i, v := range signal[start:end] {
			buf[i] = complex(v, 0)
		}
		if err := plan.Forward(buf, buf); err != nil {
			return nil, fmt.Errorf("conv: block transform: %w", err)
		}
		for i := range buf {
			buf[i] *= kernelBins[i]
		}
		if err := plan.Inverse(buf, buf); err != nil {
			return nil, fmt.Errorf("conv: block inverse: %w", err)
		}

		tail := min(end-start+len(kernel)-1, len(out)-start)
		for i := 0; i < tail; i++ {
			out[start+i] += real(buf[i])
		}
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
