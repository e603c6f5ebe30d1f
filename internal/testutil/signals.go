package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave of the given frequency in cycles
// per sample window of sampleRate samples.
func DeterministicSine(freq, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Polynomial evaluates c[0] + c[1]*i + c[2]*i^2 + ... at i = 0..length-1.
func Polynomial(length int, c ...float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		x := float64(i)
		p := 1.0
		for _, ck := range c {
			out[i] += ck * p
			p *= x
		}
	}
	return out
}

// Band describes one Gaussian absorption/emission band.
type Band struct {
	Center float64 // sample index of the maximum
	Width  float64 // standard deviation in samples
	Height float64
}

// GaussianBands sums the given bands over length samples.
func GaussianBands(length int, bands ...Band) []float64 {
	out := make([]float64, length)
	for _, b := range bands {
		for i := range out {
			d := (float64(i) - b.Center) / b.Width
			out[i] += b.Height * math.Exp(-0.5*d*d)
		}
	}
	return out
}

// Add returns the element-wise sum of equal-length signals.
func Add(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}
	out := make([]float64, len(signals[0]))
	for _, s := range signals {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}
