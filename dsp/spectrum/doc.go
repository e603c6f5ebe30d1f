// Package spectrum computes the discrete Fourier transform of a sampled
// series and the magnitude, phase and frequency views of its bins.
//
// Power-of-two lengths run on the algo-fft plans; every other length falls
// back to the mixed-radix FFTPACK port in gonum, so the full sequence is
// always transformed without padding. Frequencies follow the unit sample
// interval convention: bin k of an n-point transform sits at k/n cycles per
// sample, with the upper half of the bins mapped to negative frequencies.
package spectrum
