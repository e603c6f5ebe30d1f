// Package conv implements linear convolution of finite sequences.
//
// Short kernels are convolved directly in the time domain, with the inner
// multiply-accumulate running on the algo-vecmath block kernels. Kernels
// longer than DirectThreshold go through FFT overlap-add on algo-fft plans.
// Both paths produce the same full-length result; ConvolveMode trims it to
// the "same" or "valid" region.
package conv
