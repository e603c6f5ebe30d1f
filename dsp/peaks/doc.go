// Package peaks finds local maxima in a sampled series.
//
// A sample is a peak candidate when it is strictly greater than both of its
// neighbors and at least the height threshold. Two candidates conflict when
// their indices differ by no more than the minimum distance; the higher one
// is kept. Returned indices are strictly increasing and pairwise more than
// the distance apart.
package peaks
