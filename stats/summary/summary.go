// Package summary computes descriptive statistics of a dependent-variable
// series.
package summary

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-spectra"
)

// ErrEmpty is returned for an empty series.
var ErrEmpty = fmt.Errorf("summary: %w: empty input", spectra.ErrPrecondition)

// Summary holds the descriptive statistics of a series.
type Summary struct {
	Length int
	Mean   float64
	Std    float64 // population standard deviation
	Min    float64
	Max    float64
	Median float64
}

// Calculate computes the summary of y. y must not be empty.
func Calculate(y []float64) (Summary, error) {
	n := len(y)
	if n == 0 {
		return Summary{}, ErrEmpty
	}

	mean, std := stat.PopMeanStdDev(y, nil)

	s := Summary{
		Length: n,
		Mean:   mean,
		Std:    std,
		Min:    floats.Min(y),
		Max:    floats.Max(y),
		Median: Median(y),
	}

	// min <= mean <= max must hold under rounding.
	s.Mean = math.Min(math.Max(s.Mean, s.Min), s.Max)

	return s, nil
}

// Median returns the median of y, averaging the two middle samples for even
// lengths. Returns NaN for an empty slice.
func Median(y []float64) float64 {
	n := len(y)
	if n == 0 {
		return math.NaN()
	}

	sorted := append([]float64(nil), y...)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
