package peaks

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectra"
)

const defaultDistance = 2

var (
	// ErrInvalidDistance is returned when the minimum distance is below 1.
	ErrInvalidDistance = fmt.Errorf("peaks: %w: distance must be >= 1", spectra.ErrPrecondition)
	// ErrInvalidHeight is returned for a NaN height threshold.
	ErrInvalidHeight = fmt.Errorf("peaks: %w: height must not be NaN", spectra.ErrPrecondition)
)

// Set lists detected peaks ordered by index.
type Set struct {
	Indices []int
	Values  []float64
}

// Count returns the number of peaks.
func (s Set) Count() int {
	return len(s.Indices)
}

// Option configures Detect.
type Option func(*config) error

type config struct {
	height    float64
	hasHeight bool
	distance  int
}

// WithHeight sets the minimum peak value. Without it the threshold is the
// arithmetic mean of the series.
func WithHeight(height float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(height) {
			return ErrInvalidHeight
		}
		cfg.height = height
		cfg.hasHeight = true
		return nil
	}
}

// WithDistance sets the separation below which, inclusive, two peaks
// compete and only the higher survives.
func WithDistance(distance int) Option {
	return func(cfg *config) error {
		if distance < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidDistance, distance)
		}
		cfg.distance = distance
		return nil
	}
}

// Detect returns the peaks of y. Series shorter than three samples have no
// interior points and yield an empty set.
func Detect(y []float64, opts ...Option) (Set, error) {
	cfg := config{distance: defaultDistance}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return Set{}, err
		}
	}

	if len(y) < 3 {
		return Set{Indices: []int{}, Values: []float64{}}, nil
	}

	height := cfg.height
	if !cfg.hasHeight {
		height = vecmath.Sum(y) / float64(len(y))
	}

	candidates := localMaxima(y, height)
	kept := suppress(y, candidates, cfg.distance)

	set := Set{
		Indices: make([]int, 0, len(kept)),
		Values:  make([]float64, 0, len(kept)),
	}
	for _, i := range kept {
		set.Indices = append(set.Indices, i)
		set.Values = append(set.Values, y[i])
	}
	return set, nil
}

func localMaxima(y []float64, height float64) []int {
	var out []int
	for i := 1; i < len(y)-1; i++ {
		if y[i] > y[i-1] && y[i] > y[i+1] && y[i] >= height {
			out = append(out, i)
		}
	}
	return out
}

// suppress removes candidates within distance samples of a higher accepted
// peak. Equal heights favor the later index.
func suppress(y []float64, candidates []int, distance int) []int {
	if len(candidates) < 2 {
		return candidates
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ya, yb := y[candidates[order[a]]], y[candidates[order[b]]]
		if ya != yb {
			return ya > yb
		}
		return order[a] > order[b]
	})

	keep := make([]bool, len(candidates))
	for i := range keep {
		keep[i] = true
	}

	for _, c := range order {
		if !keep[c] {
			continue
		}
		pos := candidates[c]
		for j := c - 1; j >= 0 && pos-candidates[j] <= distance; j-- {
			keep[j] = false
		}
		for j := c + 1; j < len(candidates) && candidates[j]-pos <= distance; j++ {
			keep[j] = false
		}
	}

	out := candidates[:0:0]
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
