// Package baseline removes slow polynomial trends from a sampled series.
//
// The trend is the least-squares polynomial in the sample index. The
// abscissa is mapped affinely onto [-1, 1] before the Vandermonde system is
// factorized, which leaves the fitted values unchanged and keeps the QR
// solve well conditioned for long series.
package baseline

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-spectra"
)

// ErrInvalidOrder is returned when the polynomial order is negative or not
// smaller than the series length.
var ErrInvalidOrder = fmt.Errorf("baseline: %w: order must be in [0, len(y))", spectra.ErrPrecondition)

// Fit returns the least-squares polynomial of the given order evaluated at
// every index of y.
func Fit(y []float64, order int) ([]float64, error) {
	n := len(y)
	if order < 0 || order >= n {
		return nil, fmt.Errorf("%w: order %d, length %d", ErrInvalidOrder, order, n)
	}

	t := abscissa(n)
	cols := order + 1

	a := mat.NewDense(n, cols, nil)
	for i, ti := range t {
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= ti
		}
	}

	var qr mat.QR
	qr.Factorize(a)

	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("baseline: least squares: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(a, &coef)
	return fitted.RawVector().Data, nil
}

// Correct subtracts the fitted polynomial baseline from y.
func Correct(y []float64, order int) ([]float64, error) {
	fitted, err := Fit(y, order)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(y))
	floats.SubTo(out, y, fitted)
	return out, nil
}

// abscissa maps 0..n-1 onto [-1, 1].
func abscissa(n int) []float64 {
	t := make([]float64, n)
	if n == 1 {
		return t
	}
	floats.Span(t, -1, 1)
	return t
}
