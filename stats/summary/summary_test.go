package summary

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectra"
	"github.com/cwbudde/algo-spectra/internal/testutil"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCalculate_ThreePointSpectrum(t *testing.T) {
	s, err := Calculate([]float64{100, 120, 90})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if s.Length != 3 {
		t.Errorf("Length: got %d, want 3", s.Length)
	}
	if !almostEqual(s.Mean, 103.3333, 0.01) {
		t.Errorf("Mean: got %g, want 103.33", s.Mean)
	}
	if !almostEqual(s.Std, 12.4722, 0.01) {
		t.Errorf("Std: got %g, want 12.47", s.Std)
	}
	if s.Min != 90 || s.Max != 120 {
		t.Errorf("Min/Max: got %g/%g, want 90/120", s.Min, s.Max)
	}
	if s.Median != 100 {
		t.Errorf("Median: got %g, want 100", s.Median)
	}
}

func TestCalculate_PopulationStd(t *testing.T) {
	s, err := Calculate([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !almostEqual(s.Mean, 5, tolerance) {
		t.Errorf("Mean: got %g, want 5", s.Mean)
	}
	if !almostEqual(s.Std, 2, tolerance) {
		t.Errorf("Std: got %g, want 2", s.Std)
	}
	if !almostEqual(s.Median, 4.5, tolerance) {
		t.Errorf("Median: got %g, want 4.5", s.Median)
	}
}

func TestCalculate_SinglePoint(t *testing.T) {
	s, err := Calculate([]float64{-3})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if s.Mean != -3 || s.Std != 0 || s.Min != -3 || s.Max != -3 || s.Median != -3 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestCalculate_Empty(t *testing.T) {
	_, err := Calculate(nil)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if !spectra.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition violation", err)
	}
}

func TestCalculate_OrderingInvariant(t *testing.T) {
	inputs := [][]float64{
		testutil.DeterministicNoise(1, 10, 101),
		testutil.DeterministicNoise(2, 1e6, 64),
		testutil.DeterministicSine(3, 100, 5, 257),
		testutil.DC(0.1, 33),
		{math.MaxFloat64 / 4, math.MaxFloat64 / 4},
	}

	for i, y := range inputs {
		s, err := Calculate(y)
		if err != nil {
			t.Fatalf("input %d: %v", i, err)
		}
		if !(s.Min <= s.Median && s.Median <= s.Max) {
			t.Errorf("input %d: median %g outside [%g, %g]", i, s.Median, s.Min, s.Max)
		}
		if !(s.Min <= s.Mean && s.Mean <= s.Max) {
			t.Errorf("input %d: mean %g outside [%g, %g]", i, s.Mean, s.Min, s.Max)
		}
		if s.Std < 0 {
			t.Errorf("input %d: negative std %g", i, s.Std)
		}
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	y := []float64{5, 1, 4, 2, 3}
	if got := Median(y); got != 3 {
		t.Fatalf("Median = %g, want 3", got)
	}
	testutil.RequireSliceNearlyEqual(t, y, []float64{5, 1, 4, 2, 3}, 0)

	if !math.IsNaN(Median(nil)) {
		t.Fatal("Median(nil) should be NaN")
	}
}
