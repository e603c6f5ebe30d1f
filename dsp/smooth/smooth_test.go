package smooth

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectra"
	"github.com/cwbudde/algo-spectra/internal/testutil"
)

func TestKernel(t *testing.T) {
	k, err := Kernel(1)
	if err != nil {
		t.Fatal(err)
	}

	if len(k) != 9 {
		t.Fatalf("len=%d want 9", len(k))
	}

	sum := 0.0
	for i, v := range k {
		sum += v
		if v != k[len(k)-1-i] {
			t.Fatalf("kernel not symmetric at %d", i)
		}
	}
	testutil.RequireNear(t, "kernel sum", sum, 1, 1e-12)

	// Sampled unit Gaussian, radius 4, normalized to unit sum.
	testutil.RequireNear(t, "center", k[4], 0.3989434693560978, 1e-9)
	testutil.RequireNear(t, "first", k[0], 0.00013383062461474208, 1e-12)
}

func TestKernelRadius(t *testing.T) {
	tests := []struct {
		sigma float64
		n     int
	}{
		{0, 1},
		{0.1, 1},
		{0.125, 3},
		{1.5, 13},
		{20, 161},
	}
	for _, tc := range tests {
		k, err := Kernel(tc.sigma)
		if err != nil {
			t.Fatal(err)
		}
		if len(k) != tc.n {
			t.Fatalf("sigma=%v: len=%d want %d", tc.sigma, len(k), tc.n)
		}
	}
}

func TestGaussianPreservesLengthAndConstant(t *testing.T) {
	for _, n := range []int{1, 2, 5, 100} {
		y := testutil.DC(3.5, n)

		got, err := Gaussian(y, 2)
		if err != nil {
			t.Fatal(err)
		}

		testutil.RequireSliceNearlyEqual(t, got, y, 1e-12)
	}
}

func TestGaussianReflectEdges(t *testing.T) {
	// Reference values for sigma 1 with half-sample symmetric edges.
	want := []float64{1.42704095, 2.06782203, 3, 3.93217797, 4.57295905}

	got, err := Gaussian([]float64{1, 2, 3, 4, 5}, 1)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-7)
}

func TestGaussianPreservesSum(t *testing.T) {
	y := testutil.GaussianBands(200, testutil.Band{Center: 100, Width: 3, Height: 5})

	// Long kernels take the FFT path.
	for _, sigma := range []float64{0.5, 3, 20} {
		got, err := Gaussian(y, sigma)
		if err != nil {
			t.Fatal(err)
		}

		if len(got) != len(y) {
			t.Fatalf("len=%d want %d", len(got), len(y))
		}

		var in, out float64
		for i := range y {
			in += y[i]
			out += got[i]
		}
		testutil.RequireNear(t, "area", out, in, 1e-6)

		if got[100] >= y[100] {
			t.Fatalf("sigma=%v: peak not attenuated: %v", sigma, got[100])
		}
	}
}

func TestGaussianZeroSigmaIsIdentity(t *testing.T) {
	y := []float64{4, -1, 7}

	got, err := Gaussian(y, 0)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, y, 0)

	got[0] = 100
	if y[0] != 4 {
		t.Fatal("Gaussian aliased its input")
	}
}

func TestGaussianInvalidSigma(t *testing.T) {
	for _, sigma := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Gaussian([]float64{1, 2, 3}, sigma)
		if !errors.Is(err, ErrInvalidSigma) {
			t.Fatalf("sigma=%v: err=%v want ErrInvalidSigma", sigma, err)
		}

		if !spectra.IsPrecondition(err) {
			t.Fatalf("sigma=%v: not a precondition violation", sigma)
		}
	}
}

func TestReflect(t *testing.T) {
	n := 4
	want := map[int]int{-5: 3, -4: 3, -3: 2, -1: 0, 0: 0, 3: 3, 4: 3, 5: 2, 8: 0, 9: 1}
	for i, w := range want {
		if got := reflect(i, n); got != w {
			t.Fatalf("reflect(%d, %d)=%d want %d", i, n, got, w)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{100, 120, 90})
	testutil.RequireSliceNearlyEqual(t, got, []float64{1.0 / 3, 1, 0}, 1e-12)

	testutil.RequireSliceNearlyEqual(t, Normalize([]float64{5, 5, 5}), []float64{0, 0, 0}, 0)

	if got := Normalize(nil); len(got) != 0 {
		t.Fatalf("Normalize(nil)=%v", got)
	}
}
