package summary_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectra/stats/summary"
)

func ExampleCalculate() {
	s, err := summary.Calculate([]float64{100, 120, 90})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("mean=%.2f std=%.2f min=%.0f max=%.0f median=%.0f\n", s.Mean, s.Std, s.Min, s.Max, s.Median)

	// Output:
	// mean=103.33 std=12.47 min=90 max=120 median=100
}
