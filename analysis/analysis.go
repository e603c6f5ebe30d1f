// Package analysis runs the requested signal operations over a loaded
// spectrum and collects their results.
//
// Summary statistics are always computed. The remaining operations are
// selected through [Options]; each runs independently, so a failure in one
// leaves the others untouched and is recorded on its own [Field].
package analysis

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	spectra "github.com/cwbudde/algo-spectra"
	"github.com/cwbudde/algo-spectra/dsp/baseline"
	"github.com/cwbudde/algo-spectra/dsp/peaks"
	"github.com/cwbudde/algo-spectra/dsp/smooth"
	"github.com/cwbudde/algo-spectra/dsp/spectrum"
	"github.com/cwbudde/algo-spectra/stats/summary"
)

// Operation names used in logs and in [Result.Failures].
const (
	OpStats     = "stats"
	OpFFT       = "fft"
	OpPeaks     = "peaks"
	OpBaseline  = "baseline"
	OpSmooth    = "smooth"
	OpNormalize = "normalize"
)

// ErrNonFinite is recorded on an operation whose result overflowed to an
// infinity or NaN. Such values have no JSON representation.
var ErrNonFinite = errors.New("analysis: non-finite result")

// Options selects the operations to run and their parameters.
//
// The zero value is not the default configuration: every parameter is
// taken literally, so PeakDistance 0 fails peak detection, PolyOrder 0
// subtracts the mean instead of a line, and SmoothSigma 0 leaves the
// smoothed copy unchanged. Start from [DefaultOptions] and override.
type Options struct {
	// Source identifies the analyzed input in the result, usually the
	// file path.
	Source string

	Peaks    bool
	FFT      bool
	Baseline bool
	All      bool

	// Smooth and Normalize are opt-in and not implied by All.
	Smooth    bool
	Normalize bool

	// Height is the peak threshold. Nil uses the mean of y.
	Height       *float64
	PeakDistance int
	PolyOrder    int
	SmoothSigma  float64

	// Logger receives one warning per failed operation. Nil disables
	// logging.
	Logger *zap.Logger
}

// DefaultOptions returns options with the default parameters (peak
// distance 2, a linear baseline, smoothing sigma 1) and no operation
// selected, which [Analyze] treats as "run everything".
func DefaultOptions() Options {
	return Options{
		PeakDistance: 2,
		PolyOrder:    1,
		SmoothSigma:  1.0,
	}
}

// Resolve applies the run-everything policy: when All is set, or when none
// of Peaks, FFT and Baseline is set, all three are enabled.
func (o Options) Resolve() Options {
	if o.All || !(o.Peaks || o.FFT || o.Baseline) {
		o.Peaks, o.FFT, o.Baseline = true, true, true
	}
	return o
}

// Field is the outcome of one optional operation. A field that was not
// requested has Requested false. A requested field that failed carries
// the error and a zero Value.
type Field[T any] struct {
	Requested bool
	Value     T
	Err       error
}

// OK reports whether the operation was requested and succeeded.
func (f Field[T]) OK() bool {
	return f.Requested && f.Err == nil
}

// Result collects the outcome of every operation of one analysis run.
type Result struct {
	File       string
	DataPoints int

	// Stats is nil when the summary could not be computed or did not
	// come out finite.
	Stats    *summary.Summary
	statsErr error

	BaselineCorrected Field[[]float64]
	FFT               Field[spectrum.Transform]
	Peaks             Field[peaks.Set]
	Smoothed          Field[[]float64]
	Normalized        Field[[]float64]
}

// Failures returns the errors of the failed operations keyed by operation
// name.
func (r *Result) Failures() map[string]error {
	out := make(map[string]error)
	if r.Stats == nil {
		out[OpStats] = r.statsErr
		if r.statsErr == nil {
			out[OpStats] = summary.ErrEmpty
		}
	}
	collect(out, OpBaseline, r.BaselineCorrected)
	collect(out, OpFFT, r.FFT)
	collect(out, OpPeaks, r.Peaks)
	collect(out, OpSmooth, r.Smoothed)
	collect(out, OpNormalize, r.Normalized)
	return out
}

func collect[T any](dst map[string]error, op string, f Field[T]) {
	if f.Requested && f.Err != nil {
		dst[op] = f.Err
	}
}

// Analyze runs the operations selected by opts over the y values of s.
// A nil spectrum is analyzed as an empty one: every requested operation
// fails with [spectra.ErrNoPoints] and the statistics are absent.
func Analyze(s *spectra.Spectrum, opts Options) *Result {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.Resolve()

	var y []float64
	if s != nil {
		y = s.Y()
	}

	r := &Result{File: opts.Source, DataPoints: len(y)}

	st, err := summary.Calculate(y)
	if err == nil && !finite([]float64{st.Mean, st.Std, st.Min, st.Max, st.Median}) {
		err = fmt.Errorf("%s: %w", OpStats, ErrNonFinite)
	}
	if err != nil {
		r.statsErr = err
		log.Warn("analysis failed", zap.String("op", OpStats), zap.Error(err))
	} else {
		r.Stats = &st
	}

	if opts.Baseline {
		r.BaselineCorrected = run(log, OpBaseline, y, func() ([]float64, error) {
			return baseline.Correct(y, opts.PolyOrder)
		})
	}
	if opts.FFT {
		r.FFT = run(log, OpFFT, y, func() (spectrum.Transform, error) {
			return spectrum.FFT(y)
		})
	}
	if opts.Peaks {
		r.Peaks = run(log, OpPeaks, y, func() (peaks.Set, error) {
			popts := []peaks.Option{peaks.WithDistance(opts.PeakDistance)}
			if opts.Height != nil {
				popts = append(popts, peaks.WithHeight(*opts.Height))
			}
			return peaks.Detect(y, popts...)
		})
	}
	if opts.Smooth {
		r.Smoothed = run(log, OpSmooth, y, func() ([]float64, error) {
			return smooth.Gaussian(y, opts.SmoothSigma)
		})
	}
	if opts.Normalize {
		r.Normalized = run(log, OpNormalize, y, func() ([]float64, error) {
			return smooth.Normalize(y), nil
		})
	}

	return r
}

// run executes one operation, converting an empty input, a non-finite
// result or a panic into a failed field.
func run[T any](log *zap.Logger, op string, y []float64, fn func() (T, error)) (f Field[T]) {
	f.Requested = true

	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			f.Value = zero
			f.Err = fmt.Errorf("%s: %v", op, rec)
		}
		if f.Err != nil {
			log.Warn("analysis failed", zap.String("op", op), zap.Error(f.Err))
			return
		}
		log.Debug("analysis done", zap.String("op", op))
	}()

	if len(y) == 0 {
		f.Err = fmt.Errorf("%s: %w", op, spectra.ErrNoPoints)
		return f
	}
	f.Value, f.Err = fn()
	if f.Err == nil && !finiteValue(f.Value) {
		f.Err = fmt.Errorf("%s: %w", op, ErrNonFinite)
	}
	if f.Err != nil {
		var zero T
		f.Value = zero
	}
	return f
}

func finiteValue(v any) bool {
	switch v := v.(type) {
	case []float64:
		return finite(v)
	case spectrum.Transform:
		return finite(v.Magnitude) && finite(v.Phase) && finite(v.Frequencies)
	case peaks.Set:
		return finite(v.Values)
	}
	return true
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
