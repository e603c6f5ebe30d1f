// Package report renders analysis results as indented JSON and writes them
// to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-spectra/analysis"
	"github.com/cwbudde/algo-spectra/dsp/peaks"
	"github.com/cwbudde/algo-spectra/dsp/spectrum"
)

// Indent is the per-level indentation of rendered reports.
const Indent = "  "

var null = json.RawMessage("null")

type document struct {
	File              string          `json:"file"`
	DataPoints        int             `json:"data_points"`
	Stats             *stats          `json:"stats"`
	BaselineCorrected json.RawMessage `json:"baseline_corrected,omitempty"`
	FFT               json.RawMessage `json:"fft,omitempty"`
	Peaks             json.RawMessage `json:"peaks,omitempty"`
	Smoothed          json.RawMessage `json:"smoothed,omitempty"`
	Normalized        json.RawMessage `json:"normalized,omitempty"`
}

type stats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

type fft struct {
	Magnitude   []float64 `json:"magnitude"`
	Phase       []float64 `json:"phase"`
	Frequencies []float64 `json:"frequencies"`
}

type peakSet struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
	Count   int       `json:"count"`
}

// Render encodes r as JSON indented by two spaces. Operations that were not
// requested are omitted; requested operations that failed render as null.
// Non-finite numbers cannot be represented and yield an error.
func Render(r *analysis.Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("report: nil result")
	}

	doc := document{File: r.File, DataPoints: r.DataPoints}
	if r.Stats != nil {
		doc.Stats = &stats{
			Mean:   r.Stats.Mean,
			Std:    r.Stats.Std,
			Min:    r.Stats.Min,
			Max:    r.Stats.Max,
			Median: r.Stats.Median,
		}
	}

	var err error
	if doc.BaselineCorrected, err = encode(r.BaselineCorrected, floats); err != nil {
		return nil, fmt.Errorf("report: baseline_corrected: %w", err)
	}
	if doc.FFT, err = encode(r.FFT, fromTransform); err != nil {
		return nil, fmt.Errorf("report: fft: %w", err)
	}
	if doc.Peaks, err = encode(r.Peaks, fromPeaks); err != nil {
		return nil, fmt.Errorf("report: peaks: %w", err)
	}
	if doc.Smoothed, err = encode(r.Smoothed, floats); err != nil {
		return nil, fmt.Errorf("report: smoothed: %w", err)
	}
	if doc.Normalized, err = encode(r.Normalized, floats); err != nil {
		return nil, fmt.Errorf("report: normalized: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", Indent)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return out, nil
}

// Persist writes data to path in a single write, replacing any existing
// file.
func Persist(data []byte, path string) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: persist: %w", err)
	}
	return nil
}

func encode[T, D any](f analysis.Field[T], convert func(T) D) (json.RawMessage, error) {
	if !f.Requested {
		return nil, nil
	}
	if f.Err != nil {
		return null, nil
	}
	return json.Marshal(convert(f.Value))
}

func floats(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

func fromTransform(t spectrum.Transform) fft {
	return fft{
		Magnitude:   floats(t.Magnitude),
		Phase:       floats(t.Phase),
		Frequencies: floats(t.Frequencies),
	}
}

func fromPeaks(s peaks.Set) peakSet {
	out := peakSet{Indices: s.Indices, Values: floats(s.Values), Count: s.Count()}
	if out.Indices == nil {
		out.Indices = []int{}
	}
	return out
}
