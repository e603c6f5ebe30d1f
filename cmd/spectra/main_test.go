package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectra/internal/config"
	"github.com/cwbudde/algo-spectra/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv(config.EnvFile, "")
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func decode(t *testing.T, stdout string) map[string]json.RawMessage {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc), stdout)
	return doc
}

func TestRunStatsEndToEnd(t *testing.T) {
	path := testutil.WriteFile(t, "sample.csv", "wavelength,intensity\n400,100\n410,120\n420,90\n")

	code, stdout, stderr := runCLI(t, "--file", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stderr)

	var doc struct {
		File       string `json:"file"`
		DataPoints int    `json:"data_points"`
		Stats      struct {
			Mean, Std, Min, Max, Median float64
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, path, doc.File)
	assert.Equal(t, 3, doc.DataPoints)
	assert.InDelta(t, 103.33, doc.Stats.Mean, 0.01)
	assert.InDelta(t, 12.47, doc.Stats.Std, 0.01)
	assert.InDelta(t, 90, doc.Stats.Min, 0.01)
	assert.InDelta(t, 120, doc.Stats.Max, 0.01)
	assert.InDelta(t, 100, doc.Stats.Median, 0.01)
}

func TestRunDefaultPeaks(t *testing.T) {
	path := testutil.WriteFile(t, "single.csv", "intensity\n1\n5\n2\n8\n3\n")

	code, stdout, stderr := runCLI(t, "--file", path, "--peaks")
	require.Equal(t, exitOK, code, stderr)

	doc := decode(t, stdout)
	assert.JSONEq(t, `{"indices":[3],"values":[8],"count":1}`, string(doc["peaks"]))
	assert.NotContains(t, doc, "fft")
	assert.NotContains(t, doc, "baseline_corrected")
	assert.Contains(t, doc, "stats")
}

func TestRunNoFlagsEqualsAll(t *testing.T) {
	path := testutil.WriteFile(t, "s.tsv", testutil.Table("\t", []string{"x", "y"},
		[]float64{1, 3}, []float64{2, 1}, []float64{3, 4}, []float64{4, 1},
		[]float64{5, 5}, []float64{6, 9}, []float64{7, 2}, []float64{8, 6},
	))

	code, plain, _ := runCLI(t, "--file", path)
	require.Equal(t, exitOK, code)
	code, all, _ := runCLI(t, "--file", path, "--all")
	require.Equal(t, exitOK, code)
	assert.Equal(t, plain, all)

	doc := decode(t, plain)
	for _, key := range []string{"stats", "baseline_corrected", "fft", "peaks"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "smoothed")
	assert.NotContains(t, doc, "normalized")
}

func TestRunOptionalOutputs(t *testing.T) {
	path := testutil.WriteFile(t, "s.csv", "y\n1\n2\n3\n4\n5\n")

	code, stdout, stderr := runCLI(t, "--file", path, "--fft", "--smooth", "--sigma", "0", "--normalize")
	require.Equal(t, exitOK, code, stderr)

	doc := decode(t, stdout)
	assert.JSONEq(t, "[1,2,3,4,5]", string(doc["smoothed"]))
	assert.JSONEq(t, "[0,0.25,0.5,0.75,1]", string(doc["normalized"]))
}

func TestRunFailedAnalysisIsNull(t *testing.T) {
	path := testutil.WriteFile(t, "s.csv", "y\n1\n5\n2\n8\n3\n")

	code, stdout, stderr := runCLI(t, "--file", path, "--poly-order", "10")
	require.Equal(t, exitOK, code)

	doc := decode(t, stdout)
	assert.Equal(t, "null", string(doc["baseline_corrected"]))
	assert.Contains(t, doc, "fft")
	assert.Contains(t, stderr, "analysis failed")
	assert.Contains(t, stderr, "baseline")
}

func TestRunOverflowRendersNull(t *testing.T) {
	path := testutil.WriteFile(t, "huge.csv", "y\n1e308\n1.5e308\n1e308\n")

	code, stdout, stderr := runCLI(t, "--file", path)
	require.Equal(t, exitOK, code, stderr)

	doc := decode(t, stdout)
	assert.Equal(t, "null", string(doc["stats"]))
	assert.Equal(t, "null", string(doc["fft"]))
	assert.JSONEq(t, `{"indices":[],"values":[],"count":0}`, string(doc["peaks"]))
	assert.Equal(t, "null", string(doc["baseline_corrected"]))
	assert.Contains(t, stderr, "non-finite")
}

func TestRunLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unsupported extension", "data.xyz", "1,2\n", "unsupported format"},
		{"malformed csv", "bad.csv", "x,y\n1,abc\n", "parse failure"},
		{"header only", "empty.csv", "x,y\n", "empty result"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, tt.file, tt.content)
			code, stdout, stderr := runCLI(t, "--file", path)
			assert.Equal(t, exitFailure, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.want)
			assert.Equal(t, 1, strings.Count(stderr, "\n"), stderr)
		})
	}
}

func TestRunUsageErrors(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "--file is required")

	code, _, _ = runCLI(t, "--no-such-flag")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "--file", "a.csv", "extra")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "--distance", "many")
	assert.Equal(t, exitUsage, code)
}

func TestRunOutputFile(t *testing.T) {
	path := testutil.WriteFile(t, "s.csv", "y\n1\n5\n2\n8\n3\n")
	outPath := filepath.Join(t.TempDir(), "report.json")

	code, stdout, stderr := runCLI(t, "--file", path, "--output", outPath)
	require.Equal(t, exitOK, code, stderr)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(stdout, "\n"), string(written))

	bad := filepath.Join(t.TempDir(), "missing", "report.json")
	code, stdout, stderr = runCLI(t, "--file", path, "--output", bad)
	assert.Equal(t, exitFailure, code)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stderr, "persist")
}

func TestRunFormats(t *testing.T) {
	code, stdout, _ := runCLI(t, "--formats")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "FORMAT")
	for _, name := range []string{"jcamp", "hdf5", "netcdf", "delimited", "spreadsheet"} {
		assert.Contains(t, stdout, name)
	}
	assert.NotContains(t, stdout, "disabled by configuration")

	t.Setenv("SPECTRA_FORMATS_DISABLED", "hdf5")
	code, stdout, _ = runCLI(t, "--formats")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "disabled by configuration")
}

func TestRunDisabledFormat(t *testing.T) {
	path := testutil.WriteFile(t, "s.csv", "y\n1\n2\n3\n")
	t.Setenv("SPECTRA_FORMATS_DISABLED", "delimited")

	code, _, stderr := runCLI(t, "--file", path)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "unsupported format")
}

func TestRunConfigFile(t *testing.T) {
	data := testutil.WriteFile(t, "s.csv", "y\n0\n5\n0\n7\n0\n9\n0\n")

	cfg := testutil.WriteFile(t, "spectra.yaml", "analysis:\n  peak_distance: 1\nlogging:\n  level: info\n")
	code, stdout, stderr := runCLI(t, "--file", data, "--peaks", "--config", cfg)
	require.Equal(t, exitOK, code, stderr)
	assert.JSONEq(t, `{"indices":[1,3,5],"values":[5,7,9],"count":3}`, string(decode(t, stdout)["peaks"]))
	assert.Contains(t, stderr, "spectrum loaded")

	code, stdout, _ = runCLI(t, "--file", data, "--peaks", "--config", cfg, "--distance", "2")
	require.Equal(t, exitOK, code)
	assert.JSONEq(t, `{"indices":[1,5],"values":[5,9],"count":2}`, string(decode(t, stdout)["peaks"]))

	bad := testutil.WriteFile(t, "bad.yaml", "analysis:\n  peak_distance: 0\n")
	code, stdout, stderr = runCLI(t, "--file", data, "--config", bad)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "peak_distance")
}
