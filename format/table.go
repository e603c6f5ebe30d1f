package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-spectra"
)

// row is one non-blank table row with its 1-based line or row number in the
// source.
type row struct {
	line  int
	cells []string
}

// splitHeader separates the header from the data rows, dropping rows whose
// cells are all blank.
func splitHeader(raw []row) (header []string, rows []row) {
	for _, r := range raw {
		if isBlank(r.cells) {
			continue
		}
		if header == nil {
			header = r.cells
			continue
		}
		rows = append(rows, r)
	}
	return header, rows
}

// tableSpectrum applies the column policy: with two or more header columns
// x is column 0 and y column 1, with one column y is column 0 over the
// implicit index.
func tableSpectrum(format, source string, header []string, rows []row) (*spectra.Spectrum, error) {
	if len(header) == 0 {
		return nil, spectra.Errorf(spectra.EmptyResult, format, "no header row")
	}
	if len(rows) == 0 {
		return nil, spectra.Errorf(spectra.EmptyResult, format, "no data rows")
	}

	md := spectra.Metadata{"source_format": source}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	yCol := 0
	if len(header) >= 2 {
		yCol = 1
		md["x_label"] = strings.TrimSpace(header[0])
	}
	md["y_label"] = strings.TrimSpace(header[yCol])

	y := make([]float64, len(rows))
	var x []float64
	if yCol == 1 {
		x = make([]float64, len(rows))
	}

	for i, r := range rows {
		v, err := cell(format, r, yCol)
		if err != nil {
			return nil, err
		}
		y[i] = v

		if x != nil {
			if x[i], err = cell(format, r, 0); err != nil {
				return nil, err
			}
		}
	}

	return spectra.New(x, y, md)
}

func cell(format string, r row, col int) (float64, error) {
	if col >= len(r.cells) {
		return 0, spectra.Errorf(spectra.ParseFailure, format, "row %d: missing column %d", r.line, col+1)
	}

	text := strings.TrimSpace(r.cells[col])
	if text == "" {
		return 0, spectra.Errorf(spectra.ParseFailure, format, "row %d column %d: empty cell", r.line, col+1)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, spectra.Errorf(spectra.ParseFailure, format, "row %d column %d: %q is not a number", r.line, col+1, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, spectra.Errorf(spectra.ParseFailure, format, "row %d column %d: non-finite value %q", r.line, col+1, text)
	}
	return v, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
