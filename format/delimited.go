package format

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-spectra"
)

func loadDelimited(path string) (*spectra.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	comma := ','
	if ext == ".tsv" {
		comma = '\t'
	}
	return readDelimited(f, comma, strings.TrimPrefix(ext, "."))
}

// readDelimited parses a header row followed by numeric rows. Records may
// have differing field counts; only the columns in use are checked.
func readDelimited(r io.Reader, comma rune, source string) (*spectra.Spectrum, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var raw []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, spectra.Wrap(spectra.ParseFailure, Delimited, err)
		}
		line, _ := cr.FieldPos(0)
		raw = append(raw, row{line: line, cells: rec})
	}

	header, rows := splitHeader(raw)
	return tableSpectrum(Delimited, source, header, rows)
}
