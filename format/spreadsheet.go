package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/algo-spectra"
)

func loadSpreadsheet(path string) (*spectra.Spectrum, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		raw []row
		err error
	)
	if ext == ".xls" {
		raw, err = readXLS(path)
	} else {
		raw, err = readXLSX(path)
	}
	if err != nil {
		return nil, spectra.Wrap(spectra.ParseFailure, Spreadsheet, err)
	}

	header, rows := splitHeader(raw)
	return tableSpectrum(Spreadsheet, strings.TrimPrefix(ext, "."), header, rows)
}

// readXLSX returns the unformatted cell text of the first worksheet.
func readXLSX(path string) ([]row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, spectra.Errorf(spectra.EmptyResult, Spreadsheet, "workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}

	raw := make([]row, len(cells))
	for i, c := range cells {
		raw[i] = row{line: i + 1, cells: c}
	}
	return raw, nil
}

// readXLS returns the cell text of the first worksheet of a BIFF workbook.
// The xls reader panics on some malformed input; that is reported as an
// error.
func readXLS(path string) (raw []row, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("malformed workbook: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, spectra.Errorf(spectra.EmptyResult, Spreadsheet, "workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, spectra.Errorf(spectra.EmptyResult, Spreadsheet, "first sheet is unreadable")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		raw = append(raw, row{line: i + 1, cells: xlsCells(sheet, i)})
	}
	return raw, nil
}

// xlsCells returns the text of row i, or nil when the sheet has no such row.
func xlsCells(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	r := sheet.Row(i)
	if r == nil {
		return nil
	}
	cells = make([]string, r.LastCol())
	for j := r.FirstCol(); j < r.LastCol(); j++ {
		cells[j] = r.Col(j)
	}
	return cells
}
