package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/xuri/excelize/v2"
)

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// Table formats a header and numeric rows with the given delimiter.
func Table(delim string, header []string, rows ...[]float64) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, delim))
	b.WriteByte('\n')
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		b.WriteString(strings.Join(cells, delim))
		b.WriteByte('\n')
	}
	return b.String()
}

// Sheet is one worksheet of an XLSX fixture.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteXLSX writes the sheets, in order, to name inside a temporary
// directory. The first sheet replaces the default "Sheet1".
func WriteXLSX(t testing.TB, name string, sheets ...Sheet) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range sheets {
		if i == 0 {
			if sh.Name != "Sheet1" {
				if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
					t.Fatalf("rename sheet: %v", err)
				}
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			t.Fatalf("new sheet %s: %v", sh.Name, err)
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
				t.Fatalf("set row %d: %v", r, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

// NCAttr is a global attribute of a NetCDF fixture. Value must be a string
// or a float64.
type NCAttr struct {
	Name  string
	Value any
}

// NCVar is a one-dimensional double variable of a NetCDF fixture.
type NCVar struct {
	Name   string
	Values []float64
}

// WriteNetCDF writes a NetCDF file through the go-native-netcdf writer.
// All variables share the dimension "n" and must have the same length.
func WriteNetCDF(t testing.TB, name string, attrs []NCAttr, vars ...NCVar) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	w, err := cdf.OpenWriter(path)
	if err != nil {
		t.Fatalf("open netcdf writer: %v", err)
	}

	if len(attrs) > 0 {
		keys := make([]string, 0, len(attrs))
		values := make(map[string]any, len(attrs))
		for _, a := range attrs {
			keys = append(keys, a.Name)
			values[a.Name] = a.Value
		}
		am, err := util.NewOrderedMap(keys, values)
		if err != nil {
			t.Fatalf("netcdf attributes: %v", err)
		}
		if err := w.AddGlobalAttrs(am); err != nil {
			t.Fatalf("add netcdf attributes: %v", err)
		}
	}

	for _, v := range vars {
		err := w.AddVar(v.Name, api.Variable{
			Values:     v.Values,
			Dimensions: []string{"n"},
		})
		if err != nil {
			t.Fatalf("add netcdf variable %s: %v", v.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close netcdf fixture: %v", err)
	}
	return path
}
