package sheetio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/gridcalc/sheet"
)

// ErrUnsupportedFormat indicates a file extension other than .csv or .xlsx.
var ErrUnsupportedFormat = errors.New("sheetio: unsupported file format")

// LoadFile reads path as CSV or XLSX depending on its extension. XLSX
// files are read from their active worksheet.
func LoadFile(path string, opts ...sheet.Option) (*sheet.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if ext == ".csv" {
		return ReadCSV(f, opts...)
	}

	return ReadXLSX(f, "", opts...)
}

// SaveFile writes s to path as CSV or XLSX depending on its extension.
func SaveFile(path string, s *sheet.Sheet) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if ext == ".csv" {
		return WriteCSV(f, s)
	}

	return WriteXLSX(f, s, "")
}
