// Package xlsxio reads and writes Frames as Excel workbooks.
package xlsxio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	"github.com/wdm0006/classimpute/pkg/io/csvio"
)

// DefaultSheet is the sheet name used when writing.
const DefaultSheet = "Sheet1"

type ReaderOptions struct {
	// Sheet to read; empty means the first sheet of the workbook.
	Sheet string
	// NoHeader treats the first row as data.
	NoHeader   bool
	NullValues []string
}

// Read loads one sheet. Cell text goes through the same null and kind rules
// as CSV input.
func Read(r io.Reader, opt ReaderOptions) (*fr.Frame, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer func() { _ = wb.Close() }()
	return readSheet(wb, opt)
}

func ReadFile(path string, opt ReaderOptions) (*fr.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer func() { _ = wb.Close() }()
	return readSheet(wb, opt)
}

func readSheet(wb *excelize.File, opt ReaderOptions) (*fr.Frame, error) {
	sheet := opt.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", sheet, err)
	}
	f, err := csvio.FromRecords(rows, csvio.ReaderOptions{HasHeader: !opt.NoHeader, NullValues: opt.NullValues})
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", sheet, err)
	}
	return f, nil
}

// Write stores f on a single sheet, header in row 1. Numbers and booleans are
// written as typed cells, null cells are left empty.
func Write(w io.Writer, f *fr.Frame) error {
	wb, err := build(f)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	return wb.Write(w)
}

func WriteAll(path string, f *fr.Frame) error {
	wb, err := build(f)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	return wb.SaveAs(path)
}

func build(f *fr.Frame) (*excelize.File, error) {
	wb := excelize.NewFile()
	header := make([]any, f.Cols())
	for i, n := range f.Schema().Names() {
		header[i] = n
	}
	if err := wb.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		_ = wb.Close()
		return nil, err
	}
	cols := f.Columns()
	row := make([]any, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			switch col.Kind() {
			case fr.KindInt, fr.KindFloat, fr.KindBool:
				row[c] = fr.CellValue(col, r)
			default:
				if s, ok := fr.FormatCell(col, r); ok {
					row[c] = s
				} else {
					row[c] = nil
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			_ = wb.Close()
			return nil, err
		}
		if err := wb.SetSheetRow(DefaultSheet, cell, &row); err != nil {
			_ = wb.Close()
			return nil, err
		}
	}
	return wb, nil
}
