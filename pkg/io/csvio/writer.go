package csvio

import (
	"encoding/csv"
	"io"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	iox "github.com/wdm0006/classimpute/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune   // default ','
	NullText  string // written for null cells, default empty
}

// Write writes f with a header row to w.
func Write(w io.Writer, f *fr.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	if err := cw.Write(f.Schema().Names()); err != nil {
		return err
	}
	cols := f.Columns()
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			s, ok := fr.FormatCell(col, r)
			if !ok {
				s = opt.NullText
			}
			row[c] = s
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAll writes a Frame to a CSV file with headers. "-" writes to stdout and
// a .gz suffix compresses the output.
func WriteAll(path string, f *fr.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
