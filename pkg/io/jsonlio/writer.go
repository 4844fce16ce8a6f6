package jsonlio

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	iox "github.com/wdm0006/classimpute/pkg/io/ioutils"
)

// Write emits one object per row with keys in column order. Null cells are
// written as JSON null so every object carries every column.
func Write(w io.Writer, f *fr.Frame) error {
	cols := f.Columns()
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		b, err := json.Marshal(c.Name())
		if err != nil {
			return err
		}
		keys[i] = b
	}
	var line bytes.Buffer
	for r := 0; r < f.Rows(); r++ {
		line.Reset()
		line.WriteByte('{')
		for i, c := range cols {
			if i > 0 {
				line.WriteByte(',')
			}
			line.Write(keys[i])
			line.WriteByte(':')
			v := fr.CellValue(c, r)
			if t, ok := v.(time.Time); ok {
				v = t.Format(fr.TimeLayout)
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			line.Write(b)
		}
		line.WriteString("}\n")
		if _, err := w.Write(line.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes f to path; "-" is stdout and .gz compresses.
func WriteAll(path string, f *fr.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
