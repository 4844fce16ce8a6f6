// Package parquetio reads flat Parquet files into Frames and writes Frames
// back out as Parquet.
package parquetio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Read loads a whole Parquet stream. Parquet needs random access, so the
// input is buffered in memory first.
func Read(r io.Reader) (*fr.Frame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return readAt(bytes.NewReader(b), int64(len(b)))
}

func ReadFile(path string) (*fr.Frame, error) {
	if path == "-" || path == "" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return readAt(f, st.Size())
}

func readAt(r io.ReaderAt, size int64) (*fr.Frame, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("parquet: %w", err)
	}
	paths := pf.Schema().Columns()
	schema := fr.Schema{Columns: make([]fr.ColumnSchema, len(paths))}
	for i, path := range paths {
		if len(path) != 1 {
			return nil, fmt.Errorf("parquet: nested column %q is not supported", strings.Join(path, "."))
		}
		leaf, _ := pf.Schema().Lookup(path...)
		schema.Columns[i] = fr.ColumnSchema{Name: path[0], Type: kindOf(leaf.Node.Type()), Nullable: leaf.Node.Optional()}
	}
	f := fr.NewFrame(schema)

	rd := parquet.NewReader(pf)
	defer func() { _ = rd.Close() }()
	rows := make([]parquet.Row, 256)
	for {
		n, err := rd.ReadRows(rows)
		for _, row := range rows[:n] {
			f.AppendNullRow()
			if serr := setRow(f, f.Rows()-1, schema, row); serr != nil {
				return nil, serr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquet: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

func kindOf(t parquet.Type) fr.Kind {
	switch t.Kind() {
	case parquet.Boolean:
		return fr.KindBool
	case parquet.Int32, parquet.Int64:
		return fr.KindInt
	case parquet.Float, parquet.Double:
		return fr.KindFloat
	case parquet.ByteArray:
		return fr.KindString
	default:
		return fr.KindAny
	}
}

func setRow(f *fr.Frame, row int, schema fr.Schema, values parquet.Row) error {
	for _, v := range values {
		ci := v.Column()
		if v.IsNull() || ci < 0 || ci >= len(schema.Columns) {
			continue
		}
		cs := schema.Columns[ci]
		var x any
		switch cs.Type {
		case fr.KindBool:
			x = v.Boolean()
		case fr.KindInt:
			if v.Kind() == parquet.Int32 {
				x = int64(v.Int32())
			} else {
				x = v.Int64()
			}
		case fr.KindFloat:
			if v.Kind() == parquet.Float {
				x = float64(v.Float())
			} else {
				x = v.Double()
			}
		case fr.KindString:
			x = string(v.ByteArray())
		default:
			x = v.String()
		}
		if err := f.SetCell(row, cs.Name, x); err != nil {
			return fmt.Errorf("parquet: row %d: %w", row+1, err)
		}
	}
	return nil
}
