// Package jsonlio reads and writes newline-delimited JSON objects as Frames.
package jsonlio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	iox "github.com/wdm0006/classimpute/pkg/io/ioutils"
)

// record is one decoded object with its keys in input order.
type record struct {
	keys []string
	vals map[string]any
}

// Read decodes every object in r. Columns appear in the order their keys are
// first seen; a missing key or a JSON null is a null cell. A column whose
// values disagree on type (other than ints mixed with floats) becomes KindAny.
func Read(r io.Reader) (*fr.Frame, error) {
	src, err := iox.Decompress(r)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(src)
	dec.UseNumber()

	var recs []record
	var order []string
	known := map[string]bool{}
	for n := 1; ; n++ {
		rec, err := decodeObject(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jsonl: record %d: %w", n, err)
		}
		for _, k := range rec.keys {
			if !known[k] {
				known[k] = true
				order = append(order, k)
			}
		}
		recs = append(recs, rec)
	}

	schema := fr.Schema{Columns: make([]fr.ColumnSchema, len(order))}
	for i, k := range order {
		schema.Columns[i] = fr.ColumnSchema{Name: k, Type: inferKind(recs, k), Nullable: true}
	}
	f := fr.NewFrame(schema)
	for _, rec := range recs {
		f.AppendNullRow()
		row := f.Rows() - 1
		for _, cs := range schema.Columns {
			v, ok := rec.vals[cs.Name]
			if !ok || v == nil {
				continue
			}
			if err := f.SetCell(row, cs.Name, convert(cs.Type, v)); err != nil {
				return nil, fmt.Errorf("jsonl: record %d: %w", row+1, err)
			}
		}
	}
	return f, nil
}

// ReadFile is Read over a path; "-" reads stdin.
func ReadFile(path string) (*fr.Frame, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Read(rc)
}

func decodeObject(dec *json.Decoder) (record, error) {
	tok, err := dec.Token()
	if err != nil {
		return record{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return record{}, fmt.Errorf("expected object, got %v", tok)
	}
	rec := record{vals: map[string]any{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return record{}, err
		}
		key := kt.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return record{}, err
		}
		if _, dup := rec.vals[key]; !dup {
			rec.keys = append(rec.keys, key)
		}
		rec.vals[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return record{}, err
	}
	return rec, nil
}

// isIntegral reports whether n is written as an integer that fits int64.
func isIntegral(n json.Number) bool {
	if strings.ContainsAny(n.String(), ".eE") {
		return false
	}
	_, err := n.Int64()
	return err == nil
}

func inferKind(recs []record, key string) fr.Kind {
	kind := fr.KindInvalid
	for _, rec := range recs {
		v, ok := rec.vals[key]
		if !ok || v == nil {
			continue
		}
		var k fr.Kind
		switch t := v.(type) {
		case json.Number:
			k = fr.KindFloat
			if isIntegral(t) {
				k = fr.KindInt
			}
		case bool:
			k = fr.KindBool
		case string:
			k = fr.KindString
		default:
			return fr.KindAny
		}
		switch {
		case kind == fr.KindInvalid || kind == k:
			kind = k
		case kind.Numeric() && k.Numeric():
			kind = fr.KindFloat
		default:
			return fr.KindAny
		}
	}
	if kind == fr.KindInvalid {
		return fr.KindString
	}
	return kind
}

func convert(k fr.Kind, v any) any {
	n, isNum := v.(json.Number)
	switch k {
	case fr.KindInt:
		x, _ := n.Int64()
		return x
	case fr.KindFloat:
		x, _ := n.Float64()
		return x
	case fr.KindAny:
		if isNum {
			if isIntegral(n) {
				x, _ := n.Int64()
				return x
			}
			x, _ := n.Float64()
			return x
		}
	}
	return v
}
