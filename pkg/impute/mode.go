package impute

import (
	"context"
	"fmt"
	"strconv"
	"time"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// DefaultPlaceholder fills cells for which no statistic exists.
const DefaultPlaceholder = "Unknown"

// Mode fills nulls with the most frequent observed value of each class of By.
// Ties go to the value seen first in row order. A class with no observed
// value gets Placeholder (DefaultPlaceholder when empty), which turns a
// non-string column into a string column.
type Mode struct {
	Column      string
	By          string
	Placeholder string
}

func (t *Mode) Name() string { return "impute_mode" }

func (t *Mode) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	switch col.Kind() {
	case fr.KindString, fr.KindBool, fr.KindInt, fr.KindFloat:
	default:
		return f, nil
	}
	idx, err := groupRows(f, t.By)
	if err != nil {
		return nil, err
	}
	ph := t.Placeholder
	if ph == "" {
		ph = DefaultPlaceholder
	}
	if _, _, err := fillCategorical(f, t.Column, idx, classModes(col, idx, ph)); err != nil {
		return nil, err
	}
	return f, nil
}

// tally counts values and remembers the order they were first seen in.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally { return &tally{counts: make(map[string]int)} }

func (t *tally) add(k string) {
	if _, ok := t.counts[k]; !ok {
		t.order = append(t.order, k)
	}
	t.counts[k]++
}

// mode returns the highest count; only a strictly greater count displaces an
// earlier value, so ties resolve to first-seen.
func (t *tally) mode() (string, bool) {
	best, bestc := "", 0
	for _, k := range t.order {
		if c := t.counts[k]; c > bestc {
			best, bestc = k, c
		}
	}
	return best, bestc > 0
}

// classModes computes each class's mode as the text form of the value.
func classModes(c fr.Column, idx *classIndex, placeholder string) []ClassValue {
	out := make([]ClassValue, idx.len())
	for p, key := range idx.keys {
		t := newTally()
		for _, r := range idx.rows[p] {
			if s, ok := fr.FormatCell(c, r); ok {
				t.add(s)
			}
		}
		m, ok := t.mode()
		if !ok {
			out[p] = ClassValue{Class: key, NullTarget: p == idx.null, Value: placeholder, Valid: true, Fallback: true}
			continue
		}
		out[p] = ClassValue{Class: key, NullTarget: p == idx.null, Value: m, Valid: true}
	}
	return out
}

// fillCategorical writes each class's mode into that class's null cells. When a
// placeholder is needed in a non-string column, the column is first converted
// to strings. The returned values carry the type actually stored.
func fillCategorical(f *fr.Frame, name string, idx *classIndex, vals []ClassValue) ([]ClassValue, int, error) {
	col, _ := f.ColumnByName(name)
	if col.Kind() != fr.KindString && hasFallback(vals) {
		col = fr.ToStringColumn(col)
		if err := f.ReplaceColumn(name, col); err != nil {
			return nil, 0, err
		}
	}
	filled := 0
	for r := 0; r < col.Len(); r++ {
		if !col.IsNull(r) {
			continue
		}
		cv := vals[idx.ofRow[r]]
		if err := setFromText(col, r, cv.Value.(string)); err != nil {
			return nil, filled, fmt.Errorf("column %s: %w", name, err)
		}
		filled++
	}
	typed := make([]ClassValue, len(vals))
	for i, cv := range vals {
		typed[i] = cv
		if v, err := parseText(col.Kind(), cv.Value.(string)); err == nil {
			typed[i].Value = v
		}
	}
	return typed, filled, nil
}

func hasFallback(vals []ClassValue) bool {
	for _, cv := range vals {
		if cv.Fallback {
			return true
		}
	}
	return false
}

func parseText(k fr.Kind, s string) (any, error) {
	switch k {
	case fr.KindBool:
		return strconv.ParseBool(s)
	case fr.KindInt:
		return strconv.ParseInt(s, 10, 64)
	case fr.KindFloat:
		return strconv.ParseFloat(s, 64)
	case fr.KindTime:
		return time.Parse(fr.TimeLayout, s)
	default:
		return s, nil
	}
}

func setFromText(c fr.Column, r int, s string) error {
	v, err := parseText(c.Kind(), s)
	if err != nil {
		return err
	}
	switch col := c.(type) {
	case *fr.StringColumn:
		col.Set(r, v.(string))
	case *fr.BoolColumn:
		col.Set(r, v.(bool))
	case *fr.IntColumn:
		col.Set(r, v.(int64))
	case *fr.FloatColumn:
		col.Set(r, v.(float64))
	case *fr.TimeColumn:
		col.Set(r, v.(time.Time))
	default:
		return fmt.Errorf("cannot fill %s column", c.Kind())
	}
	return nil
}
