package validate

import (
	"context"
	"fmt"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Range checks that numeric cells lie within [Min, Max]; a nil bound is
// open. Non-numeric columns are skipped.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
	Action Action
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("unknown column %q", t.Column)
	}
	var get func(i int) (float64, bool)
	switch c := col.(type) {
	case *fr.FloatColumn:
		get = c.Get
	case *fr.IntColumn:
		get = func(i int) (float64, bool) {
			v, ok := c.Get(i)
			return float64(v), ok
		}
	default:
		return f, nil
	}
	var bad int
	for i := 0; i < col.Len(); i++ {
		v, ok := get(i)
		if !ok {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			bad++
			if t.Action == ActionNull {
				col.SetNull(i)
			}
		}
	}
	if bad > 0 && t.Action == ActionError {
		return f, fmt.Errorf("column %s has %d out-of-range values", t.Column, bad)
	}
	return f, nil
}
