package impute

import (
	"context"
	"fmt"
	"math"
	"time"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Constant fills every null of Column with Value regardless of class. A string
// Value in a non-string column converts the column to strings first, which is
// how columns of an unrecognised kind receive the placeholder. Otherwise Value
// must fit the column: whole numbers for int columns, numbers for float
// columns, a bool or time.Time for those kinds.
type Constant struct {
	Column string
	Value  any
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok || col.NullCount() == 0 {
		return f, nil
	}
	if _, isText := t.Value.(string); isText && col.Kind() != fr.KindString {
		sc := fr.ToStringColumn(col)
		if err := f.ReplaceColumn(t.Column, sc); err != nil {
			return nil, err
		}
		col = sc
	}
	mismatch := func() error {
		return fmt.Errorf("column %s: cannot fill %s column with %T %v", t.Column, col.Kind(), t.Value, t.Value)
	}
	switch c := col.(type) {
	case *fr.FloatColumn:
		vv, ok := constFloat(t.Value)
		if !ok {
			return nil, mismatch()
		}
		fillNulls(c, func(i int) { c.Set(i, vv) })
	case *fr.IntColumn:
		vv, ok := constInt(t.Value)
		if !ok {
			return nil, mismatch()
		}
		fillNulls(c, func(i int) { c.Set(i, vv) })
	case *fr.StringColumn:
		vv, ok := t.Value.(string)
		if !ok {
			return nil, mismatch()
		}
		fillNulls(c, func(i int) { c.Set(i, vv) })
	case *fr.BoolColumn:
		vv, ok := t.Value.(bool)
		if !ok {
			return nil, mismatch()
		}
		fillNulls(c, func(i int) { c.Set(i, vv) })
	case *fr.TimeColumn:
		vv, ok := t.Value.(time.Time)
		if !ok {
			return nil, mismatch()
		}
		fillNulls(c, func(i int) { c.Set(i, vv) })
	case *fr.AnyColumn:
		fillNulls(c, func(i int) { c.Set(i, t.Value) })
	}
	return f, nil
}

// constFloat accepts the numeric types config decoders produce.
func constFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, !math.IsNaN(x)
	}
	return 0, false
}

// constInt accepts integers and floats holding a whole int64.
func constInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || math.Abs(x) >= math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func fillNulls(c fr.Column, set func(i int)) {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			set(i)
		}
	}
}
