// Package outliers clamps extreme numeric values before imputation so they
// do not drag class statistics around.
package outliers

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Cap clamps numeric cells into [Min, Max]. LowerQuantile and UpperQuantile,
// when in (0, 1), derive a bound from the column's own non-null values and
// take precedence over the fixed one. Int bounds are rounded toward the
// inside of the range. Non-numeric columns are skipped.
type Cap struct {
	Column        string
	Min           *float64
	Max           *float64
	LowerQuantile float64
	UpperQuantile float64
}

func (t *Cap) Name() string { return "cap_range" }

func (t *Cap) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("unknown column %q", t.Column)
	}
	switch c := col.(type) {
	case *fr.FloatColumn:
		lo, hi := t.bounds(floatValues(c))
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Get(i)
			if !ok {
				continue
			}
			c.Set(i, math.Min(math.Max(v, lo), hi))
		}
	case *fr.IntColumn:
		vals := make([]float64, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				vals = append(vals, float64(v))
			}
		}
		lo, hi := t.bounds(vals)
		lo, hi = math.Ceil(lo), math.Floor(hi)
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Get(i)
			if !ok {
				continue
			}
			switch x := float64(v); {
			case x < lo:
				c.Set(i, int64(lo))
			case x > hi:
				c.Set(i, int64(hi))
			}
		}
	}
	return f, nil
}

func floatValues(c *fr.FloatColumn) []float64 {
	vals := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Get(i); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// bounds resolves the clamp interval; unset sides are infinite.
func (t *Cap) bounds(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if t.Min != nil {
		lo = *t.Min
	}
	if t.Max != nil {
		hi = *t.Max
	}
	if len(vals) == 0 {
		return lo, hi
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if t.LowerQuantile > 0 && t.LowerQuantile < 1 {
		lo = stat.Quantile(t.LowerQuantile, stat.Empirical, sorted, nil)
	}
	if t.UpperQuantile > 0 && t.UpperQuantile < 1 {
		hi = stat.Quantile(t.UpperQuantile, stat.Empirical, sorted, nil)
	}
	return lo, hi
}
