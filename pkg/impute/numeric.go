package impute

import (
	"math"
	"slices"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// reducer turns a class's observed values into one statistic. ok is false
// when there is nothing to reduce.
type reducer func(vals []float64) (stat float64, ok bool)

// maxExactInt bounds the integers a float64 holds without rounding.
const maxExactInt = 1 << 53

// numericValues collects the non-null values at rows of an int or float column.
func numericValues(c fr.Column, rows []int) []float64 {
	vals := make([]float64, 0, len(rows))
	switch col := c.(type) {
	case *fr.FloatColumn:
		for _, r := range rows {
			if v, ok := col.Get(r); ok {
				vals = append(vals, v)
			}
		}
	case *fr.IntColumn:
		for _, r := range rows {
			if v, ok := col.Get(r); ok {
				vals = append(vals, float64(v))
			}
		}
	}
	return vals
}

func intValues(c *fr.IntColumn, rows []int) []int64 {
	vals := make([]int64, 0, len(rows))
	for _, r := range rows {
		if v, ok := c.Get(r); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// numericByClass computes one statistic per class. For an int column the
// value is an int64 whenever the statistic is a whole number; medians of int
// columns are taken in int64 so large values keep every digit.
func numericByClass(c fr.Column, idx *classIndex, s NumericStrategy) []ClassValue {
	out := make([]ClassValue, idx.len())
	ic, isInt := c.(*fr.IntColumn)
	for p, key := range idx.keys {
		out[p] = ClassValue{Class: key, NullTarget: p == idx.null}
		if isInt && s == StrategyMedian {
			out[p].Value, out[p].Valid = intMedian(intValues(ic, idx.rows[p]))
			continue
		}
		stat, ok := s.reducer()(numericValues(c, idx.rows[p]))
		if !ok {
			continue
		}
		out[p].Valid = true
		out[p].Value = stat
		if isInt && stat == math.Trunc(stat) && math.Abs(stat) < maxExactInt {
			out[p].Value = int64(stat)
		}
	}
	return out
}

// intMedian returns an int64 median, or a float64 when the two middle values
// have an odd sum.
func intMedian(vals []int64) (any, bool) {
	if len(vals) == 0 {
		return nil, false
	}
	s := slices.Clone(vals)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], true
	}
	a, b := s[mid-1], s[mid]
	if (a^b)&1 != 0 {
		return float64(a)/2 + float64(b)/2, true
	}
	return a/2 + b/2 + (a%2+b%2)/2, true
}

// fillNumeric writes each class's value into that class's null cells. An int
// column is widened to float first when any value it would receive is not a
// whole int64. Cells of invalid classes stay null and are counted as unfilled.
func fillNumeric(f *fr.Frame, name string, idx *classIndex, vals []ClassValue) (filled, unfilled int, err error) {
	col, _ := f.ColumnByName(name)
	if ic, ok := col.(*fr.IntColumn); ok && needsWidening(vals) {
		col = ic.Float()
		if err := f.ReplaceColumn(name, col); err != nil {
			return 0, 0, err
		}
	}
	for r := 0; r < col.Len(); r++ {
		if !col.IsNull(r) {
			continue
		}
		cv := vals[idx.ofRow[r]]
		if !cv.Valid {
			unfilled++
			continue
		}
		switch c := col.(type) {
		case *fr.FloatColumn:
			c.Set(r, asFloat(cv.Value))
		case *fr.IntColumn:
			c.Set(r, cv.Value.(int64))
		}
		filled++
	}
	return filled, unfilled, nil
}

func needsWidening(vals []ClassValue) bool {
	for _, cv := range vals {
		if _, isFloat := cv.Value.(float64); cv.Valid && isFloat {
			return true
		}
	}
	return false
}

func asFloat(v any) float64 {
	if i, ok := v.(int64); ok {
		return float64(i)
	}
	return v.(float64)
}
