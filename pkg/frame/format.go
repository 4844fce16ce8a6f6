package frame

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimeLayout is the layout used whenever a time cell is rendered as text.
const TimeLayout = time.RFC3339

// FormatCell renders cell i of c as text. The second result is false for a
// null cell.
func FormatCell(c Column, i int) (string, bool) {
	if c.IsNull(i) {
		return "", false
	}
	switch col := c.(type) {
	case *BoolColumn:
		v, _ := col.Get(i)
		return strconv.FormatBool(v), true
	case *IntColumn:
		v, _ := col.Get(i)
		return strconv.FormatInt(v, 10), true
	case *FloatColumn:
		v, _ := col.Get(i)
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case *StringColumn:
		v, _ := col.Get(i)
		return v, true
	case *TimeColumn:
		v, _ := col.Get(i)
		return v.Format(TimeLayout), true
	case *AnyColumn:
		v, _ := col.Get(i)
		return formatAny(v), true
	default:
		return "", false
	}
}

func formatAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// CellValue returns the Go value stored in cell i, or nil for a null cell.
func CellValue(c Column, i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		v, _ := col.Get(i)
		return v
	case *IntColumn:
		v, _ := col.Get(i)
		return v
	case *FloatColumn:
		v, _ := col.Get(i)
		return v
	case *StringColumn:
		v, _ := col.Get(i)
		return v
	case *TimeColumn:
		v, _ := col.Get(i)
		return v
	case *AnyColumn:
		v, _ := col.Get(i)
		return v
	}
	return nil
}

// ToStringColumn renders every non-null cell of c as text, keeping nulls.
func ToStringColumn(c Column) *StringColumn {
	if sc, ok := c.(*StringColumn); ok {
		return sc.Clone().(*StringColumn)
	}
	out := NewStringColumn(c.Name(), c.Len())
	for i := 0; i < c.Len(); i++ {
		if s, ok := FormatCell(c, i); ok {
			out.Set(i, s)
		} else {
			out.SetNull(i)
		}
	}
	return out
}
