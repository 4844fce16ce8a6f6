package frame

import (
	"math"
	"time"
)

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// NullCount reports how many cells hold no value.
	NullCount() int
	// Clone returns an independent deep copy.
	Clone() Column
}

// nullAppender is implemented by every concrete column so frames can grow row-wise.
type nullAppender interface {
	AppendNull()
}

func countNulls(nulls []bool) int {
	n := 0
	for _, isNull := range nulls {
		if isNull {
			n++
		}
	}
	return n
}

func cloneNulls(nulls []bool) []bool {
	return append([]bool(nil), nulls...)
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) NullCount() int         { return countNulls(c.nulls) }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Clone() Column {
	return &BoolColumn{name: c.name, data: append([]bool(nil), c.data...), nulls: cloneNulls(c.nulls)}
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) NullCount() int          { return countNulls(c.nulls) }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Clone() Column {
	return &IntColumn{name: c.name, data: append([]int64(nil), c.data...), nulls: cloneNulls(c.nulls)}
}

// Float widens the column to float64, keeping nulls in place.
func (c *IntColumn) Float() *FloatColumn {
	out := NewFloatColumn(c.name, len(c.data))
	for i, v := range c.data {
		if c.nulls[i] {
			out.SetNull(i)
			continue
		}
		out.Set(i, float64(v))
	}
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) NullCount() int            { return countNulls(c.nulls) }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }

// Set stores v; NaN is stored as null so it counts as missing everywhere.
func (c *FloatColumn) Set(i int, v float64) {
	if math.IsNaN(v) {
		c.data[i], c.nulls[i] = 0, true
		return
	}
	c.data[i] = v
	c.nulls[i] = false
}

func (c *FloatColumn) Append(v float64) {
	c.data = append(c.data, 0)
	c.nulls = append(c.nulls, false)
	c.Set(len(c.data)-1, v)
}
func (c *FloatColumn) Clone() Column {
	return &FloatColumn{name: c.name, data: append([]float64(nil), c.data...), nulls: cloneNulls(c.nulls)}
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) NullCount() int           { return countNulls(c.nulls) }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Clone() Column {
	return &StringColumn{name: c.name, data: append([]string(nil), c.data...), nulls: cloneNulls(c.nulls)}
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: make([]bool, n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) NullCount() int              { return countNulls(c.nulls) }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) Clone() Column {
	return &TimeColumn{name: c.name, data: append([]time.Time(nil), c.data...), nulls: cloneNulls(c.nulls)}
}

// AnyColumn holds values whose type could not be resolved to a single kind,
// e.g. a JSON field that is a number in one record and an object in the next.
type AnyColumn struct {
	name  string
	data  []any
	nulls []bool
}

func NewAnyColumn(name string, n int) *AnyColumn {
	return &AnyColumn{name: name, data: make([]any, n), nulls: make([]bool, n)}
}
func (c *AnyColumn) Name() string          { return c.name }
func (c *AnyColumn) Kind() Kind            { return KindAny }
func (c *AnyColumn) Len() int              { return len(c.data) }
func (c *AnyColumn) IsNull(i int) bool     { return c.nulls[i] }
func (c *AnyColumn) SetNull(i int)         { c.data[i] = nil; c.nulls[i] = true }
func (c *AnyColumn) NullCount() int        { return countNulls(c.nulls) }
func (c *AnyColumn) Get(i int) (any, bool) { return c.data[i], !c.nulls[i] }
func (c *AnyColumn) Set(i int, v any) {
	if v == nil {
		c.SetNull(i)
		return
	}
	c.data[i] = v
	c.nulls[i] = false
}
func (c *AnyColumn) AppendNull() { c.data = append(c.data, nil); c.nulls = append(c.nulls, true) }
func (c *AnyColumn) Append(v any) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, v == nil)
}

// Clone copies the slice of values; the values themselves are shared, which is
// safe because nothing in this module mutates a decoded value in place.
func (c *AnyColumn) Clone() Column {
	return &AnyColumn{name: c.name, data: append([]any(nil), c.data...), nulls: cloneNulls(c.nulls)}
}
