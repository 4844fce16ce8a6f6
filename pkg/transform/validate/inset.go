package validate

import (
	"context"
	"fmt"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// InSet checks that every non-null cell, compared by its rendered text, is
// one of Values. It applies to any column kind.
type InSet struct {
	Column string
	Values map[string]struct{}
	Action Action
}

func NewInSet(col string, vals []string, action Action) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m, Action: action}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("unknown column %q", t.Column)
	}
	var bad int
	for i := 0; i < col.Len(); i++ {
		v, ok := fr.FormatCell(col, i)
		if !ok {
			continue
		}
		if _, ok := t.Values[v]; !ok {
			bad++
			if t.Action == ActionNull {
				col.SetNull(i)
			}
		}
	}
	if bad > 0 && t.Action == ActionError {
		return f, fmt.Errorf("column %s has %d values outside allowed set", t.Column, bad)
	}
	return f, nil
}
