package standardize

import (
	"context"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// MapValues replaces whole cell values, e.g. to merge spellings of one class
// ("M", "male") before the per-class statistics are computed.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	err := rewrite(f, t.Column, func(v string) (string, bool) {
		if nv, ok := t.Map[v]; ok {
			return nv, true
		}
		return v, true
	})
	return f, err
}
