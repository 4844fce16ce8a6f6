package standardize

import (
	"context"
	"fmt"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// NullIf marks cells equal to one of Values as missing so the imputer treats
// them like any other gap. It works on every column kind by comparing the
// rendered cell text, e.g. Values ["?", "-1"].
type NullIf struct {
	Column string
	Values []string
}

func (t *NullIf) Name() string { return "null_if" }

func (t *NullIf) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("unknown column %q", t.Column)
	}
	set := make(map[string]struct{}, len(t.Values))
	for _, v := range t.Values {
		set[v] = struct{}{}
	}
	for i := 0; i < col.Len(); i++ {
		s, ok := fr.FormatCell(col, i)
		if !ok {
			continue
		}
		if _, hit := set[s]; hit {
			col.SetNull(i)
		}
	}
	return f, nil
}
