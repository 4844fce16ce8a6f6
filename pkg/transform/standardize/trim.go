package standardize

import (
	"context"
	"strings"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Trim strips surrounding whitespace. With EmptyAsNull, cells that end up
// empty become null.
type Trim struct {
	Column      string
	EmptyAsNull bool
}

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	err := rewrite(f, t.Column, func(v string) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != "" || !t.EmptyAsNull
	})
	return f, err
}
