package standardize

import (
	"context"
	"strings"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

type Lower struct{ Column string }

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	err := rewrite(f, t.Column, func(v string) (string, bool) { return strings.ToLower(v), true })
	return f, err
}
