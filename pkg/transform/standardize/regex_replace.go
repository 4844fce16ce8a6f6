package standardize

import (
	"context"
	"regexp"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

type RegexReplace struct {
	Column  string
	Pattern string
	Replace string
	re      *regexp.Regexp
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return f, err
		}
		t.re = re
	}
	err := rewrite(f, t.Column, func(v string) (string, bool) { return t.re.ReplaceAllString(v, t.Replace), true })
	return f, err
}
