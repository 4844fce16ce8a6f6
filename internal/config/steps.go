package config

import (
	"fmt"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	imp "github.com/wdm0006/classimpute/pkg/impute"
	outl "github.com/wdm0006/classimpute/pkg/transform/outliers"
	std "github.com/wdm0006/classimpute/pkg/transform/standardize"
	val "github.com/wdm0006/classimpute/pkg/transform/validate"
)

// Step is one pipeline entry keyed by step name, e.g.
//
//	{"trim": {"column": "Name"}}
type Step map[string]StepArgs

// StepArgs is the union of the arguments every step accepts.
type StepArgs struct {
	Column      string            `json:"column" yaml:"column" toml:"column"`
	By          string            `json:"by" yaml:"by" toml:"by"`
	Value       any               `json:"value" yaml:"value" toml:"value"`
	Pattern     string            `json:"pattern" yaml:"pattern" toml:"pattern"`
	Replace     string            `json:"replace" yaml:"replace" toml:"replace"`
	Map         map[string]string `json:"map" yaml:"map" toml:"map"`
	Values      []string          `json:"values" yaml:"values" toml:"values"`
	EmptyAsNull bool              `json:"empty_as_null" yaml:"empty_as_null" toml:"empty_as_null"`
	Placeholder string            `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Min         *float64          `json:"min" yaml:"min" toml:"min"`
	Max         *float64          `json:"max" yaml:"max" toml:"max"`
	// Action is error (default) or null for the validate_* steps.
	Action        string  `json:"action" yaml:"action" toml:"action"`
	LowerQuantile float64 `json:"lower_quantile" yaml:"lower_quantile" toml:"lower_quantile"`
	UpperQuantile float64 `json:"upper_quantile" yaml:"upper_quantile" toml:"upper_quantile"`
}

var stepBuilders = map[string]func(StepArgs) fr.Transform{
	"trim":  func(a StepArgs) fr.Transform { return &std.Trim{Column: a.Column, EmptyAsNull: a.EmptyAsNull} },
	"lower": func(a StepArgs) fr.Transform { return &std.Lower{Column: a.Column} },
	"regex_replace": func(a StepArgs) fr.Transform {
		return &std.RegexReplace{Column: a.Column, Pattern: a.Pattern, Replace: a.Replace}
	},
	"map_values":      func(a StepArgs) fr.Transform { return &std.MapValues{Column: a.Column, Map: a.Map} },
	"null_if":         func(a StepArgs) fr.Transform { return &std.NullIf{Column: a.Column, Values: a.Values} },
	"impute_constant": func(a StepArgs) fr.Transform { return &imp.Constant{Column: a.Column, Value: a.Value} },
	"impute_median":   func(a StepArgs) fr.Transform { return &imp.Median{Column: a.Column, By: a.By} },
	"impute_mean":     func(a StepArgs) fr.Transform { return &imp.Mean{Column: a.Column, By: a.By} },
	"impute_mode": func(a StepArgs) fr.Transform {
		return &imp.Mode{Column: a.Column, By: a.By, Placeholder: a.Placeholder}
	},
	"validate_range": func(a StepArgs) fr.Transform {
		act, _ := val.ParseAction(a.Action)
		return &val.Range{Column: a.Column, Min: a.Min, Max: a.Max, Action: act}
	},
	"validate_in": func(a StepArgs) fr.Transform {
		act, _ := val.ParseAction(a.Action)
		return val.NewInSet(a.Column, a.Values, act)
	},
	"cap_range": func(a StepArgs) fr.Transform {
		return &outl.Cap{Column: a.Column, Min: a.Min, Max: a.Max, LowerQuantile: a.LowerQuantile, UpperQuantile: a.UpperQuantile}
	},
}

// Pipeline builds the configured steps in order.
func (c *Config) Pipeline() (*fr.Pipeline, error) {
	p := fr.NewPipeline()
	for i, st := range c.Steps {
		if len(st) != 1 {
			return nil, fmt.Errorf("step %d: want exactly one step name, got %d", i+1, len(st))
		}
		for name, args := range st {
			build, ok := stepBuilders[name]
			if !ok {
				return nil, fmt.Errorf("step %d: unknown step %q", i+1, name)
			}
			if args.Column == "" {
				return nil, fmt.Errorf("step %d (%s): column is required", i+1, name)
			}
			p.Add(build(args))
		}
	}
	return p, nil
}
