// Package impute fills missing values in a Frame with statistics computed per
// class of a target column: the median for numeric columns, the mode for
// categorical ones, and a placeholder for everything else.
package impute

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Result is everything one run produces.
type Result struct {
	// Missing is the report computed before any substitution.
	Missing MissingReport
	// Frame is the cleaned copy; the input frame is never modified.
	Frame  *fr.Frame
	Values ValueMap
	// Filled counts substituted cells, Unfilled the cells left null by
	// DegenerateLeaveNull.
	Filled   int
	Unfilled int
}

// Imputer is the class-aware imputation engine. It keeps no state between
// runs and may be shared as long as each run gets its own frame.
type Imputer struct {
	logger      *zap.Logger
	placeholder string
	policy      DegeneratePolicy
	numeric     NumericStrategy
}

func New(opts ...Option) *Imputer {
	im := &Imputer{logger: zap.NewNop(), placeholder: DefaultPlaceholder}
	for _, o := range opts {
		o(im)
	}
	if im.placeholder == "" {
		im.placeholder = DefaultPlaceholder
	}
	return im
}

type columnClass int

const (
	classNumeric columnClass = iota
	classCategorical
	classOther
)

func classify(k fr.Kind) columnClass {
	switch k {
	case fr.KindInt, fr.KindFloat:
		return classNumeric
	case fr.KindString, fr.KindBool:
		return classCategorical
	default:
		return classOther
	}
}

// DetectMissing is the read-only first stage; see the package-level function.
func (im *Imputer) DetectMissing(f *fr.Frame) MissingReport { return DetectMissing(f) }

// Run validates target, copies f, reports its missing values and fills every
// non-target column that holds nulls.
func (im *Imputer) Run(ctx context.Context, f *fr.Frame, target string) (*Result, error) {
	if !f.HasColumn(target) {
		return nil, &Error{
			Kind:   KindInvalidTarget,
			Column: target,
			Err:    fmt.Errorf("not found among columns [%s]", strings.Join(f.Schema().Names(), ", ")),
		}
	}
	work := f.Clone()
	res := &Result{Missing: DetectMissing(work), Frame: work}
	if res.Missing.Empty() {
		im.logger.Info("no missing values", zap.Int("rows", work.Rows()))
		return res, nil
	}
	idx, err := groupRows(work, target)
	if err != nil {
		return nil, err
	}
	im.logger.Debug("grouped rows by target",
		zap.String("target", target),
		zap.Int("classes", idx.len()))

	for _, name := range work.Schema().Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if name == target {
			continue
		}
		col, _ := work.ColumnByName(name)
		if col.NullCount() == 0 {
			continue
		}
		if err := im.imputeColumn(work, name, idx, res); err != nil {
			return nil, err
		}
	}
	im.logger.Info("imputation finished",
		zap.String("target", target),
		zap.Int("rows", work.Rows()),
		zap.Int("columns_imputed", len(res.Values)),
		zap.Int("cells_filled", res.Filled),
		zap.Int("cells_unfilled", res.Unfilled))
	return res, nil
}

func (im *Imputer) imputeColumn(f *fr.Frame, name string, idx *classIndex, res *Result) error {
	col, _ := f.ColumnByName(name)
	log := im.logger.With(zap.String("column", name), zap.Stringer("kind", col.Kind()))
	switch classify(col.Kind()) {
	case classNumeric:
		vals := numericByClass(col, idx, im.numeric)
		for _, cv := range vals {
			if cv.Valid {
				continue
			}
			if im.policy == DegenerateError {
				return &Error{Kind: KindDegenerateClassStatistic, Column: name, Class: cv.Class}
			}
			log.Warn("class has no observed values, cells left null", zap.String("class", cv.Class))
		}
		filled, unfilled, err := fillNumeric(f, name, idx, vals)
		if err != nil {
			return err
		}
		res.Filled += filled
		res.Unfilled += unfilled
		res.Values = append(res.Values, ColumnValues{Column: name, Strategy: im.numeric.String(), Values: vals})
		log.Debug("numeric column imputed", zap.Int("filled", filled), zap.Int("unfilled", unfilled))
	case classCategorical:
		vals, filled, err := fillCategorical(f, name, idx, classModes(col, idx, im.placeholder))
		if err != nil {
			return err
		}
		res.Filled += filled
		res.Values = append(res.Values, ColumnValues{Column: name, Strategy: "mode", Values: vals})
		log.Debug("categorical column imputed", zap.Int("filled", filled))
	default:
		n := col.NullCount()
		if _, err := (&Constant{Column: name, Value: im.placeholder}).Apply(context.Background(), f); err != nil {
			return err
		}
		res.Filled += n
		log.Debug("unrecognised kind, placeholder used", zap.Int("filled", n))
	}
	return nil
}

// ByTarget runs the engine as a pipeline step. OnResult, when set, receives
// the report and value map that the Transform signature cannot return.
type ByTarget struct {
	Target   string
	Imputer  *Imputer
	OnResult func(*Result)
}

func (t *ByTarget) Name() string { return "impute_by_target" }

func (t *ByTarget) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	im := t.Imputer
	if im == nil {
		im = New()
	}
	res, err := im.Run(ctx, f, t.Target)
	if err != nil {
		return nil, err
	}
	if t.OnResult != nil {
		t.OnResult(res)
	}
	return res.Frame, nil
}
