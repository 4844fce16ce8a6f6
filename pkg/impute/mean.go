package impute

import (
	"context"

	"gonum.org/v1/gonum/stat"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Mean is the arithmetic-mean counterpart of Median.
type Mean struct {
	Column string
	By     string
}

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok || !col.Kind().Numeric() {
		return f, nil
	}
	idx, err := groupRows(f, t.By)
	if err != nil {
		return nil, err
	}
	if _, _, err := fillNumeric(f, t.Column, idx, numericByClass(col, idx, StrategyMean)); err != nil {
		return nil, err
	}
	return f, nil
}

func mean(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}
