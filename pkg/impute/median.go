package impute

import (
	"context"
	"sort"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Median fills nulls of a numeric column with the median of the observed
// values, computed separately for each class of By. An empty By treats the
// whole column as one class.
type Median struct {
	Column string
	By     string
}

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, f *fr.Frame) (*fr.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok || !col.Kind().Numeric() {
		return f, nil
	}
	idx, err := groupRows(f, t.By)
	if err != nil {
		return nil, err
	}
	if _, _, err := fillNumeric(f, t.Column, idx, numericByClass(col, idx, StrategyMedian)); err != nil {
		return nil, err
	}
	return f, nil
}

// median sorts a copy of vals; for an even count it averages the two middle
// order statistics.
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2, true
	}
	return s[mid], true
}
