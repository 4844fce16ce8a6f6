package impute

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DegeneratePolicy decides what happens when a class has no observed value
// in a numeric column.
type DegeneratePolicy int

const (
	// DegenerateLeaveNull leaves the class's cells null and records the class
	// as invalid in the value map.
	DegenerateLeaveNull DegeneratePolicy = iota
	// DegenerateError aborts the run with KindDegenerateClassStatistic.
	DegenerateError
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateLeaveNull:
		return "leave_null"
	case DegenerateError:
		return "error"
	default:
		return fmt.Sprintf("DegeneratePolicy(%d)", int(p))
	}
}

// ParseDegeneratePolicy accepts "leave_null" (or "") and "error".
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leave_null":
		return DegenerateLeaveNull, nil
	case "error":
		return DegenerateError, nil
	}
	return 0, fmt.Errorf("unknown degenerate policy %q", s)
}

// NumericStrategy selects the per-class statistic for numeric columns.
type NumericStrategy int

const (
	StrategyMedian NumericStrategy = iota
	StrategyMean
)

func (s NumericStrategy) String() string {
	if s == StrategyMean {
		return "mean"
	}
	return "median"
}

func (s NumericStrategy) reducer() reducer {
	if s == StrategyMean {
		return mean
	}
	return median
}

// ParseNumericStrategy accepts "median" (or "") and "mean".
func ParseNumericStrategy(s string) (NumericStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "median":
		return StrategyMedian, nil
	case "mean":
		return StrategyMean, nil
	}
	return 0, fmt.Errorf("unknown numeric strategy %q", s)
}

type Option func(*Imputer)

func WithLogger(l *zap.Logger) Option {
	return func(im *Imputer) {
		if l != nil {
			im.logger = l
		}
	}
}

func WithPlaceholder(p string) Option {
	return func(im *Imputer) { im.placeholder = p }
}

func WithDegeneratePolicy(p DegeneratePolicy) Option {
	return func(im *Imputer) { im.policy = p }
}

func WithNumericStrategy(s NumericStrategy) Option {
	return func(im *Imputer) { im.numeric = s }
}
