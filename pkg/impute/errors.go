package impute

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the engine.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindInvalidTarget: the target column is not in the table.
	KindInvalidTarget
	// KindParseFailure: the table could not be built from its source bytes.
	KindParseFailure
	// KindDegenerateClassStatistic: a class has no observed value for a numeric
	// column and the policy is DegenerateError.
	KindDegenerateClassStatistic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTarget:
		return "InvalidTarget"
	case KindParseFailure:
		return "ParseFailure"
	case KindDegenerateClassStatistic:
		return "DegenerateClassStatistic"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrInvalidTarget   = errors.New("invalid target column")
	ErrParseFailure    = errors.New("table parse failure")
	ErrDegenerateClass = errors.New("degenerate class statistic")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidTarget:
		return ErrInvalidTarget
	case KindParseFailure:
		return ErrParseFailure
	case KindDegenerateClassStatistic:
		return ErrDegenerateClass
	}
	return nil
}

// Error is the single failure type handed to callers: a kind plus a
// human-readable message.
type Error struct {
	Kind   ErrorKind
	Column string
	Class  string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidTarget:
		return fmt.Sprintf("%s %q: %v", ErrInvalidTarget, e.Column, e.Err)
	case KindDegenerateClassStatistic:
		return fmt.Sprintf("%s: column %q has no values in class %q", ErrDegenerateClass, e.Column, e.Class)
	case KindParseFailure:
		return fmt.Sprintf("%s: %v", ErrParseFailure, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// ParseFailure wraps an upstream reader error so it reaches the caller with
// KindParseFailure. A nil err stays nil.
func ParseFailure(err error) error {
	if err == nil {
		return nil
	}
	var ie *Error
	if errors.As(err, &ie) {
		return err
	}
	return &Error{Kind: KindParseFailure, Err: err}
}

// KindOf extracts the kind of an engine error, KindUnknown otherwise.
func KindOf(err error) ErrorKind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}
