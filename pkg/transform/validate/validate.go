// Package validate checks column values before imputation. A failing check
// either aborts the pipeline or, with ActionNull, turns the offending cells
// into missing values so the imputer refills them from their class.
package validate

import (
	"fmt"
	"strings"
)

// Action is what a check does with cells that fail it.
type Action int

const (
	ActionError Action = iota
	ActionNull
)

func (a Action) String() string {
	if a == ActionNull {
		return "null"
	}
	return "error"
}

// ParseAction accepts "error" (or empty) and "null".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return ActionError, nil
	case "null":
		return ActionNull, nil
	}
	return ActionError, fmt.Errorf("unknown validation action %q (want error|null)", s)
}
