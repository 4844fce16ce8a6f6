// Package standardize cleans text columns before imputation: whitespace,
// case, pattern rewrites, value maps and sentinel values that really mean
// "missing".
package standardize

import (
	"fmt"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// rewrite applies fn to every non-null cell of a string column. fn returning
// false nulls the cell. Columns of other kinds are left alone.
func rewrite(f *fr.Frame, column string, fn func(string) (string, bool)) error {
	col, ok := f.ColumnByName(column)
	if !ok {
		return fmt.Errorf("unknown column %q", column)
	}
	c, ok := col.(*fr.StringColumn)
	if !ok {
		return nil
	}
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if nv, keep := fn(v); keep {
			c.Set(i, nv)
		} else {
			c.SetNull(i)
		}
	}
	return nil
}
