package impute

import fr "github.com/wdm0006/classimpute/pkg/frame"

// MissingColumn is one row of the missing-value report.
type MissingColumn struct {
	Column  string
	Count   int
	Percent float64
}

// MissingReport lists the columns holding at least one null, in table order.
type MissingReport []MissingColumn

func (r MissingReport) Empty() bool { return len(r) == 0 }

// Total sums the null cells over all reported columns.
func (r MissingReport) Total() int {
	n := 0
	for _, mc := range r {
		n += mc.Count
	}
	return n
}

// DetectMissing counts nulls per column. Percent is relative to the row count
// and is 0 for an empty table rather than a division by zero.
func DetectMissing(f *fr.Frame) MissingReport {
	var out MissingReport
	rows := f.Rows()
	for _, c := range f.Columns() {
		n := c.NullCount()
		if n == 0 {
			continue
		}
		out = append(out, MissingColumn{Column: c.Name(), Count: n, Percent: Percent(n, rows)})
	}
	return out
}

// Percent is 100*count/rows, defined as 0 when rows is 0.
func Percent(count, rows int) float64 {
	if rows <= 0 {
		return 0
	}
	return float64(count) / float64(rows) * 100
}
