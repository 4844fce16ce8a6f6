// Package profile summarises each column of a Frame so a table can be
// compared before and after imputation.
package profile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

type NumStats struct {
	Count  int     `json:"count"`
	Nulls  int     `json:"nulls"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type TextStats struct {
	Count    int    `json:"count"`
	Nulls    int    `json:"nulls"`
	Distinct int    `json:"distinct"`
	Top      []Freq `json:"top,omitempty"`
}

type ColumnProfile struct {
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Num  *NumStats  `json:"num,omitempty"`
	Bool *BoolStats `json:"bool,omitempty"`
	Text *TextStats `json:"text,omitempty"`
}

type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Of profiles every column of f. topK bounds the frequency list of text
// columns; 0 leaves it out.
func Of(f *fr.Frame, topK int) Profile {
	p := Profile{Rows: f.Rows(), Columns: make([]ColumnProfile, 0, f.Cols())}
	for _, c := range f.Columns() {
		cp := ColumnProfile{Name: c.Name(), Kind: c.Kind().String()}
		switch c.Kind() {
		case fr.KindInt, fr.KindFloat:
			cp.Num = numStats(c)
		case fr.KindBool:
			cp.Bool = boolStats(c.(*fr.BoolColumn))
		default:
			cp.Text = textStats(c, topK)
		}
		p.Columns = append(p.Columns, cp)
	}
	return p
}

func numStats(c fr.Column) *NumStats {
	s := &NumStats{Nulls: c.NullCount()}
	xs := make([]float64, 0, c.Len()-s.Nulls)
	for i := 0; i < c.Len(); i++ {
		switch col := c.(type) {
		case *fr.IntColumn:
			if v, ok := col.Get(i); ok {
				xs = append(xs, float64(v))
			}
		case *fr.FloatColumn:
			if v, ok := col.Get(i); ok {
				xs = append(xs, v)
			}
		}
	}
	s.Count = len(xs)
	if s.Count == 0 {
		return s
	}
	s.Min, s.Max = floats.Min(xs), floats.Max(xs)
	if s.Count == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	return s
}

func boolStats(c *fr.BoolColumn) *BoolStats {
	s := &BoolStats{}
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		switch {
		case !ok:
			s.Nulls++
		case v:
			s.True++
		default:
			s.False++
		}
	}
	s.Count = s.True + s.False
	return s
}

// textStats counts distinct rendered values. Ties in the top list keep the
// order in which values first appear.
func textStats(c fr.Column, topK int) *TextStats {
	s := &TextStats{}
	counts := map[string]int{}
	var order []string
	for i := 0; i < c.Len(); i++ {
		v, ok := fr.FormatCell(c, i)
		if !ok {
			s.Nulls++
			continue
		}
		s.Count++
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	s.Distinct = len(order)
	if topK <= 0 {
		return s
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > topK {
		order = order[:topK]
	}
	for _, v := range order {
		s.Top = append(s.Top, Freq{Value: v, Count: counts[v]})
	}
	return s
}

// WriteText prints one line per column plus the top values of text columns.
func (p Profile) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile (%d rows)\n", p.Rows)
	for _, cp := range p.Columns {
		fmt.Fprintf(&b, "- %s (%s): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g stddev=%.6g\n",
				cp.Num.Count, cp.Num.Nulls, cp.Num.Min, cp.Num.Max, cp.Num.Mean, cp.Num.StdDev)
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		case cp.Text != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d distinct=%d\n", cp.Text.Count, cp.Text.Nulls, cp.Text.Distinct)
			for _, fq := range cp.Text.Top {
				fmt.Fprintf(&b, "    %q: %d\n", fq.Value, fq.Count)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
