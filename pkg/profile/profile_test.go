package profile

import (
	"bytes"
	"math"
	"strings"
	"testing"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

func sample(t *testing.T) *fr.Frame {
	t.Helper()
	n := fr.NewIntColumn("n", 4)
	n.Set(0, 2)
	n.Set(1, 4)
	n.SetNull(2)
	n.Set(3, 6)
	s := fr.NewStringColumn("s", 4)
	for i, v := range []string{"b", "a", "a", "b"} {
		s.Set(i, v)
	}
	b := fr.NewBoolColumn("b", 4)
	b.Set(0, true)
	b.Set(1, false)
	b.Set(2, true)
	b.SetNull(3)
	f, err := fr.FromColumns(n, s, b)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestOf(t *testing.T) {
	p := Of(sample(t), 1)
	if p.Rows != 4 || len(p.Columns) != 3 {
		t.Fatalf("unexpected profile %+v", p)
	}
	num := p.Columns[0].Num
	if num.Count != 3 || num.Nulls != 1 || num.Min != 2 || num.Max != 6 || num.Mean != 4 {
		t.Fatalf("num stats %+v", num)
	}
	if math.Abs(num.StdDev-2) > 1e-12 {
		t.Fatalf("stddev = %v, want 2", num.StdDev)
	}
	text := p.Columns[1].Text
	if text.Distinct != 2 || len(text.Top) != 1 || text.Top[0].Value != "b" {
		t.Fatalf("tie should keep first seen value, got %+v", text.Top)
	}
	bs := p.Columns[2].Bool
	if bs.True != 2 || bs.False != 1 || bs.Nulls != 1 || bs.Count != 3 {
		t.Fatalf("bool stats %+v", bs)
	}
}

func TestOfAllNullNumeric(t *testing.T) {
	c := fr.NewFloatColumn("x", 2)
	c.SetNull(0)
	c.SetNull(1)
	f, err := fr.FromColumns(c)
	if err != nil {
		t.Fatal(err)
	}
	num := Of(f, 0).Columns[0].Num
	if num.Count != 0 || num.Nulls != 2 {
		t.Fatalf("num stats %+v", num)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Of(sample(t), 2).WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Profile (4 rows)", "- n (int): count=3 nulls=1", "\"b\": 2", "true=2 false=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}
