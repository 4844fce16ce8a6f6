package frame

import (
	"math"
	"testing"
	"time"
)

func makeFrame(rows int) *Frame {
	s := Schema{Columns: []ColumnSchema{{Name: "a", Type: KindFloat, Nullable: true}, {Name: "b", Type: KindInt, Nullable: true}, {Name: "s", Type: KindString, Nullable: true}}}
	f := NewFrame(s)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "a", float64(i%100))
		_ = f.SetCell(i, "b", int64(i%10))
		if i%3 != 0 {
			_ = f.SetCell(i, "s", "x")
		}
	}
	return f
}

func TestCloneIsIndependent(t *testing.T) {
	f := makeFrame(6)
	c := f.Clone()
	if !f.Equal(c) {
		t.Fatal("clone differs from source")
	}
	col, _ := c.ColumnByName("s")
	col.(*StringColumn).Set(0, "changed")
	src, _ := f.ColumnByName("s")
	if !src.IsNull(0) {
		t.Fatal("mutating the clone leaked into the source")
	}
	if f.Equal(c) {
		t.Fatal("frames should differ after mutation")
	}
	if err := c.ReplaceColumn("b", col.Clone().(*StringColumn).renamed("b")); err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[1].Type != KindInt {
		t.Fatal("schema of source changed after ReplaceColumn on clone")
	}
}

func (c *StringColumn) renamed(name string) *StringColumn {
	out := c.Clone().(*StringColumn)
	out.name = name
	return out
}

func TestNullCount(t *testing.T) {
	f := makeFrame(7)
	// rows 0, 3, 6 have null s
	if got := f.NullCount(); got != 3 {
		t.Fatalf("expected 3 nulls, got %d", got)
	}
}

func TestFromColumns(t *testing.T) {
	a := NewIntColumn("a", 2)
	b := NewStringColumn("b", 3)
	if _, err := FromColumns(a, b); err == nil {
		t.Fatal("expected row count mismatch error")
	}
	if _, err := FromColumns(a, NewIntColumn("a", 2)); err == nil {
		t.Fatal("expected duplicate column error")
	}
	f, err := FromColumns(a, NewBoolColumn("c", 2))
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 2 || f.Cols() != 2 || !f.HasColumn("c") {
		t.Fatalf("unexpected shape %dx%d", f.Rows(), f.Cols())
	}
}

func TestReplaceColumnValidates(t *testing.T) {
	f := makeFrame(2)
	if err := f.ReplaceColumn("missing", NewIntColumn("missing", 2)); err == nil {
		t.Fatal("expected unknown column error")
	}
	if err := f.ReplaceColumn("b", NewIntColumn("b", 5)); err == nil {
		t.Fatal("expected length error")
	}
	col, _ := f.ColumnByName("b")
	if err := f.ReplaceColumn("b", col.(*IntColumn).Float()); err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[1].Type != KindFloat {
		t.Fatal("schema kind not updated")
	}
}

func TestFormatCell(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tc := NewTimeColumn("t", 0)
	tc.Append(ts)
	tc.AppendNull()
	ac := NewAnyColumn("any", 0)
	ac.Append(map[string]any{"k": 1.0})
	ac.Append(2.5)
	cases := []struct {
		c    Column
		i    int
		want string
		ok   bool
	}{
		{tc, 0, "2024-05-01T10:00:00Z", true},
		{tc, 1, "", false},
		{ac, 0, `{"k":1}`, true},
		{ac, 1, "2.5", true},
	}
	for _, tt := range cases {
		got, ok := FormatCell(tt.c, tt.i)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("FormatCell(%s,%d) = %q,%v want %q,%v", tt.c.Name(), tt.i, got, ok, tt.want, tt.ok)
		}
	}
	sc := ToStringColumn(tc)
	if v, ok := sc.Get(0); !ok || v != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected converted value %q", v)
	}
	if !sc.IsNull(1) {
		t.Fatal("null lost in conversion")
	}
}

func TestFloatNaNIsNull(t *testing.T) {
	c := NewFloatColumn("x", 2)
	c.Set(0, math.NaN())
	c.Append(math.NaN())
	c.Append(1.5)
	if c.NullCount() != 2 || !c.IsNull(0) || !c.IsNull(2) {
		t.Fatalf("NaN should be stored as null, nulls=%d", c.NullCount())
	}
	f := makeFrame(1)
	if err := f.SetCell(0, "a", math.NaN()); err != nil {
		t.Fatal(err)
	}
	if a, _ := f.ColumnByName("a"); !a.IsNull(0) {
		t.Fatal("SetCell with NaN should leave a null")
	}
}

func TestSetCellIntRejectsFraction(t *testing.T) {
	f := makeFrame(1)
	if err := f.SetCell(0, "b", 3.0); err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{2.5, 1e20} {
		if err := f.SetCell(0, "b", v); err == nil {
			t.Fatalf("SetCell(%v) on an int column should fail", v)
		}
	}
	b, _ := f.ColumnByName("b")
	if got, ok := b.(*IntColumn).Get(0); !ok || got != 3 {
		t.Fatalf("b[0] = %d, want 3", got)
	}
}
