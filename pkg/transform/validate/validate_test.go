package validate

import (
	"context"
	"testing"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

func fptr(v float64) *float64 { return &v }

func ageFrame(t *testing.T) (*fr.Frame, *fr.IntColumn, *fr.StringColumn) {
	t.Helper()
	age := fr.NewIntColumn("age", 4)
	emb := fr.NewStringColumn("embarked", 4)
	for i, v := range []int64{22, -1, 38, 240} {
		age.Set(i, v)
	}
	for i, v := range []string{"S", "C", "X", "Q"} {
		emb.Set(i, v)
	}
	emb.SetNull(1)
	f, err := fr.FromColumns(age, emb)
	if err != nil {
		t.Fatal(err)
	}
	return f, age, emb
}

func TestRangeError(t *testing.T) {
	f, age, _ := ageFrame(t)
	_, err := (&Range{Column: "age", Min: fptr(0), Max: fptr(120)}).Apply(context.Background(), f)
	if err == nil || err.Error() != "column age has 2 out-of-range values" {
		t.Fatalf("err = %v", err)
	}
	if age.NullCount() != 0 {
		t.Fatal("error action must not touch cells")
	}
}

func TestRangeNull(t *testing.T) {
	f, age, _ := ageFrame(t)
	if _, err := (&Range{Column: "age", Min: fptr(0), Max: fptr(120), Action: ActionNull}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if !age.IsNull(1) || !age.IsNull(3) || age.NullCount() != 2 {
		t.Fatalf("expected rows 1 and 3 nulled, nulls=%d", age.NullCount())
	}
}

func TestRangeSkipsTextAndUnknown(t *testing.T) {
	f, _, _ := ageFrame(t)
	if _, err := (&Range{Column: "embarked", Max: fptr(0)}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if _, err := (&Range{Column: "nope"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected unknown column error")
	}
}

func TestInSet(t *testing.T) {
	f, _, emb := ageFrame(t)
	allowed := []string{"S", "C", "Q"}
	if _, err := NewInSet("embarked", allowed, ActionError).Apply(context.Background(), f); err == nil {
		t.Fatal("expected error for X")
	}
	if _, err := NewInSet("embarked", allowed, ActionNull).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if !emb.IsNull(2) || emb.NullCount() != 2 {
		t.Fatalf("expected X nulled, nulls=%d", emb.NullCount())
	}
	if _, err := NewInSet("age", []string{"22", "-1", "38", "240"}, ActionError).Apply(context.Background(), f); err != nil {
		t.Fatalf("numeric cells compare by text: %v", err)
	}
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{"": ActionError, "error": ActionError, " NULL ": ActionNull} {
		got, err := ParseAction(in)
		if err != nil || got != want {
			t.Fatalf("ParseAction(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAction("drop"); err == nil {
		t.Fatal("expected error")
	}
}
