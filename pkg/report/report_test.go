package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	"github.com/wdm0006/classimpute/pkg/impute"
)

func titanic(t *testing.T) *fr.Frame {
	t.Helper()
	age := fr.NewFloatColumn("Age", 4)
	age.Set(0, 20)
	age.SetNull(1)
	age.Set(2, 30)
	age.Set(3, 40)
	class := fr.NewStringColumn("Class", 4)
	for i, v := range []string{"1st", "1st", "2nd", "2nd"} {
		class.Set(i, v)
	}
	f, err := fr.FromColumns(age, class)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestTextReport(t *testing.T) {
	res, err := impute.New().Run(context.Background(), titanic(t), "Class")
	if err != nil {
		t.Fatal(err)
	}
	convey.Convey("Given a run that filled one cell", t, func() {
		var buf bytes.Buffer
		convey.So(WriteText(&buf, res), convey.ShouldBeNil)
		out := buf.String()

		convey.Convey("the missing table lists the column", func() {
			convey.So(out, convey.ShouldContainSubstring, "Missing Count")
			convey.So(out, convey.ShouldContainSubstring, "25.00")
		})
		convey.Convey("the value table lists every class", func() {
			convey.So(out, convey.ShouldContainSubstring, "1st")
			convey.So(out, convey.ShouldContainSubstring, "2nd")
			convey.So(out, convey.ShouldContainSubstring, "35")
			convey.So(out, convey.ShouldContainSubstring, "filled 1 cells, 0 left null")
		})
	})
}

func TestTextReportNoMissing(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMissingText(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "no missing values" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   impute.ClassValue
		want string
	}{
		{impute.ClassValue{Value: 28.0, Valid: true}, "28"},
		{impute.ClassValue{Value: 28.5, Valid: true}, "28.5"},
		{impute.ClassValue{Value: int64(9007199254740993), Valid: true}, "9007199254740993"},
		{impute.ClassValue{Value: "red", Valid: true}, "red"},
		{impute.ClassValue{Value: true, Valid: true}, "true"},
		{impute.ClassValue{}, "no value"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Fatalf("FormatValue(%+v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJSONDocumentKeepsOrder(t *testing.T) {
	m := impute.ValueMap{
		{Column: "Zeta", Strategy: "median", Values: []impute.ClassValue{
			{Class: "b", Value: 1.5, Valid: true},
			{Class: "a"},
		}},
		{Column: "Alpha", Strategy: "mode", Values: []impute.ClassValue{
			{Class: "b", Value: "x", Valid: true},
		}},
	}
	b, err := json.Marshal(Values(m))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Zeta":{"b":1.5,"a":null},"Alpha":{"b":"x"}}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestJSONNullTargetClassNeverDuplicatesAKey(t *testing.T) {
	m := impute.ValueMap{
		{Column: "n", Strategy: "median", Values: []impute.ClassValue{
			{Class: impute.MissingClass, Value: int64(1), Valid: true},
			{Class: impute.MissingClass, NullTarget: true, Value: int64(2), Valid: true},
		}},
		{Column: "m", Strategy: "median", Values: []impute.ClassValue{
			{Class: "a", Value: int64(3), Valid: true},
			{Class: impute.MissingClass, NullTarget: true, Value: int64(4), Valid: true},
		}},
	}
	b, err := json.Marshal(Values(m))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"n":{"<missing>":1},"m":{"a":3,"<missing>":4}}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestWriteJSON(t *testing.T) {
	res, err := impute.New().Run(context.Background(), titanic(t), "Class")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Rows             int                            `json:"rows"`
		Missing          []MissingEntry                 `json:"missing"`
		ImputationValues map[string]map[string]*float64 `json:"imputation_values"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Rows != 4 || len(doc.Missing) != 1 || doc.Missing[0].Count != 1 {
		t.Fatalf("unexpected doc %+v", doc)
	}
	if v := doc.ImputationValues["Age"]["1st"]; v == nil || *v != 20 {
		t.Fatalf("Age/1st = %v, want 20", v)
	}
}
