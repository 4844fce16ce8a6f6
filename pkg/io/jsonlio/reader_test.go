package jsonlio

import (
	"bytes"
	"strings"
	"testing"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

const sample = `{"id": 1, "class": "a", "score": 2}
{"id": 2, "class": "b", "score": 2.5, "tags": ["x"]}
{"id": 3, "class": null, "score": null, "tags": {"k": 1}, "extra": true}
`

func TestReadKeyOrderAndKinds(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(f.Schema().Names(), ","); got != "id,class,score,tags,extra" {
		t.Fatalf("columns = %s", got)
	}
	want := []fr.Kind{fr.KindInt, fr.KindString, fr.KindFloat, fr.KindAny, fr.KindBool}
	for i, cs := range f.Schema().Columns {
		if cs.Type != want[i] {
			t.Fatalf("%s kind = %s, want %s", cs.Name, cs.Type, want[i])
		}
	}
	class, _ := f.ColumnByName("class")
	if !class.IsNull(2) {
		t.Fatal("JSON null should read as null")
	}
	extra, _ := f.ColumnByName("extra")
	if extra.NullCount() != 2 {
		t.Fatalf("missing keys should be null, got %d nulls", extra.NullCount())
	}
	tags, _ := f.ColumnByName("tags")
	if s, _ := fr.FormatCell(tags, 2); s != `{"k":1}` {
		t.Fatalf("tags[2] = %s", s)
	}
}

func TestReadConflictingTypesIsAny(t *testing.T) {
	f, err := Read(strings.NewReader("{\"v\": 1}\n{\"v\": \"one\"}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[0].Type != fr.KindAny {
		t.Fatalf("kind = %s, want any", f.Schema().Columns[0].Type)
	}
}

func TestReadIntegerBeyondInt64IsFloat(t *testing.T) {
	f, err := Read(strings.NewReader("{\"v\": 100000000000000000000}\n{\"v\": 5}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[0].Type != fr.KindFloat {
		t.Fatalf("kind = %s, want float", f.Schema().Columns[0].Type)
	}
	v, _ := f.ColumnByName("v")
	if got, ok := v.(*fr.FloatColumn).Get(0); !ok || got != 1e20 {
		t.Fatalf("v[0] = %v, want 1e20", got)
	}
}

func TestReadRejectsNonObject(t *testing.T) {
	if _, err := Read(strings.NewReader("[1,2]\n")); err == nil {
		t.Fatal("expected error for array record")
	}
}

func TestWriteThenRead(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != `{"id":1,"class":"a","score":2,"tags":null,"extra":null}` {
		t.Fatalf("first line = %s", first)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(f) {
		t.Fatal("round trip changed the frame")
	}
}
