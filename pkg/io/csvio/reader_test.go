package csvio

import (
	"bytes"
	"compress/gzip"
	"path/filepath"
	"strings"
	"testing"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

func TestReadFileInfersKinds(t *testing.T) {
	f, err := ReadFile(filepath.FromSlash("testdata/passengers.csv"), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 6 || f.Cols() != 7 {
		t.Fatalf("shape = %dx%d, want 6x7", f.Rows(), f.Cols())
	}
	want := map[string]fr.Kind{
		"PassengerId": fr.KindInt,
		"Survived":    fr.KindInt,
		"Sex":         fr.KindString,
		"Age":         fr.KindInt,
		"Fare":        fr.KindFloat,
		"Embarked":    fr.KindString,
	}
	for _, cs := range f.Schema().Columns {
		if k, ok := want[cs.Name]; ok && cs.Type != k {
			t.Fatalf("%s kind = %s, want %s", cs.Name, cs.Type, k)
		}
	}
	age, _ := f.ColumnByName("Age")
	if age.NullCount() != 3 {
		t.Fatalf("Age nulls = %d, want 3 (blank and NA)", age.NullCount())
	}
	emb, _ := f.ColumnByName("Embarked")
	if !emb.IsNull(3) {
		t.Fatal("blank trailing cell should be null")
	}
}

func TestReadMixedColumnIsString(t *testing.T) {
	in := "a,b\n1,x\n2.5,3\n,\n"
	f, err := Read(strings.NewReader(in), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[0].Type != fr.KindFloat {
		t.Fatalf("a = %s, want float", f.Schema().Columns[0].Type)
	}
	if f.Schema().Columns[1].Type != fr.KindString {
		t.Fatalf("b = %s, want string", f.Schema().Columns[1].Type)
	}
	b, _ := f.ColumnByName("b")
	if v, _ := b.(*fr.StringColumn).Get(1); v != "3" {
		t.Fatalf("b[1] = %q, want \"3\"", v)
	}
}

func TestReadAllNullColumnIsString(t *testing.T) {
	f, err := Read(strings.NewReader("x,y\n1,\n2,NaN\n"), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[1].Type != fr.KindString {
		t.Fatalf("y = %s, want string", f.Schema().Columns[1].Type)
	}
	y, _ := f.ColumnByName("y")
	if y.NullCount() != 2 {
		t.Fatalf("y nulls = %d, want 2", y.NullCount())
	}
}

func TestReadCustomNullValues(t *testing.T) {
	f, err := Read(strings.NewReader("x\nNA\n-\n"), ReaderOptions{HasHeader: true, NullValues: []string{"-"}})
	if err != nil {
		t.Fatal(err)
	}
	x, _ := f.ColumnByName("x")
	if x.IsNull(0) || !x.IsNull(1) {
		t.Fatal("only \"-\" should be null when NullValues is set")
	}
}

func TestReadHeaderCleanup(t *testing.T) {
	f, err := Read(strings.NewReader("a,a,,a\n1,2,3,4\n"), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(f.Schema().Names(), "|")
	if got != "a|a.1|Unnamed: 2|a.2" {
		t.Fatalf("names = %s", got)
	}
}

func TestReadWithoutHeader(t *testing.T) {
	f, err := Read(strings.NewReader("1,true\n2,false\n"), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 2 {
		t.Fatalf("rows = %d, want 2", f.Rows())
	}
	if f.Schema().Columns[1].Name != "col_1" || f.Schema().Columns[1].Type != fr.KindBool {
		t.Fatalf("unexpected schema %+v", f.Schema().Columns[1])
	}
}

func TestReadSniffsDelimiter(t *testing.T) {
	f, err := Read(strings.NewReader("a;b;c\n1;2;3\n"), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Cols() != 3 {
		t.Fatalf("cols = %d, want 3", f.Cols())
	}
}

func TestReadRaggedRecords(t *testing.T) {
	in := "a,b\n1\n2,3,4\n"
	rd, err := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	f, err := rd.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := f.ColumnByName("b")
	if !b.IsNull(0) {
		t.Fatal("short record should pad with null")
	}
	if w := rd.Warnings(); w != "short_records=1, long_records=1" {
		t.Fatalf("warnings = %q", w)
	}

	if _, err := Read(strings.NewReader(in), ReaderOptions{HasHeader: true, Strict: true}); err == nil {
		t.Fatal("strict mode should reject ragged records")
	}
}

func TestReadTimesOptIn(t *testing.T) {
	in := "d\n2024-01-02\n2024-02-03\n"
	f, err := Read(strings.NewReader(in), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[0].Type != fr.KindString {
		t.Fatalf("dates should stay text by default, got %s", f.Schema().Columns[0].Type)
	}
	f, err = Read(strings.NewReader(in), ReaderOptions{HasHeader: true, ParseTimes: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[0].Type != fr.KindTime {
		t.Fatalf("kind = %s, want time", f.Schema().Columns[0].Type)
	}
}

func TestReadGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("a\n1\n2\n"))
	_ = zw.Close()
	f, err := Read(&buf, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 2 {
		t.Fatalf("rows = %d, want 2", f.Rows())
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader(""), ReaderOptions{HasHeader: true}); err == nil {
		t.Fatal("expected error on empty input")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	in := "name,score,ok\nann,1.5,true\nbob,,false\n"
	f, err := Read(strings.NewReader(in), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Write(&out, f, WriterOptions{}); err != nil {
		t.Fatal(err)
	}
	if out.String() != in {
		t.Fatalf("round trip:\n%s", out.String())
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "out.csv.gz")
	if err := WriteAll(p, f, WriterOptions{}); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFile(p, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(f) {
		t.Fatal("gzip file round trip changed the frame")
	}
}

func TestReadIntegerBeyondInt64IsFloat(t *testing.T) {
	f, err := Read(strings.NewReader("id,y\n99999999999999999999,a\n5,a\n"), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	id, _ := f.ColumnByName("id")
	fc, ok := id.(*fr.FloatColumn)
	if !ok {
		t.Fatalf("id kind = %s, want float", id.Kind())
	}
	if v, _ := fc.Get(0); v != 1e20 {
		t.Fatalf("id[0] = %v, want 1e20", v)
	}
	if v, _ := fc.Get(1); v != 5 {
		t.Fatalf("id[1] = %v, want 5", v)
	}
}

func TestReadKeepsCellWhitespace(t *testing.T) {
	f, err := Read(strings.NewReader("n,s\n 1 ,  Alpha \n2,   \n"), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	n, _ := f.ColumnByName("n")
	if n.Kind() != fr.KindInt {
		t.Fatalf("n kind = %s, want int", n.Kind())
	}
	if v, _ := n.(*fr.IntColumn).Get(0); v != 1 {
		t.Fatalf("n[0] = %d, want 1", v)
	}
	s, _ := f.ColumnByName("s")
	sc := s.(*fr.StringColumn)
	if v, _ := sc.Get(0); v != "  Alpha " {
		t.Fatalf("s[0] = %q, want text kept as read", v)
	}
	if v, ok := sc.Get(1); !ok || v != "   " {
		t.Fatalf("whitespace-only cell = %q (valid %v), want kept as text", v, ok)
	}
}
