package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	iox "github.com/wdm0006/classimpute/pkg/io/ioutils"
)

// DefaultNullValues are the cell texts read as missing, the same set pandas
// treats as NaN by default.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune     // 0 = sniff, default ','
	NullValues []string // nil = DefaultNullValues
	// ParseTimes enables RFC 3339 / date detection; off by default so dates
	// round-trip as the text they were read as.
	ParseTimes bool
	LazyQuotes bool
	Strict     bool // if true, error on short/long records
}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	nulls map[string]struct{}
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe,
// upload body). Gzip input is detected by its magic bytes.
func NewReaderFrom(r io.Reader, opt ReaderOptions) (*Reader, error) {
	src, err := iox.Decompress(r)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(src)
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		rr.Comma = sniffDelimiter(br)
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	rr.LazyQuotes = opt.LazyQuotes
	return newReader(rr, opt), nil
}

// Read parses a whole CSV stream into a Frame.
func Read(r io.Reader, opt ReaderOptions) (*fr.Frame, error) {
	rd, err := NewReaderFrom(r, opt)
	if err != nil {
		return nil, err
	}
	return rd.ReadFrame()
}

// ReadFile is Read over a path; "-" reads stdin and .gz files are inflated.
func ReadFile(path string, opt ReaderOptions) (*fr.Frame, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Read(rc, opt)
}

// ReadFrame consumes the remaining input, infers a kind for every column from
// all rows and returns the populated Frame.
func (r *Reader) ReadFrame() (*fr.Frame, error) {
	var raw [][]string
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		raw = append(raw, rec)
	}
	return r.build(raw)
}

// FromRecords builds a Frame from already split records, such as spreadsheet
// rows, applying the same header, null and inference rules as Read.
func FromRecords(raw [][]string, opt ReaderOptions) (*fr.Frame, error) {
	return newReader(nil, opt).build(raw)
}

func newReader(rr *csv.Reader, opt ReaderOptions) *Reader {
	nv := opt.NullValues
	if nv == nil {
		nv = DefaultNullValues
	}
	nulls := make(map[string]struct{}, len(nv))
	for _, v := range nv {
		nulls[v] = struct{}{}
	}
	return &Reader{r: rr, opt: opt, nulls: nulls}
}

func (r *Reader) build(raw [][]string) (*fr.Frame, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("csv: no data")
	}
	var names []string
	body := raw
	if r.opt.HasHeader {
		names = headerNames(raw[0])
		body = raw[1:]
	} else {
		names = make([]string, len(raw[0]))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}
	records := make([][]string, 0, len(body))
	for i, rec := range body {
		row := r.normalize(rec, len(names))
		if row == nil {
			line := i + 1
			if r.opt.HasHeader {
				line++
			}
			return nil, fmt.Errorf("csv: record %d has %d fields, want %d", line, len(rec), len(names))
		}
		records = append(records, row)
	}

	kinds := inferKinds(records, len(names), r.opt.ParseTimes)
	schema := fr.Schema{Columns: make([]fr.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = fr.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	f := fr.NewFrame(schema)
	for _, rec := range records {
		f.AppendNullRow()
		row := f.Rows() - 1
		for i, cs := range schema.Columns {
			if rec[i] == nullCell {
				continue
			}
			if err := setParsed(f, row, cs, rec[i]); err != nil {
				return nil, fmt.Errorf("csv: row %d: %w", row+1, err)
			}
		}
	}
	return f, nil
}

// nullCell marks a missing value inside normalized records. It cannot come
// out of strings.ToValidUTF8, so it never collides with real data.
const nullCell = "\xff"

// normalize maps null tokens to nullCell and pads or truncates to width. Cell
// text is kept as read, surrounding whitespace included. It returns nil when the record has the wrong width in strict mode.
func (r *Reader) normalize(rec []string, width int) []string {
	if len(rec) != width {
		if r.opt.Strict {
			return nil
		}
		if len(rec) < width {
			r.shortRecords++
		} else {
			r.longRecords++
		}
	}
	out := make([]string, width)
	for i := range out {
		if i >= len(rec) {
			out[i] = nullCell
			continue
		}
		v := strings.ToValidUTF8(rec[i], "?")
		if _, isNull := r.nulls[v]; isNull {
			out[i] = nullCell
			continue
		}
		out[i] = v
	}
	return out
}

// headerNames cleans the header row: BOM stripped, blanks named like
// "Unnamed: 3" and duplicates suffixed ".1", ".2", ...
func headerNames(rec []string) []string {
	names := make([]string, len(rec))
	used := make(map[string]bool, len(rec))
	dups := make(map[string]int)
	for i := range rec {
		n := strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		if i == 0 {
			n = strings.TrimPrefix(n, "\ufeff")
		}
		if n == "" {
			n = "Unnamed: " + strconv.Itoa(i)
		}
		base := n
		for used[n] {
			dups[base]++
			n = base + "." + strconv.Itoa(dups[base])
		}
		used[n] = true
		names[i] = n
	}
	return names
}

var (
	intRe   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRe = regexp.MustCompile(`^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?$`)
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

// inferKinds picks one kind per column from every non-null cell: all integers
// that fit int64 -> int, all numbers -> float, all true/false -> bool, all
// timestamps -> time (when enabled), anything else -> string. Surrounding
// whitespace is ignored for these checks. A column with no values is a string
// column.
func inferKinds(rows [][]string, ncol int, times bool) []fr.Kind {
	kinds := make([]fr.Kind, ncol)
	for c := 0; c < ncol; c++ {
		seen, integer, number, boolean, stamp := 0, 0, 0, 0, 0
		for _, row := range rows {
			v := row[c]
			if v == nullCell {
				continue
			}
			seen++
			v = strings.TrimSpace(v)
			switch {
			case intRe.MatchString(v):
				if _, err := strconv.ParseInt(v, 10, 64); err == nil {
					integer++
				}
				number++
			case floatRe.MatchString(v):
				number++
			case isBool(v):
				boolean++
			default:
				if times {
					if _, ok := parseTime(v); ok {
						stamp++
					}
				}
			}
		}
		switch {
		case seen == 0:
			kinds[c] = fr.KindString
		case integer == seen:
			kinds[c] = fr.KindInt
		case number == seen:
			kinds[c] = fr.KindFloat
		case boolean == seen:
			kinds[c] = fr.KindBool
		case stamp == seen:
			kinds[c] = fr.KindTime
		default:
			kinds[c] = fr.KindString
		}
	}
	return kinds
}

// setParsed stores v in the cell according to the column kind. String cells
// keep their whitespace; other kinds parse the trimmed text.
func setParsed(f *fr.Frame, row int, cs fr.ColumnSchema, v string) error {
	if cs.Type != fr.KindString {
		v = strings.TrimSpace(v)
	}
	switch cs.Type {
	case fr.KindInt:
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		return f.SetCell(row, cs.Name, x)
	case fr.KindFloat:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		return f.SetCell(row, cs.Name, x)
	case fr.KindBool:
		x, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return err
		}
		return f.SetCell(row, cs.Name, x)
	case fr.KindTime:
		t, ok := parseTime(v)
		if !ok {
			return fmt.Errorf("column %s: bad time %q", cs.Name, v)
		}
		return f.SetCell(row, cs.Name, t)
	default:
		return f.SetCell(row, cs.Name, v)
	}
}

// sniffDelimiter counts candidate delimiters in the first line of input
// without consuming it.
func sniffDelimiter(br *bufio.Reader) rune {
	sample, _ := br.Peek(4096)
	if i := strings.IndexByte(string(sample), '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', '\t', ';', '|'} {
		if n := strings.Count(string(sample), string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
