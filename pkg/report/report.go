// Package report renders the missing-value report and the imputation value
// map of an impute.Result as text tables or JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/wdm0006/classimpute/pkg/impute"
)

const (
	noMissing = "no missing values"
	noValue   = "no value"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

// WriteMissingText prints one row per column with nulls, or a single line
// when there are none.
func WriteMissingText(w io.Writer, r impute.MissingReport) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, noMissing)
		return err
	}
	t := newTable(w, "Column", "Missing Count", "Missing %")
	t.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, mc := range r {
		t.Append([]string{mc.Column, strconv.Itoa(mc.Count), strconv.FormatFloat(mc.Percent, 'f', 2, 64)})
	}
	t.Render()
	return nil
}

// WriteValuesText prints the value substituted for every class of every
// imputed column.
func WriteValuesText(w io.Writer, m impute.ValueMap) error {
	if m.Empty() {
		_, err := fmt.Fprintln(w, "no values imputed")
		return err
	}
	t := newTable(w, "Column", "Strategy", "Class", "Value")
	t.SetAutoMergeCellsByColumnIndex([]int{0, 1})
	for _, cv := range m {
		for _, v := range cv.Values {
			t.Append([]string{cv.Column, cv.Strategy, v.Class, FormatValue(v)})
		}
	}
	t.Render()
	return nil
}

// WriteText prints both sections of res.
func WriteText(w io.Writer, res *impute.Result) error {
	if _, err := fmt.Fprintln(w, "Missing values:"); err != nil {
		return err
	}
	if err := WriteMissingText(w, res.Missing); err != nil {
		return err
	}
	if res.Missing.Empty() {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nImputation values:"); err != nil {
		return err
	}
	if err := WriteValuesText(w, res.Values); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nfilled %d cells, %d left null\n", res.Filled, res.Unfilled)
	return err
}

// FormatValue renders a class value the way it is written into the table.
func FormatValue(v impute.ClassValue) string {
	if !v.Valid {
		return noValue
	}
	switch x := v.Value.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

type MissingEntry struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Document is the JSON form of a run.
type Document struct {
	Rows             int            `json:"rows"`
	Missing          []MissingEntry `json:"missing"`
	ImputationValues Values         `json:"imputation_values"`
	Filled           int            `json:"filled"`
	Unfilled         int            `json:"unfilled"`
}

// Values marshals as {column: {class: value}} keeping column and class order.
// Invalid entries are null. The null-target class is dropped when a real
// target value has the same text, so keys stay unique.
type Values impute.ValueMap

func (v Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cv := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, cv.Column); err != nil {
			return nil, err
		}
		named := make(map[string]bool, len(cv.Values))
		for _, cls := range cv.Values {
			if !cls.NullTarget {
				named[cls.Class] = true
			}
		}
		buf.WriteByte('{')
		first := true
		for _, cls := range cv.Values {
			if cls.NullTarget && named[cls.Class] {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeKey(&buf, cls.Class); err != nil {
				return nil, err
			}
			var val any
			if cls.Valid {
				val = cls.Value
			}
			b, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) error {
	b, err := json.Marshal(k)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func NewDocument(res *impute.Result) Document {
	doc := Document{
		Missing:          MissingEntries(res.Missing),
		ImputationValues: Values(res.Values),
		Filled:           res.Filled,
		Unfilled:         res.Unfilled,
	}
	if res.Frame != nil {
		doc.Rows = res.Frame.Rows()
	}
	return doc
}

// MissingEntries converts the report for JSON output; never nil.
func MissingEntries(r impute.MissingReport) []MissingEntry {
	out := make([]MissingEntry, 0, len(r))
	for _, mc := range r {
		out = append(out, MissingEntry{Column: mc.Column, Count: mc.Count, Percent: mc.Percent})
	}
	return out
}

// WriteJSON writes the indented document for res.
func WriteJSON(w io.Writer, res *impute.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res))
}
