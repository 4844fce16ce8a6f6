package parquetio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	local "github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/source"
	pw "github.com/xitongsys/parquet-go/writer"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// schemaJSON builds the JSON schema the parquet-go JSONWriter expects. Every
// column is OPTIONAL; time and any columns are stored as UTF8 text.
func schemaJSON(s fr.Schema) (string, error) {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case fr.KindFloat:
			tag += "DOUBLE"
		case fr.KindInt:
			tag += "INT64"
		case fr.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// Write encodes f as Parquet into w.
func Write(w io.Writer, f *fr.Frame) error {
	return write(writerfile.NewWriterFile(w), f)
}

// WriteAll writes a Frame to a Parquet file.
func WriteAll(path string, f *fr.Frame) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	if err := write(fw, f); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func write(pf source.ParquetFile, f *fr.Frame) error {
	sc, err := schemaJSON(f.Schema())
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(sc, pf, 4)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}
	cols := f.Columns()
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			v := fr.CellValue(c, r)
			if v == nil {
				continue
			}
			switch c.Kind() {
			case fr.KindTime:
				v = v.(time.Time).Format(fr.TimeLayout)
			case fr.KindAny:
				v, _ = fr.FormatCell(c, r)
			}
			rec[c.Name()] = v
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := writer.Write(string(b)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r+1, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		return fmt.Errorf("parquet write stop: %w", err)
	}
	return nil
}
