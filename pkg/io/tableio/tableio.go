// Package tableio picks a reader or writer for a table by format name or
// file extension.
package tableio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	"github.com/wdm0006/classimpute/pkg/io/csvio"
	iox "github.com/wdm0006/classimpute/pkg/io/ioutils"
	"github.com/wdm0006/classimpute/pkg/io/jsonlio"
	"github.com/wdm0006/classimpute/pkg/io/parquetio"
	"github.com/wdm0006/classimpute/pkg/io/xlsxio"
)

type Format string

const (
	CSV     Format = "csv"
	TSV     Format = "tsv"
	JSONL   Format = "jsonl"
	Parquet Format = "parquet"
	XLSX    Format = "xlsx"
)

// ParseFormat accepts a format name as given on a command line or query
// string. "ndjson" and "json" are aliases of jsonl, "excel" of xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "txt":
		return CSV, nil
	case "tsv", "tab":
		return TSV, nil
	case "jsonl", "ndjson", "json":
		return JSONL, nil
	case "parquet", "pq":
		return Parquet, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// DetectFormat infers the format from the extension, ignoring a trailing .gz.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(iox.TrimGzipExt(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %q; set it explicitly", path)
	}
	return ParseFormat(ext)
}

type Options struct {
	// Format overrides detection when set.
	Format Format
	CSV    csvio.ReaderOptions
	// Sheet selects the worksheet for xlsx input.
	Sheet string
}

func (o Options) resolve(path string) (Format, error) {
	if o.Format != "" {
		return o.Format, nil
	}
	return DetectFormat(path)
}

func (o Options) csv(f Format) csvio.ReaderOptions {
	c := o.CSV
	if f == TSV && c.Delimiter == 0 {
		c.Delimiter = '\t'
	}
	return c
}

// ReadFile reads path ("-" is stdin for the streaming formats).
func ReadFile(path string, opt Options) (*fr.Frame, error) {
	format, err := opt.resolve(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case CSV, TSV:
		return csvio.ReadFile(path, opt.csv(format))
	case JSONL:
		return jsonlio.ReadFile(path)
	case Parquet:
		return parquetio.ReadFile(path)
	case XLSX:
		if path == "-" {
			rc, err := iox.OpenMaybeCompressed(path)
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return xlsxio.Read(rc, xlsxio.ReaderOptions{Sheet: opt.Sheet, NoHeader: !opt.CSV.HasHeader, NullValues: opt.CSV.NullValues})
		}
		return xlsxio.ReadFile(path, xlsxio.ReaderOptions{Sheet: opt.Sheet, NoHeader: !opt.CSV.HasHeader, NullValues: opt.CSV.NullValues})
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Read reads a stream; opt.Format must be set.
func Read(r io.Reader, opt Options) (*fr.Frame, error) {
	switch opt.Format {
	case CSV, TSV:
		return csvio.Read(r, opt.csv(opt.Format))
	case JSONL:
		return jsonlio.Read(r)
	case Parquet:
		return parquetio.Read(r)
	case XLSX:
		return xlsxio.Read(r, xlsxio.ReaderOptions{Sheet: opt.Sheet, NoHeader: !opt.CSV.HasHeader, NullValues: opt.CSV.NullValues})
	case "":
		return nil, fmt.Errorf("format is required when reading a stream")
	}
	return nil, fmt.Errorf("unsupported format %q", opt.Format)
}

// WriteFile writes f to path in format, detected from path when empty.
func WriteFile(path string, f *fr.Frame, format Format) error {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return err
		}
	}
	switch format {
	case CSV:
		return csvio.WriteAll(path, f, csvio.WriterOptions{})
	case TSV:
		return csvio.WriteAll(path, f, csvio.WriterOptions{Delimiter: '\t'})
	case JSONL:
		return jsonlio.WriteAll(path, f)
	case Parquet:
		if path == "-" {
			return writeStdout(f, format)
		}
		return parquetio.WriteAll(path, f)
	case XLSX:
		if path == "-" {
			return writeStdout(f, format)
		}
		return xlsxio.WriteAll(path, f)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func writeStdout(f *fr.Frame, format Format) error {
	out, err := iox.CreateMaybeCompressed("-")
	if err != nil {
		return err
	}
	if err := Write(out, f, format); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write encodes f to w.
func Write(w io.Writer, f *fr.Frame, format Format) error {
	switch format {
	case CSV, "":
		return csvio.Write(w, f, csvio.WriterOptions{})
	case TSV:
		return csvio.Write(w, f, csvio.WriterOptions{Delimiter: '\t'})
	case JSONL:
		return jsonlio.Write(w, f)
	case Parquet:
		return parquetio.Write(w, f)
	case XLSX:
		return xlsxio.Write(w, f)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// ContentType is the media type used when serving format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case TSV:
		return "text/tab-separated-values"
	case JSONL:
		return "application/x-ndjson"
	case Parquet:
		return "application/vnd.apache.parquet"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}
