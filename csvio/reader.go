// Package csvio reads and writes the CSV form of dive logs: a header row
// naming the timestamp and field columns, one record per row.
package csvio

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"divelog"
	"divelog/telem"
)

type ReaderConfig struct {
	// Type tags every record read. Defaults to the file name root.
	// [OPTIONAL]
	Type string
	// TimestampColumn names the timestamp column. Defaults to "timestamp".
	// [OPTIONAL]
	TimestampColumn string
	// StripPrefix removes a leading "<Type>." from column names, undoing the
	// prefixing applied on the way out. [OPTIONAL]
	StripPrefix bool
	// Source stamps every record. Path defaults to the file path. [OPTIONAL]
	Source divelog.SourceID
	// FS is the filesystem the file lives on. Defaults to the OS filesystem.
	// [OPTIONAL]
	FS afero.Fs
}

func mergeReaderConfigDefaults(path string, cfg ReaderConfig) ReaderConfig {
	if cfg.Type == "" {
		base := filepath.Base(path)
		cfg.Type = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if cfg.TimestampColumn == "" {
		cfg.TimestampColumn = "timestamp"
	}
	if cfg.Source.Path == "" {
		cfg.Source.Path = path
	}
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}
	return cfg
}

// Reader decodes one CSV log into a record stream. It implements
// divelog.Source: a malformed row ends the stream, with the fault kept on
// Err for diagnostics.
type Reader struct {
	cfg  ReaderConfig
	f    afero.File
	csv  *csv.Reader
	cols []string
	ts   int
	rec  divelog.Record
	err  error
	done bool
}

func OpenReader(path string, cfg ReaderConfig) (*Reader, error) {
	cfg = mergeReaderConfigDefaults(path, cfg)
	f, err := cfg.FS.Open(path)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(f)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "[divelog.csvio] - failed to read header of %s", path)
	}
	r := &Reader{cfg: cfg, f: f, csv: cr, ts: -1}
	prefix := cfg.Type + "."
	for i, col := range header {
		if col == cfg.TimestampColumn {
			r.ts = i
		}
		if cfg.StripPrefix {
			col = strings.TrimPrefix(col, prefix)
		}
		r.cols = append(r.cols, col)
	}
	if r.ts == -1 {
		_ = f.Close()
		return nil, errors.Newf(
			"[divelog.csvio] - %s has no %s column", path, cfg.TimestampColumn,
		)
	}
	return r, nil
}

// Opener defers the open until the chain reaches the file.
func Opener(path string, cfg ReaderConfig) divelog.OpenFunc {
	return func() (divelog.Source, error) { return OpenReader(path, cfg) }
}

// Next implements divelog.Source.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	row, err := r.csv.Read()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		r.done = true
		return false
	}
	ts, err := strconv.ParseFloat(row[r.ts], 64)
	if err != nil {
		r.err = errors.Wrap(err, "[divelog.csvio] - bad timestamp")
		r.done = true
		return false
	}
	rec := divelog.NewRecord(telem.TimeStamp(ts), r.cfg.Type)
	rec.Source = r.cfg.Source
	for i, raw := range row {
		if i == r.ts || raw == "" {
			continue
		}
		rec.Fields.Put(r.cols[i], parseValue(raw))
	}
	r.rec = rec
	return true
}

// Record implements divelog.Source.
func (r *Reader) Record() divelog.Record { return r.rec }

// Err implements divelog.Source.
func (r *Reader) Err() error { return r.err }

// Close implements divelog.Source.
func (r *Reader) Close() error { return r.f.Close() }

// parseValue infers the narrowest value kind: int, then float, then bool,
// then string. Integer-looking columns like base_mode stay integers.
func parseValue(s string) divelog.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return divelog.IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return divelog.FloatValue(f)
	}
	switch s {
	case "true", "True":
		return divelog.BoolValue(true)
	case "false", "False":
		return divelog.BoolValue(false)
	}
	return divelog.StringValue(s)
}
