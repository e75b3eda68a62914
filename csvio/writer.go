package csvio

import (
	"bufio"
	"encoding/csv"
	"strconv"

	"github.com/spf13/afero"

	"divelog"
	"divelog/telem"
)

type WriterConfig struct {
	// FS is the filesystem to write to. Defaults to the OS filesystem.
	// [OPTIONAL]
	FS afero.Fs
	// BufferSize sizes the write buffer. Defaults to 256 KB. [OPTIONAL]
	BufferSize int
}

func mergeWriterConfigDefaults(cfg WriterConfig) WriterConfig {
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256 * 1024
	}
	return cfg
}

// Writer renders tables and frames as CSV. The timestamp column comes first
// and unprefixed; null cells render empty.
type Writer struct {
	f   afero.File
	buf *bufio.Writer
	csv *csv.Writer
}

func Create(path string, cfg WriterConfig) (*Writer, error) {
	cfg = mergeWriterConfigDefaults(cfg)
	f, err := cfg.FS.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriterSize(f, cfg.BufferSize)
	return &Writer{f: f, buf: buf, csv: csv.NewWriter(buf)}, nil
}

func (w *Writer) WriteTable(t *divelog.Table) error {
	return w.WriteFrame(t.Frame())
}

func (w *Writer) WriteFrame(f *divelog.Frame) error {
	header := append([]string{"timestamp"}, f.Columns()...)
	if err := w.csv.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i := 0; i < f.Len(); i++ {
		fr := f.Row(i)
		row[0] = formatStamp(fr.Timestamp)
		for c, v := range fr.Cells {
			row[c+1] = v.String()
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *Writer) Close() error {
	w.csv.Flush()
	err := w.csv.Error()
	if ferr := w.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func formatStamp(ts telem.TimeStamp) string {
	return strconv.FormatFloat(float64(ts), 'f', -1, 64)
}
