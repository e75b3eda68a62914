// Package discover expands CLI path arguments into concrete log files and
// names their outputs.
package discover

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Expand resolves paths to a sorted, deduplicated list of files whose
// extension is in exts. Extensions match exactly, including case: dataflash
// logs are ".BIN", telemetry logs ".tlog". Directories contribute their
// contents only when recurse is set; paths that do not exist are skipped.
func Expand(fs afero.Fs, paths []string, recurse bool, exts ...string) ([]string, error) {
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[e] = true
	}
	files := make(map[string]bool)

	queue := append([]string(nil), paths...)
	for i := 0; i < len(queue); i++ {
		path := queue[i]
		fi, err := fs.Stat(path)
		if err != nil {
			continue
		}
		if !fi.IsDir() {
			if want[filepath.Ext(path)] {
				files[path] = true
			}
			continue
		}
		if !recurse {
			continue
		}
		children, err := afero.ReadDir(fs, path)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			queue = append(queue, filepath.Join(path, child.Name()))
		}
	}

	out := make([]string, 0, len(files))
	for f := range files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// |||||| KIND ||||||

type Kind uint8

const (
	KindUnknown Kind = iota
	KindTelemetry
	KindDataflash
	KindCSV
)

func (k Kind) String() string {
	switch k {
	case KindTelemetry:
		return "telemetry"
	case KindDataflash:
		return "dataflash"
	case KindCSV:
		return "csv"
	}
	return "unknown"
}

// KindOf classifies a log file by extension. Capitalization is exact.
func KindOf(path string) Kind {
	switch filepath.Ext(path) {
	case ".tlog":
		return KindTelemetry
	case ".BIN":
		return KindDataflash
	case ".csv":
		return KindCSV
	}
	return KindUnknown
}

// OutName places an output next to its input: <dir>/<root><suffix><ext>.
// ext defaults to ".csv".
func OutName(infile, suffix, ext string) string {
	if ext == "" {
		ext = ".csv"
	}
	dir, base := filepath.Split(infile)
	root := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, root+suffix+ext)
}
