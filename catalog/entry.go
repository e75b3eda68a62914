package catalog

import (
	"io"
	"sort"

	"divelog/internal/kv"
	"divelog/pk"
	"divelog/telem"
)

// Entry summarizes one scanned log file. Size and ModTime identify the file
// version; a cataloged file whose size or mtime has changed is stale and gets
// rescanned.
type Entry struct {
	Path    string
	Size    int64
	ModTime int64
	Records int64
	Range   telem.TimeRange
	Types   map[string]int64
	Run     pk.PK
}

// Fresh reports whether the entry still describes the file version on disk.
func (e Entry) Fresh(size, modTime int64) bool {
	return e.Size == size && e.ModTime == modTime
}

// Flush implements kv.FlushFill.
func (e Entry) Flush(w io.Writer) error {
	c := kv.NewCatchWrite(w)
	c.WriteString(e.Path)
	c.Write(e.Size)
	c.Write(e.ModTime)
	c.Write(e.Records)
	c.Write(e.Range.Start)
	c.Write(e.Range.End)
	c.Write(e.Run)
	c.Write(int64(len(e.Types)))
	for _, t := range sortedTypes(e.Types) {
		c.WriteString(t)
		c.Write(e.Types[t])
	}
	return c.Error()
}

// Fill implements kv.FlushFill.
func (e Entry) Fill(r io.Reader) (Entry, error) {
	c := kv.NewCatchRead(r)
	c.ReadString(&e.Path)
	c.Read(&e.Size)
	c.Read(&e.ModTime)
	c.Read(&e.Records)
	c.Read(&e.Range.Start)
	c.Read(&e.Range.End)
	c.Read(&e.Run)
	var n int64
	c.Read(&n)
	if c.Error() != nil {
		return e, c.Error()
	}
	e.Types = make(map[string]int64, n)
	for i := int64(0); i < n; i++ {
		var t string
		var count int64
		c.ReadString(&t)
		c.Read(&count)
		if c.Error() != nil {
			return e, c.Error()
		}
		e.Types[t] = count
	}
	return e, c.Error()
}

func sortedTypes(types map[string]int64) []string {
	out := make([]string, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
