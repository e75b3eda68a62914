package divelog

import (
	"divelog/telem"
	"fmt"
)

// |||||| SOURCE ID ||||||

// SourceID identifies the origin of a record: the file it was decoded from and
// the system/component pair that produced it. Carried for diagnostics and for
// source-split retagging; the merge itself never inspects it.
type SourceID struct {
	Path      string
	System    uint8
	Component uint8
}

func (s SourceID) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.Path, s.System, s.Component)
}

// |||||| FIELDS ||||||

type Field struct {
	Key   string
	Value Value
}

// Fields is an insertion-ordered set of key/value pairs. The zero value is
// ready to use.
type Fields struct {
	fields []Field
	index  map[string]int
}

// Put appends the pair, or replaces the value in place if the key is already
// present. Insertion order is preserved across replacement.
func (f *Fields) Put(key string, v Value) {
	if i, ok := f.index[key]; ok {
		f.fields[i].Value = v
		return
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	f.index[key] = len(f.fields)
	f.fields = append(f.fields, Field{Key: key, Value: v})
}

func (f Fields) Get(key string) (Value, bool) {
	i, ok := f.index[key]
	if !ok {
		return Value{}, false
	}
	return f.fields[i].Value, true
}

func (f Fields) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

func (f Fields) Len() int {
	return len(f.fields)
}

func (f Fields) At(i int) Field {
	return f.fields[i]
}

func (f Fields) Keys() []string {
	keys := make([]string, len(f.fields))
	for i, fld := range f.fields {
		keys[i] = fld.Key
	}
	return keys
}

// Copy returns a Fields sharing nothing with the receiver. Transforms that
// modify a record must copy first; records are shared downstream.
func (f Fields) Copy() Fields {
	c := Fields{fields: make([]Field, len(f.fields))}
	copy(c.fields, f.fields)
	if f.index != nil {
		c.index = make(map[string]int, len(f.index))
		for k, v := range f.index {
			c.index[k] = v
		}
	}
	return c
}

func (f *Fields) Delete(key string) {
	i, ok := f.index[key]
	if !ok {
		return
	}
	f.fields = append(f.fields[:i], f.fields[i+1:]...)
	delete(f.index, key)
	for j := i; j < len(f.fields); j++ {
		f.index[f.fields[j].Key] = j
	}
}

// |||||| RECORD ||||||

// Record is one decoded log message: a timestamp on the producing source's
// timeline, a type tag, and an ordered field set. Records are treated as
// immutable once produced; anything that rewrites one works on a copy.
type Record struct {
	Timestamp telem.TimeStamp
	Type      string
	Fields    Fields
	Source    SourceID
}

func NewRecord(ts telem.TimeStamp, typeTag string) Record {
	return Record{Timestamp: ts, Type: typeTag}
}

// WithTimestamp returns a copy of r on a rewritten timeline position.
func (r Record) WithTimestamp(ts telem.TimeStamp) Record {
	r.Timestamp = ts
	return r
}

// WithType returns a copy of r retagged to a different table.
func (r Record) WithType(typeTag string) Record {
	r.Type = typeTag
	return r
}

func (r Record) String() string {
	return fmt.Sprintf("%s@%v", r.Type, r.Timestamp)
}
