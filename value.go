package divelog

import (
	"fmt"
	"strconv"
)

// |||||| KIND ||||||

//go:generate stringer --type=ValueKind --output=valuekind_string.go
type ValueKind byte

const (
	KindNull ValueKind = iota
	KindFloat
	KindInt
	KindString
	KindBool
	KindBytes
)

// |||||| VALUE ||||||

// Value is a tagged union over the field types a record can carry. The zero
// value is Null, which is what a merged row holds for a column that has not
// appeared yet.
type Value struct {
	kind ValueKind
	f    float64
	i    int64
	s    string
	b    bool
	raw  []byte
}

func FloatValue(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

func IntValue(v int64) Value {
	return Value{kind: KindInt, i: v}
}

func StringValue(v string) Value {
	return Value{kind: KindString, s: v}
}

func BoolValue(v bool) Value {
	return Value{kind: KindBool, b: v}
}

func BytesValue(v []byte) Value {
	return Value{kind: KindBytes, raw: v}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) Float() float64 {
	return v.f
}

func (v Value) Int() int64 {
	return v.i
}

func (v Value) Str() string {
	return v.s
}

func (v Value) Bool() bool {
	return v.b
}

func (v Value) Bytes() []byte {
	return v.raw
}

// Num coerces numeric kinds to a float64. Returns false for Null, String and
// Bytes values.
func (v Value) Num() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// String renders the value for tabular output. Null renders as the empty
// string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindBytes:
		return fmt.Sprintf("%x", v.raw)
	}
	return ""
}
