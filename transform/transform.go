// Package transform provides the per-type record strategies injected into an
// accumulator: field renames and unit conversions, derived fields, row
// filters, and type retags, plus canned sets for the common telemetry and
// dataflash log types.
package transform

import (
	"fmt"
	"math"

	"divelog"
)

// edit returns a record whose fields are safe to mutate.
func edit(rec divelog.Record) divelog.Record {
	rec.Fields = rec.Fields.Copy()
	return rec
}

// Chain applies transforms in order. A drop short-circuits the chain.
func Chain(ts ...divelog.Transform) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		for _, t := range ts {
			var keep bool
			if rec, keep = t.Apply(rec); !keep {
				return rec, false
			}
		}
		return rec, true
	})
}

// Rename moves a field to a new key, placing it at the end of the field
// order. Records without the field pass through unchanged.
func Rename(from, to string) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		v, ok := rec.Fields.Get(from)
		if !ok {
			return rec, true
		}
		rec = edit(rec)
		rec.Fields.Delete(from)
		rec.Fields.Put(to, v)
		return rec, true
	})
}

// Scale derives to = from * factor for numeric fields, keeping the original.
func Scale(from, to string, factor float64) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		v, ok := rec.Fields.Get(from)
		if !ok {
			return rec, true
		}
		n, ok := v.Num()
		if !ok {
			return rec, true
		}
		rec = edit(rec)
		rec.Fields.Put(to, divelog.FloatValue(n*factor))
		return rec, true
	})
}

// Degrees derives a degree field from a radian field.
func Degrees(from, to string) divelog.Transform {
	return Scale(from, to, 180.0/math.Pi)
}

// Derive computes a new field from the whole record. fn returning false
// leaves the record unchanged.
func Derive(field string, fn func(divelog.Record) (divelog.Value, bool)) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		v, ok := fn(rec)
		if !ok {
			return rec, true
		}
		rec = edit(rec)
		rec.Fields.Put(field, v)
		return rec, true
	})
}

// DropIf drops records matching the predicate.
func DropIf(pred func(divelog.Record) bool) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		return rec, !pred(rec)
	})
}

// Retag rewrites the record's type tag, moving it to a different table.
func Retag(fn func(divelog.Record) string) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		return rec.WithType(fn(rec)), true
	})
}

// SplitBy retags each record to "TYPE_label<v>" where v is the value of the
// named field, so that each value lands in its own table. Records without the
// field keep their tag.
func SplitBy(field, label string) divelog.Transform {
	return Retag(func(rec divelog.Record) string {
		v, ok := rec.Fields.Get(field)
		if !ok {
			return rec.Type
		}
		return fmt.Sprintf("%s_%s%s", rec.Type, label, v.String())
	})
}

// numField reads a numeric field, false when absent or non-numeric.
func numField(rec divelog.Record, key string) (float64, bool) {
	v, ok := rec.Fields.Get(key)
	if !ok {
		return 0, false
	}
	return v.Num()
}
