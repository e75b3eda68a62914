package divelog

// |||||| TRANSFORM ||||||

// Transform rewrites a record on its way into a table: renaming or deriving
// fields, retagging it to a different table, or dropping it entirely (keep ==
// false). Implementations must not mutate the input record's fields in place;
// they copy first. Concrete transforms live in the transform package.
type Transform interface {
	Apply(Record) (out Record, keep bool)
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(Record) (Record, bool)

func (f TransformFunc) Apply(r Record) (Record, bool) {
	return f(r)
}

// |||||| REGISTRY ||||||

// Registry dispatches records to per-type transforms by type tag. Types with
// no registered transform pass through unchanged. The zero value passes
// everything through.
type Registry struct {
	transforms map[string]Transform
}

func (reg *Registry) Register(typeTag string, t Transform) {
	if reg.transforms == nil {
		reg.transforms = make(map[string]Transform)
	}
	reg.transforms[typeTag] = t
}

func (reg Registry) Lookup(typeTag string) (Transform, bool) {
	t, ok := reg.transforms[typeTag]
	return t, ok
}

// Merge copies other's entries into reg. Entries in other win on collision.
func (reg *Registry) Merge(other Registry) {
	for tag, t := range other.transforms {
		reg.Register(tag, t)
	}
}

func (reg Registry) Apply(rec Record) (Record, bool) {
	t, ok := reg.transforms[rec.Type]
	if !ok {
		return rec, true
	}
	return t.Apply(rec)
}
