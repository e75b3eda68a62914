package kv

import (
	"github.com/cockroachdb/pebble"
)

// PebbleEngine implements Engine and wraps a Pebble DB instance.
type PebbleEngine struct {
	DB *pebble.DB
}

// Get implements the Engine interface. The returned value is copied out of
// pebble's block cache before the closer is released.
func (pe PebbleEngine) Get(key Key) (Value, error) {
	v, c, err := pe.DB.Get(key)
	if err != nil {
		return nil, err
	}
	out := append(Value(nil), v...)
	return out, c.Close()
}

// Set implements the Engine interface.
func (pe PebbleEngine) Set(key Key, value Value) error {
	return pe.DB.Set(key, value, pebble.NoSync)
}

// Delete implements the Engine interface.
func (pe PebbleEngine) Delete(key Key) error {
	return pe.DB.Delete(key, pebble.NoSync)
}

// Scan implements the Engine interface.
func (pe PebbleEngine) Scan(p Prefix, visit func(Key, Value) error) error {
	iter := pe.DB.NewIter(&pebble.IterOptions{
		LowerBound: []byte{byte(p)},
		UpperBound: upperBound(p),
	})
	for iter.First(); iter.Valid(); iter.Next() {
		key := append(Key(nil), iter.Key()[1:]...)
		value := append(Value(nil), iter.Value()...)
		if err := visit(key, value); err != nil {
			_ = iter.Close()
			return err
		}
	}
	return iter.Close()
}

func (pe PebbleEngine) Close() error {
	return pe.DB.Close()
}
