// Package kv wraps the key-value store backing the scan catalog.
package kv

import (
	"bytes"
	"io"
)

type Value []byte

type Key []byte

type Engine interface {
	Set(key Key, value Value) error
	Get(key Key) (Value, error)
	Delete(key Key) error
	// Scan visits every pair under the prefix in key order, handing the
	// visitor the key with the prefix stripped.
	Scan(p Prefix, visit func(key Key, value Value) error) error
	Close() error
}

// FlushFill is the contract for values that serialize themselves into the
// store.
type FlushFill[T any] interface {
	Flush(io.Writer) error
	Fill(io.Reader) (T, error)
}

func SetFlushed[T FlushFill[T]](e Engine, prefix Prefix, key []byte, t T) error {
	b := new(bytes.Buffer)
	if err := t.Flush(b); err != nil {
		return err
	}
	return e.Set(PrefixedKey(prefix, key), b.Bytes())
}

func GetFilled[T FlushFill[T]](e Engine, prefix Prefix, key []byte, t T) (T, error) {
	b, err := e.Get(PrefixedKey(prefix, key))
	if err != nil {
		return t, err
	}
	if t, err = t.Fill(bytes.NewBuffer(b)); err != nil {
		return t, err
	}
	return t, nil
}
