// Package catalog maintains a pebble-backed index of scanned log files, so
// repeated alignment and info runs skip re-reading files that have not
// changed.
package catalog

import (
	"bytes"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"divelog/internal/kv"
	"divelog/pk"
)

const entryPrefix kv.Prefix = 1

type Catalog struct {
	kve    kv.Engine
	logger *zap.Logger
}

func Open(dirname string, opts ...Option) (*Catalog, error) {
	o := newOptions(dirname, opts...)
	pdb, err := pebble.Open(filepath.Join(o.dirname, "db"), &pebble.Options{FS: o.fs})
	if err != nil {
		return nil, err
	}
	return &Catalog{kve: kv.PebbleEngine{DB: pdb}, logger: o.logger}, nil
}

func (c *Catalog) Put(e Entry) error {
	if err := kv.SetFlushed(c.kve, entryPrefix, []byte(e.Path), e); err != nil {
		return errors.Wrapf(err, "[divelog.catalog] - failed to put %s", e.Path)
	}
	c.logger.Debug(
		"cataloged",
		zap.String("path", e.Path),
		zap.Int64("records", e.Records),
		zap.String("run", e.Run.Short()),
	)
	return nil
}

// Get returns the entry for a path, false when the path is not cataloged.
func (c *Catalog) Get(path string) (Entry, bool, error) {
	e, err := kv.GetFilled(c.kve, entryPrefix, []byte(path), Entry{})
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrapf(err, "[divelog.catalog] - failed to get %s", path)
	}
	return e, true, nil
}

// Each visits every entry in path order.
func (c *Catalog) Each(visit func(Entry) error) error {
	return c.kve.Scan(entryPrefix, func(_ kv.Key, value kv.Value) error {
		e, err := Entry{}.Fill(bytes.NewReader(value))
		if err != nil {
			return errors.Wrap(err, "[divelog.catalog] - corrupt entry")
		}
		return visit(e)
	})
}

// Sweep removes entries written by runs other than keep, returning the number
// removed. Entries for files that vanished between scans age out this way.
func (c *Catalog) Sweep(keep pk.PK) (int, error) {
	var stale []string
	err := c.Each(func(e Entry) error {
		if e.Run != keep {
			stale = append(stale, e.Path)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, path := range stale {
		if err := c.kve.Delete(kv.PrefixedKey(entryPrefix, []byte(path))); err != nil {
			return 0, errors.Wrapf(err, "[divelog.catalog] - failed to sweep %s", path)
		}
	}
	if len(stale) > 0 {
		c.logger.Info(
			"swept stale entries",
			zap.Int("count", len(stale)),
			zap.String("keep", keep.Short()),
		)
	}
	return len(stale), nil
}

func (c *Catalog) Close() error {
	return c.kve.Close()
}
