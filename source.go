package divelog

// |||||| SOURCE ||||||

// Source is a pull iterator over records. Implementations must emit records in
// non-decreasing timestamp order; the merge does not repair ordering
// violations. Next returning false means the stream is exhausted, whether by a
// clean end of file or an upstream decode fault - the pipeline never
// distinguishes the two. Err exists for diagnostics after exhaustion.
type Source interface {
	Next() bool
	Record() Record
	Err() error
	Close() error
}

// |||||| CURSOR ||||||

// Cursor adds single-record lookahead to a Source so that consecutive
// consumers (segment windows in particular) can share one underlying stream
// and resume exactly where the previous consumer stopped.
type Cursor struct {
	src    Source
	rec    Record
	peeked bool
	done   bool
}

func NewCursor(src Source) *Cursor {
	return &Cursor{src: src}
}

// Peek loads the next record without consuming it. Returns false once the
// underlying source is exhausted.
func (c *Cursor) Peek() (Record, bool) {
	if c.peeked {
		return c.rec, true
	}
	if c.done || !c.src.Next() {
		c.done = true
		return Record{}, false
	}
	c.rec = c.src.Record()
	c.peeked = true
	return c.rec, true
}

func (c *Cursor) Next() bool {
	if c.peeked {
		c.peeked = false
		return true
	}
	if c.done || !c.src.Next() {
		c.done = true
		return false
	}
	c.rec = c.src.Record()
	return true
}

func (c *Cursor) Record() Record {
	return c.rec
}

func (c *Cursor) Err() error {
	return c.src.Err()
}

func (c *Cursor) Close() error {
	return c.src.Close()
}

// |||||| CHAIN ||||||

// OpenFunc lazily opens a Source. Chain uses it to keep at most one underlying
// file open at a time.
type OpenFunc func() (Source, error)

// Chain concatenates sources end to end. Exhausting one source transparently
// advances to the next; consumers see a single continuous stream.
type Chain struct {
	opens   []OpenFunc
	i       int
	current Source
	rec     Record
	err     error
	stopped bool
}

// NewChain chains already-open sources.
func NewChain(sources ...Source) *Chain {
	opens := make([]OpenFunc, len(sources))
	for i, src := range sources {
		src := src
		opens[i] = func() (Source, error) { return src, nil }
	}
	return &Chain{opens: opens}
}

// NewLazyChain chains sources that are opened on demand, in order.
func NewLazyChain(opens ...OpenFunc) *Chain {
	return &Chain{opens: opens}
}

// Next advances the stream. A source that ends with a fault is treated as
// exhausted: the error is latched and the chain moves on to the next source.
// A failed open stops the chain, since the remaining files would be silently
// skipped otherwise.
func (c *Chain) Next() bool {
	if c.stopped {
		return false
	}
	for {
		if c.current == nil {
			if c.i >= len(c.opens) {
				return false
			}
			src, err := c.opens[c.i]()
			c.i++
			if err != nil {
				if c.err == nil {
					c.err = err
				}
				c.stopped = true
				return false
			}
			c.current = src
		}
		if c.current.Next() {
			c.rec = c.current.Record()
			return true
		}
		if err := c.current.Err(); err != nil && c.err == nil {
			c.err = err
		}
		_ = c.current.Close()
		c.current = nil
	}
}

func (c *Chain) Record() Record {
	return c.rec
}

// Err returns the first error any underlying source reported. Exhaustion with
// a non-nil Err is still exhaustion; callers use this for diagnostics only.
func (c *Chain) Err() error {
	return c.err
}

func (c *Chain) Close() error {
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	return err
}
