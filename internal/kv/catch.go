package kv

import (
	"encoding/binary"
	"io"
)

// CatchWrite sequences binary writes, latching the first error and turning
// the rest into no-ops. Values must be fixed-size; strings go through
// WriteString, which length-prefixes them.
type CatchWrite struct {
	w io.Writer
	e error
}

func NewCatchWrite(w io.Writer) *CatchWrite {
	return &CatchWrite{w: w}
}

func (c *CatchWrite) Write(data interface{}) {
	if c.e != nil {
		return
	}
	c.e = binary.Write(c.w, binary.LittleEndian, data)
}

func (c *CatchWrite) WriteString(s string) {
	c.Write(int64(len(s)))
	c.Write([]byte(s))
}

func (c *CatchWrite) Error() error {
	return c.e
}

type CatchRead struct {
	r io.Reader
	e error
}

func NewCatchRead(r io.Reader) *CatchRead {
	return &CatchRead{r: r}
}

func (c *CatchRead) Read(data interface{}) {
	if c.e != nil {
		return
	}
	c.e = binary.Read(c.r, binary.LittleEndian, data)
}

func (c *CatchRead) ReadString(s *string) {
	var n int64
	c.Read(&n)
	if c.e != nil {
		return
	}
	b := make([]byte, n)
	c.Read(b)
	*s = string(b)
}

func (c *CatchRead) Error() error {
	return c.e
}
