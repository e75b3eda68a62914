package kv_test

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"divelog/internal/kv"
)

var errBroken = errors.New("broken pipe")

// shortWriter accepts limit writes and fails on every write after that.
type shortWriter struct {
	calls, limit int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.limit {
		return 0, errBroken
	}
	return len(p), nil
}

type depth float64

var _ = Describe("Catch", func() {
	Describe("Round Trip", func() {
		It("Should round trip fixed size values and strings", func() {
			b := new(bytes.Buffer)
			w := kv.NewCatchWrite(b)
			w.Write(int64(42))
			w.Write(depth(18.5))
			w.Write([16]byte{0: 0xab, 15: 0xcd})
			w.WriteString("dive.tlog")
			Expect(w.Error()).ToNot(HaveOccurred())

			var (
				n    int64
				d    depth
				id   [16]byte
				path string
			)
			r := kv.NewCatchRead(b)
			r.Read(&n)
			r.Read(&d)
			r.Read(&id)
			r.ReadString(&path)
			Expect(r.Error()).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(42)))
			Expect(d).To(Equal(depth(18.5)))
			Expect(id).To(Equal([16]byte{0: 0xab, 15: 0xcd}))
			Expect(path).To(Equal("dive.tlog"))
		})
		It("Should round trip an empty string", func() {
			b := new(bytes.Buffer)
			w := kv.NewCatchWrite(b)
			w.WriteString("")
			Expect(w.Error()).ToNot(HaveOccurred())
			s := "stale"
			r := kv.NewCatchRead(b)
			r.ReadString(&s)
			Expect(r.Error()).ToNot(HaveOccurred())
			Expect(s).To(Equal(""))
		})
	})
	Describe("Write Latching", func() {
		It("Should latch the first error and stop writing", func() {
			sw := &shortWriter{limit: 1}
			w := kv.NewCatchWrite(sw)
			w.Write(int64(1))
			Expect(w.Error()).ToNot(HaveOccurred())
			w.Write(int64(2))
			Expect(w.Error()).To(MatchError(errBroken))
			w.Write(int64(3))
			w.WriteString("ignored")
			Expect(w.Error()).To(MatchError(errBroken))
			Expect(sw.calls).To(Equal(2))
		})
	})
	Describe("Read Latching", func() {
		It("Should latch on a truncated value", func() {
			b := new(bytes.Buffer)
			w := kv.NewCatchWrite(b)
			w.Write(int64(7))
			w.Write(int32(9))
			Expect(w.Error()).ToNot(HaveOccurred())

			var first, second int64
			r := kv.NewCatchRead(b)
			r.Read(&first)
			Expect(r.Error()).ToNot(HaveOccurred())
			r.Read(&second)
			Expect(r.Error()).To(MatchError(io.ErrUnexpectedEOF))
			Expect(first).To(Equal(int64(7)))
			Expect(second).To(Equal(int64(0)))
		})
		It("Should report EOF on an empty reader", func() {
			var n int64
			r := kv.NewCatchRead(new(bytes.Buffer))
			r.Read(&n)
			Expect(r.Error()).To(MatchError(io.EOF))
		})
		It("Should leave later reads untouched after a short string", func() {
			b := new(bytes.Buffer)
			w := kv.NewCatchWrite(b)
			w.Write(int64(10))
			w.Write([]byte("abc"))
			Expect(w.Error()).ToNot(HaveOccurred())

			var clipped string
			r := kv.NewCatchRead(b)
			r.ReadString(&clipped)
			Expect(r.Error()).To(MatchError(io.ErrUnexpectedEOF))
			kept := "keep"
			r.ReadString(&kept)
			Expect(kept).To(Equal("keep"))
		})
	})
})
