package divelog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"divelog"
	"divelog/internal/testutil"
	"divelog/telem"
)

var _ = Describe("Window", func() {
	It("should include both segment bounds", func() {
		cursor := divelog.NewCursor(
			testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 10)...),
		)
		w := divelog.NewWindow(cursor, divelog.NewSegment(2, 4, ""))
		Expect(stampsOf(drain(w))).To(Equal(testutil.Stamps(2, 3, 4)))
	})
	It("should leave the first record past the segment on the cursor", func() {
		cursor := divelog.NewCursor(
			testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 10)...),
		)
		w := divelog.NewWindow(cursor, divelog.NewSegment(0, 3, ""))
		drain(w)
		rec, ok := cursor.Peek()
		Expect(ok).To(BeTrue())
		Expect(rec.Timestamp).To(Equal(telem.TimeStamp(4)))
	})
	It("should partition a stream across consecutive windows", func() {
		cursor := divelog.NewCursor(
			testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 10)...),
		)
		windows := divelog.Windows(cursor, []divelog.Segment{
			divelog.NewSegment(2, 4, ""),
			divelog.NewSegment(5, 7, ""),
		})
		Expect(stampsOf(drain(windows[0]))).To(Equal(testutil.Stamps(2, 3, 4)))
		Expect(stampsOf(drain(windows[1]))).To(Equal(testutil.Stamps(5, 6, 7)))
	})
	It("should yield nothing for a segment past the stream", func() {
		cursor := divelog.NewCursor(
			testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 3)...),
		)
		w := divelog.NewWindow(cursor, divelog.NewSegment(100, 200, ""))
		Expect(w.Next()).To(BeFalse())
	})
	It("should yield a single record for a point segment", func() {
		cursor := divelog.NewCursor(
			testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 10)...),
		)
		w := divelog.NewWindow(cursor, divelog.NewSegment(3, 3, ""))
		Expect(stampsOf(drain(w))).To(Equal(testutil.Stamps(3)))
	})
	It("should not close the shared cursor", func() {
		src := testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 3)...)
		w := divelog.NewWindow(divelog.NewCursor(src), divelog.NewSegment(0, 1, ""))
		Expect(w.Close()).To(Succeed())
		Expect(src.Closes).To(BeZero())
	})
})

var _ = Describe("Cursor", func() {
	It("should peek without consuming", func() {
		c := divelog.NewCursor(
			testutil.NewSliceSource(testutil.Ramp("A", 0, telem.Second, 2)...),
		)
		first, ok := c.Peek()
		Expect(ok).To(BeTrue())
		again, _ := c.Peek()
		Expect(again).To(Equal(first))
		Expect(c.Next()).To(BeTrue())
		Expect(c.Record()).To(Equal(first))
	})
	It("should latch exhaustion", func() {
		c := divelog.NewCursor(testutil.NewSliceSource())
		_, ok := c.Peek()
		Expect(ok).To(BeFalse())
		Expect(c.Next()).To(BeFalse())
	})
})
