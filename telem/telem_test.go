package telem_test

import (
	"divelog/telem"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"time"
)

var _ = Describe("Telem", func() {
	Describe("TimeStamp", func() {
		It("Should convert a time.Time to fractional unix seconds", func() {
			t := time.Unix(1683220546, 500000000)
			Expect(float64(telem.NewTimeStamp(t))).To(BeNumerically("~", 1683220546.5, 1e-6))
		})
		It("Should round trip through Time", func() {
			ts := telem.TimeStamp(1683220546.25)
			Expect(telem.NewTimeStamp(ts.Time())).To(BeNumerically("~", ts, 1e-6))
		})
		It("Should order stamps", func() {
			Expect(telem.TimeStamp(1).Before(2)).To(BeTrue())
			Expect(telem.TimeStamp(2).After(1)).To(BeTrue())
		})
		It("Should add a span", func() {
			Expect(telem.TimeStamp(10).Add(2 * telem.Second)).To(Equal(telem.TimeStamp(12)))
		})
		It("Should subtract two stamps into a span", func() {
			Expect(telem.TimeStamp(12).Sub(10)).To(Equal(2 * telem.Second))
		})
	})

	Describe("TimeSpan", func() {
		It("Should express sub-second units", func() {
			Expect(500 * telem.Millisecond).To(Equal(telem.TimeSpan(0.5)))
			Expect(telem.Minute).To(Equal(telem.TimeSpan(60)))
		})
		It("Should convert to a duration", func() {
			Expect((250 * telem.Millisecond).Duration()).To(Equal(250 * time.Millisecond))
		})
		It("Should take the absolute value", func() {
			Expect(telem.TimeSpan(-1.5).Abs()).To(Equal(telem.TimeSpan(1.5)))
		})
	})

	Describe("TimeRange", func() {
		It("Should compute the span", func() {
			Expect(telem.NewTimeRange(10, 25).Span()).To(Equal(telem.TimeSpan(15)))
		})
		It("Should contain stamps at both ends", func() {
			tr := telem.NewTimeRange(10, 20)
			Expect(tr.ContainsStamp(10)).To(BeTrue())
			Expect(tr.ContainsStamp(20)).To(BeTrue())
			Expect(tr.ContainsStamp(20.001)).To(BeFalse())
		})
		It("Should intersect two overlapping ranges", func() {
			o := telem.NewTimeRange(10, 20).Overlap(telem.NewTimeRange(15, 30))
			Expect(o).To(Equal(telem.NewTimeRange(15, 20)))
			Expect(o.Valid()).To(BeTrue())
		})
		It("Should return an invalid range for disjoint ranges", func() {
			o := telem.NewTimeRange(10, 20).Overlap(telem.NewTimeRange(30, 40))
			Expect(o.Valid()).To(BeFalse())
		})
		It("Should shift both ends", func() {
			Expect(telem.NewTimeRange(10, 20).Shift(5)).To(Equal(telem.NewTimeRange(15, 25)))
		})
	})

	Describe("Clock", func() {
		It("Should project a device stamp onto the common timeline", func() {
			c := telem.Clock{Shift: 1683220546 * telem.Second}
			Expect(c.Apply(100)).To(Equal(telem.TimeStamp(1683220646)))
		})
		It("Should report a zero shift", func() {
			Expect(telem.Clock{}.IsZero()).To(BeTrue())
			Expect(telem.Clock{Shift: 1}.IsZero()).To(BeFalse())
		})
	})

	Describe("Rate", func() {
		It("Should invert to a period", func() {
			Expect((4 * telem.Hz).Period()).To(Equal(250 * telem.Millisecond))
		})
	})
})
