package divelog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"divelog"
	"divelog/internal/testutil"
	"divelog/telem"
)

func pairsAt(wall []float64, boot []float64) []divelog.TimePair {
	pairs := make([]divelog.TimePair, len(wall))
	for i := range wall {
		pairs[i] = divelog.TimePair{
			Wall:   telem.TimeStamp(wall[i]),
			Boot:   telem.TimeSpan(boot[i]),
			Origin: "dive.tlog",
		}
	}
	return pairs
}

var _ = Describe("Session", func() {
	Describe("DetectSessions", func() {
		It("should fold a contiguous stream into one session", func() {
			sessions := divelog.DetectSessions(
				pairsAt([]float64{1000, 1001, 1002, 1003}, []float64{10, 11, 12, 13}),
				divelog.SessionConfig{},
			)
			Expect(sessions).To(HaveLen(1))
			Expect(sessions[0].Wall).To(Equal(telem.NewTimeRange(1000, 1003)))
			Expect(sessions[0].BootStart).To(Equal(telem.TimeSpan(10)))
			Expect(sessions[0].BootEnd).To(Equal(telem.TimeSpan(13)))
			Expect(sessions[0].Origin).To(Equal("dive.tlog"))
		})
		It("should open a new session after a wall-clock gap", func() {
			sessions := divelog.DetectSessions(
				pairsAt([]float64{1000, 1001, 1100, 1101}, []float64{10, 11, 12, 13}),
				divelog.SessionConfig{MaxGap: 5 * telem.Second},
			)
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[0].Wall.End).To(Equal(telem.TimeStamp(1001)))
			Expect(sessions[1].Wall.Start).To(Equal(telem.TimeStamp(1100)))
		})
		It("should open a new session when boot time moves backwards", func() {
			sessions := divelog.DetectSessions(
				pairsAt([]float64{1000, 1001, 1002, 1003}, []float64{100, 101, 5, 6}),
				divelog.SessionConfig{},
			)
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[1].BootStart).To(Equal(telem.TimeSpan(5)))
		})
		It("should detect nothing in an empty stream", func() {
			Expect(divelog.DetectSessions(nil, divelog.SessionConfig{})).To(BeEmpty())
		})
	})
	Describe("Session", func() {
		It("should imply the coarse clock of its first observation", func() {
			s := divelog.Session{
				Wall:      telem.NewTimeRange(1000, 1100),
				BootStart: 10,
			}
			Expect(s.Clock().Apply(10)).To(Equal(telem.TimeStamp(1000)))
		})
		It("should expose itself as a segment", func() {
			s := divelog.Session{Wall: telem.NewTimeRange(1000, 1100)}
			seg := s.Segment()
			Expect(seg.Start).To(Equal(telem.TimeStamp(1000)))
			Expect(seg.End).To(Equal(telem.TimeStamp(1100)))
			Expect(seg.Name).To(Equal("1000_1100"))
		})
	})
	Describe("CollectTimePairs", func() {
		It("should extract wall/boot pairs from matching records", func() {
			rec := divelog.NewRecord(1000, "SYSTEM_TIME")
			rec.Fields.Put("time_boot_ms", divelog.IntValue(12500))
			rec.Source = divelog.SourceID{Path: "dive.tlog"}
			other := divelog.NewRecord(1000.5, "ATTITUDE")
			other.Fields.Put("roll", divelog.FloatValue(0.1))
			src := testutil.NewSliceSource(rec, other)

			pairs := divelog.CollectTimePairs(src, "SYSTEM_TIME", "time_boot_ms")
			Expect(pairs).To(HaveLen(1))
			Expect(pairs[0].Wall).To(Equal(telem.TimeStamp(1000)))
			Expect(pairs[0].Boot).To(Equal(telem.TimeSpan(12.5)))
			Expect(pairs[0].Origin).To(Equal("dive.tlog"))
		})
		It("should skip records missing the boot field", func() {
			rec := divelog.NewRecord(1000, "SYSTEM_TIME")
			src := testutil.NewSliceSource(rec)
			Expect(divelog.CollectTimePairs(src, "SYSTEM_TIME", "time_boot_ms")).To(BeEmpty())
		})
	})
})
