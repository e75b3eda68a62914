package divelog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"divelog"
	"divelog/telem"
)

var _ = Describe("Drift", func() {
	It("should report stable offsets with zero spread", func() {
		report, ok := divelog.MeasureDrift(
			pairsAt([]float64{1000, 1001, 1002}, []float64{10, 11, 12}),
		)
		Expect(ok).To(BeTrue())
		Expect(report.Samples).To(Equal(3))
		Expect(report.Mean).To(Equal(telem.TimeSpan(990)))
		Expect(report.Min).To(Equal(report.Max))
		Expect(report.StdDev).To(BeZero())
		Expect(report.Net).To(BeZero())
		Expect(report.Span).To(Equal(telem.TimeSpan(2)))
	})
	It("should measure a drifting offset", func() {
		report, ok := divelog.MeasureDrift(
			pairsAt([]float64{1000, 1001, 1002}, []float64{10, 11, 11.5}),
		)
		Expect(ok).To(BeTrue())
		Expect(float64(report.Net)).To(BeNumerically("~", 0.5, 1e-9))
		Expect(report.Min).To(Equal(telem.TimeSpan(990)))
		Expect(float64(report.Max)).To(BeNumerically("~", 990.5, 1e-9))
		Expect(float64(report.StdDev)).To(BeNumerically(">", 0))
	})
	It("should report nothing for an empty stream", func() {
		_, ok := divelog.MeasureDrift(nil)
		Expect(ok).To(BeFalse())
	})
})
