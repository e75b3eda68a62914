package meter_test

import (
	"divelog/meter"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Meter", func() {
	var p meter.Profile
	BeforeEach(func() {
		p = meter.New("test")
	})
	Describe("Series", func() {
		It("Should create a series metric", func() {
			Expect(func() { meter.NewSeries[int8](p, "test.series") }).ToNot(Panic())
		})
		It("Should show up in the list of metrics", func() {
			meter.NewSeries[int8](p, "test.series")
			_, ok := p.Metrics()["test.series"]
			Expect(ok).To(BeTrue())
		})
		It("Should record values to the series", func() {
			s := meter.NewSeries[float64](p, "test.series")
			s.Record(1.0)
			s.Record(2.5)
			Expect(s.Values()).To(Equal([]float64{1, 2.5}))
			Expect(s.Count()).To(Equal(2))
		})
	})
	Describe("Gauge", func() {
		It("Should create a gauge metric", func() {
			Expect(func() { meter.NewGauge[int8](p, "test.gauge") }).ToNot(Panic())
		})
		It("Should report the mean of recorded values", func() {
			g := meter.NewGauge[float64](p, "test.gauge")
			g.Record(1)
			g.Record(3)
			Expect(g.Values()[0]).To(Equal(2.0))
		})
	})
	Describe("Duration", func() {
		It("Should time a start/stop pair", func() {
			d := meter.NewGaugeDuration(p, "test.dur")
			d.Start()
			Expect(d.Stop()).To(BeNumerically(">=", time.Duration(0)))
			Expect(d.Count()).To(Equal(1))
		})
		It("Should panic when stopped before started", func() {
			d := meter.NewGaugeDuration(p, "test.dur")
			Expect(func() { d.Stop() }).To(Panic())
		})
	})
	Describe("Nil profile", func() {
		It("Should return no-op metrics", func() {
			g := meter.NewGauge[int64](nil, "nope")
			g.Record(5)
			Expect(g.Count()).To(Equal(0))
			Expect(g.Values()).To(BeNil())
		})
		It("Should return a nil sub profile", func() {
			Expect(meter.Sub(nil, "child")).To(BeNil())
		})
	})
	Describe("Report", func() {
		It("Should nest child profiles", func() {
			g := meter.NewGauge[int64](p, "gauge")
			g.Record(4)
			sub := meter.Sub(p, "sub")
			s := meter.NewSeries[float64](sub, "series")
			s.Record(3.2)
			r := p.Report()
			Expect(r["gauge"]).To(Equal(int64(4)))
			Expect(r["sub"]).To(HaveKey("series"))
		})
	})
	Describe("Parametrize", func() {
		It("Should stamp the template once per variable set", func() {
			var seen []int
			par := meter.NewParametrize(meter.IterVars([]int{1, 2, 3}))
			par.Template(func(i int, v int) { seen = append(seen, v) })
			par.Construct()
			Expect(seen).To(Equal([]int{1, 2, 3}))
		})
	})
})
