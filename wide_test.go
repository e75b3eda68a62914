package divelog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"divelog"
	"divelog/telem"
)

// tableOf builds a table from (ts, col, val) triplets, keys already qualified.
func tableOf(typeTag string, cells ...interface{}) *divelog.Table {
	t := divelog.NewTable(typeTag)
	for i := 0; i < len(cells); i += 3 {
		row := divelog.Row{Timestamp: telem.TimeStamp(cells[i].(float64))}
		row.Fields.Put(cells[i+1].(string), divelog.FloatValue(cells[i+2].(float64)))
		t.Append(row)
	}
	return t
}

func mergedStamps(f *divelog.Frame) []telem.TimeStamp {
	ts := make([]telem.TimeStamp, f.Len())
	for i := 0; i < f.Len(); i++ {
		ts[i] = f.Row(i).Timestamp
	}
	return ts
}

var _ = Describe("MergeWide", func() {
	It("should join on the union of timestamps", func() {
		a := tableOf("A", 0.0, "A.a", 1.0, 2.0, "A.a", 2.0)
		b := tableOf("B", 1.0, "B.b", 10.0)
		f := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		Expect(mergedStamps(f)).To(Equal([]telem.TimeStamp{0, 1, 2}))
		Expect(f.Columns()).To(Equal([]string{"A.a", "B.b"}))
	})
	It("should carry the most recent value forward", func() {
		a := tableOf("A", 0.0, "A.a", 1.0, 2.0, "A.a", 2.0)
		b := tableOf("B", 1.0, "B.b", 10.0)
		f := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		Expect(f.Cell(1, "A.a").Float()).To(Equal(1.0))
		Expect(f.Cell(2, "B.b").Float()).To(Equal(10.0))
	})
	It("should leave cells null before a column's first value", func() {
		a := tableOf("A", 0.0, "A.a", 1.0)
		b := tableOf("B", 1.0, "B.b", 10.0)
		f := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		Expect(f.Cell(0, "B.b").IsNull()).To(BeTrue())
	})
	It("should collapse rows sharing a timestamp", func() {
		a := tableOf("A", 1.0, "A.a", 1.0)
		b := tableOf("B", 1.0, "B.b", 2.0)
		f := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		Expect(f.Len()).To(Equal(1))
		Expect(f.Cell(0, "A.a").Float()).To(Equal(1.0))
		Expect(f.Cell(0, "B.b").Float()).To(Equal(2.0))
	})
	It("should let the last of duplicate timestamps within a table win", func() {
		a := tableOf("A", 1.0, "A.a", 1.0, 1.0, "A.a", 2.0)
		b := tableOf("B", 0.0, "B.b", 9.0)
		f := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		Expect(f.Len()).To(Equal(2))
		Expect(f.Cell(1, "A.a").Float()).To(Equal(2.0))
	})
	It("should produce the same frame when run twice", func() {
		a := tableOf("A", 0.0, "A.a", 1.0, 2.0, "A.a", 2.0)
		b := tableOf("B", 1.0, "B.b", 10.0)
		first := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		again := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})
		Expect(again).To(Equal(first))
	})
	It("should skip empty tables", func() {
		a := tableOf("A", 0.0, "A.a", 1.0)
		empty := divelog.NewTable("B")
		f := divelog.MergeWide([]*divelog.Table{empty, a}, divelog.WideConfig{})
		Expect(f.Len()).To(Equal(1))
		Expect(f.Columns()).To(Equal([]string{"A.a"}))
	})
	It("should return nil when every table is empty", func() {
		f := divelog.MergeWide(
			[]*divelog.Table{divelog.NewTable("A"), divelog.NewTable("B")},
			divelog.WideConfig{},
		)
		Expect(f).To(BeNil())
	})
	Context("row budget", func() {
		It("should cut the frame back to the budget and stop joining", func() {
			a := tableOf("A", 0.0, "A.a", 1.0, 1.0, "A.a", 2.0)
			b := tableOf(
				"B",
				10.0, "B.b", 1.0, 11.0, "B.b", 2.0, 12.0, "B.b", 3.0, 13.0, "B.b", 4.0,
			)
			c := tableOf("C", 20.0, "C.c", 1.0)
			f := divelog.MergeWide(
				[]*divelog.Table{a, b, c},
				divelog.WideConfig{MaxRows: 4},
			)
			Expect(f.Len()).To(Equal(4))
			Expect(f.Columns()).ToNot(ContainElement("C.c"))
		})
	})
})
