package csvio_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"divelog"
	"divelog/csvio"
	"divelog/telem"
)

func writeLines(fs afero.Fs, path string, lines ...string) {
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	Expect(afero.WriteFile(fs, path, []byte(content), 0644)).To(Succeed())
}

func drain(src divelog.Source) []divelog.Record {
	var records []divelog.Record
	for src.Next() {
		records = append(records, src.Record())
	}
	return records
}

var _ = Describe("Reader", func() {
	var fs afero.Fs
	BeforeEach(func() {
		fs = afero.NewMemMapFs()
	})
	It("should stream rows as records typed after the file", func() {
		writeLines(fs, "ATTITUDE.csv",
			"timestamp,roll,pitch",
			"1600000000.25,0.1,-0.2",
			"1600000000.75,0.15,-0.25",
		)
		r, err := csvio.OpenReader("ATTITUDE.csv", csvio.ReaderConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		records := drain(r)
		Expect(r.Err()).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].Type).To(Equal("ATTITUDE"))
		Expect(records[0].Timestamp).To(Equal(telem.TimeStamp(1600000000.25)))
		roll, ok := records[0].Fields.Get("roll")
		Expect(ok).To(BeTrue())
		Expect(roll.Float()).To(Equal(0.1))
	})
	It("should infer the narrowest value kind per cell", func() {
		writeLines(fs, "GPS.csv",
			"timestamp,fix_type,hdop,healthy,name",
			"1600000000,3,1.4,True,ublox",
		)
		r, err := csvio.OpenReader("GPS.csv", csvio.ReaderConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		rec := drain(r)[0]
		fix, _ := rec.Fields.Get("fix_type")
		Expect(fix.Kind()).To(Equal(divelog.KindInt))
		hdop, _ := rec.Fields.Get("hdop")
		Expect(hdop.Kind()).To(Equal(divelog.KindFloat))
		healthy, _ := rec.Fields.Get("healthy")
		Expect(healthy.Bool()).To(BeTrue())
		name, _ := rec.Fields.Get("name")
		Expect(name.Str()).To(Equal("ublox"))
	})
	It("should leave empty cells out of the record", func() {
		writeLines(fs, "A.csv",
			"timestamp,a,b",
			"1600000000,1,",
		)
		r, err := csvio.OpenReader("A.csv", csvio.ReaderConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		rec := drain(r)[0]
		Expect(rec.Fields.Has("a")).To(BeTrue())
		Expect(rec.Fields.Has("b")).To(BeFalse())
	})
	It("should strip the type prefix from column names when asked", func() {
		writeLines(fs, "BARO.csv",
			"timestamp,BARO.Press,BARO.Alt",
			"1600000000,1013.2,-12.5",
		)
		r, err := csvio.OpenReader("BARO.csv", csvio.ReaderConfig{FS: fs, StripPrefix: true})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		rec := drain(r)[0]
		Expect(rec.Fields.Has("Press")).To(BeTrue())
		Expect(rec.Fields.Has("BARO.Press")).To(BeFalse())
	})
	It("should honor an explicit type and timestamp column", func() {
		writeLines(fs, "export.csv",
			"time,depth",
			"1600000000,-14.2",
		)
		r, err := csvio.OpenReader("export.csv", csvio.ReaderConfig{
			FS:              fs,
			Type:            "DEPTH",
			TimestampColumn: "time",
		})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		Expect(drain(r)[0].Type).To(Equal("DEPTH"))
	})
	It("should stamp records with the source path", func() {
		writeLines(fs, "A.csv", "timestamp,a", "1600000000,1")
		r, err := csvio.OpenReader("A.csv", csvio.ReaderConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		Expect(drain(r)[0].Source.Path).To(Equal("A.csv"))
	})
	It("should refuse a file with no timestamp column", func() {
		writeLines(fs, "A.csv", "a,b", "1,2")
		_, err := csvio.OpenReader("A.csv", csvio.ReaderConfig{FS: fs})
		Expect(err).To(HaveOccurred())
	})
	It("should end the stream at a malformed timestamp and keep the fault", func() {
		writeLines(fs, "A.csv",
			"timestamp,a",
			"1600000000,1",
			"not-a-time,2",
			"1600000002,3",
		)
		r, err := csvio.OpenReader("A.csv", csvio.ReaderConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		records := drain(r)
		Expect(records).To(HaveLen(1))
		Expect(r.Err()).To(HaveOccurred())
	})
})

var _ = Describe("Writer", func() {
	var fs afero.Fs
	BeforeEach(func() {
		fs = afero.NewMemMapFs()
	})
	It("should round-trip a table through csv", func() {
		a := divelog.NewAccumulator(divelog.AccumulatorConfig{})
		rec := divelog.NewRecord(1600000000.5, "ATTITUDE")
		rec.Fields.Put("roll", divelog.FloatValue(0.125))
		a.Write(rec)

		w, err := csvio.Create("out.csv", csvio.WriterConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		Expect(w.WriteTable(a.Table("ATTITUDE"))).To(Succeed())
		Expect(w.Close()).To(Succeed())

		r, err := csvio.OpenReader("out.csv", csvio.ReaderConfig{
			FS:   fs,
			Type: "ATTITUDE",
		})
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		records := drain(r)
		Expect(records).To(HaveLen(1))
		Expect(records[0].Timestamp).To(Equal(telem.TimeStamp(1600000000.5)))
		roll, ok := records[0].Fields.Get("ATTITUDE.roll")
		Expect(ok).To(BeTrue())
		Expect(roll.Float()).To(Equal(0.125))
	})
	It("should render null cells as empty columns", func() {
		t := divelog.NewTable("A")
		row := divelog.Row{Timestamp: 1600000000}
		row.Fields.Put("A.a", divelog.FloatValue(1))
		t.Append(row)
		row = divelog.Row{Timestamp: 1600000001}
		row.Fields.Put("A.b", divelog.FloatValue(2))
		t.Append(row)

		w, err := csvio.Create("out.csv", csvio.WriterConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		Expect(w.WriteTable(t)).To(Succeed())
		Expect(w.Close()).To(Succeed())

		content, err := afero.ReadFile(fs, "out.csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal(
			"timestamp,A.a,A.b\n1600000000,1,\n1600000001,,2\n",
		))
	})
	It("should write a merged frame with the timestamp first", func() {
		a := tableOf("A", 0.5, "A.a", 1.0)
		b := tableOf("B", 1.5, "B.b", 2.0)
		f := divelog.MergeWide([]*divelog.Table{a, b}, divelog.WideConfig{})

		w, err := csvio.Create("merged.csv", csvio.WriterConfig{FS: fs})
		Expect(err).ToNot(HaveOccurred())
		Expect(w.WriteFrame(f)).To(Succeed())
		Expect(w.Close()).To(Succeed())

		content, err := afero.ReadFile(fs, "merged.csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal(
			"timestamp,A.a,B.b\n0.5,1,\n1.5,1,2\n",
		))
	})
})

func tableOf(typeTag string, cells ...interface{}) *divelog.Table {
	t := divelog.NewTable(typeTag)
	for i := 0; i < len(cells); i += 3 {
		row := divelog.Row{Timestamp: telem.TimeStamp(cells[i].(float64))}
		row.Fields.Put(cells[i+1].(string), divelog.FloatValue(cells[i+2].(float64)))
		t.Append(row)
	}
	return t
}
