package scan_test

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"divelog"
	"divelog/catalog"
	"divelog/internal/testutil"
	"divelog/pk"
	"divelog/scan"
	"divelog/telem"
)

var _ = Describe("Scan", func() {
	var (
		fs    afero.Fs
		opens int64
		cfg   scan.Config
	)
	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		opens = 0
		Expect(afero.WriteFile(fs, "a.csv", []byte("aaaa"), 0644)).To(Succeed())
		Expect(afero.WriteFile(fs, "b.csv", []byte("bbbbbbbb"), 0644)).To(Succeed())
		cfg = scan.Config{
			Open: func(path string) (divelog.Source, error) {
				atomic.AddInt64(&opens, 1)
				switch path {
				case "a.csv":
					return testutil.NewSliceSource(testutil.Ramp("ATTITUDE", 100, telem.Second, 4)...), nil
				case "b.csv":
					recs := append(
						testutil.Ramp("ATTITUDE", 200, telem.Second, 2),
						testutil.Ramp("VFR_HUD", 210, telem.Second, 3)...,
					)
					return testutil.NewSliceSource(recs...), nil
				}
				return nil, errors.Newf("no source for %s", path)
			},
			FS: fs,
		}
	})
	It("should summarize each file positionally", func() {
		entries, errs := scan.New(cfg).Exec(ctx, pk.New(), "a.csv", "b.csv")
		Expect(errs[0]).ToNot(HaveOccurred())
		Expect(errs[1]).ToNot(HaveOccurred())
		Expect(entries[0].Path).To(Equal("a.csv"))
		Expect(entries[0].Records).To(Equal(int64(4)))
		Expect(entries[0].Types).To(Equal(map[string]int64{"ATTITUDE": 4}))
		Expect(entries[0].Range).To(Equal(telem.NewTimeRange(100, 103)))
		Expect(entries[1].Records).To(Equal(int64(5)))
		Expect(entries[1].Types).To(HaveLen(2))
	})
	It("should record the file version", func() {
		entries, errs := scan.New(cfg).Exec(ctx, pk.New(), "a.csv")
		Expect(errs[0]).ToNot(HaveOccurred())
		Expect(entries[0].Size).To(Equal(int64(4)))
	})
	It("should fail positionally for a missing file", func() {
		entries, errs := scan.New(cfg).Exec(ctx, pk.New(), "a.csv", "missing.csv")
		Expect(errs[0]).ToNot(HaveOccurred())
		Expect(errs[1]).To(HaveOccurred())
		Expect(entries[1].Path).To(BeEmpty())
	})
	It("should surface open failures without stopping the batch", func() {
		Expect(afero.WriteFile(fs, "c.csv", []byte("cc"), 0644)).To(Succeed())
		_, errs := scan.New(cfg).Exec(ctx, pk.New(), "c.csv", "a.csv")
		Expect(errs[0]).To(HaveOccurred())
		Expect(errs[1]).ToNot(HaveOccurred())
	})
	Context("with a catalog", func() {
		var cat *catalog.Catalog
		BeforeEach(func() {
			var err error
			cat, err = catalog.Open("", catalog.MemBacked())
			Expect(err).ToNot(HaveOccurred())
			cfg.Catalog = cat
		})
		AfterEach(func() {
			Expect(cat.Close()).To(Succeed())
		})
		It("should not re-read an unchanged file", func() {
			s := scan.New(cfg)
			_, errs := s.Exec(ctx, pk.New(), "a.csv")
			Expect(errs[0]).ToNot(HaveOccurred())
			Expect(atomic.LoadInt64(&opens)).To(Equal(int64(1)))
			_, errs = s.Exec(ctx, pk.New(), "a.csv")
			Expect(errs[0]).ToNot(HaveOccurred())
			Expect(atomic.LoadInt64(&opens)).To(Equal(int64(1)))
		})
		It("should adopt cached entries into the current run", func() {
			s := scan.New(cfg)
			_, errs := s.Exec(ctx, pk.New(), "a.csv")
			Expect(errs[0]).ToNot(HaveOccurred())
			second := pk.New()
			_, errs = s.Exec(ctx, second, "a.csv")
			Expect(errs[0]).ToNot(HaveOccurred())
			e, ok, err := cat.Get("a.csv")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(e.Run).To(Equal(second))
		})
		It("should rescan once the file changes", func() {
			s := scan.New(cfg)
			_, errs := s.Exec(ctx, pk.New(), "a.csv")
			Expect(errs[0]).ToNot(HaveOccurred())
			Expect(afero.WriteFile(fs, "a.csv", []byte("aaaaaaaaaaaa"), 0644)).To(Succeed())
			_, errs = s.Exec(ctx, pk.New(), "a.csv")
			Expect(errs[0]).ToNot(HaveOccurred())
			Expect(atomic.LoadInt64(&opens)).To(Equal(int64(2)))
		})
	})
	It("should fail every path once the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, errs := scan.New(cfg).Exec(cancelled, pk.New(), "a.csv", "b.csv")
		Expect(errs[0]).To(HaveOccurred())
		Expect(errs[1]).To(HaveOccurred())
	})
})
