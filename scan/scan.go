// Package scan summarizes log files into the catalog with a bounded worker
// pool. Scanning is per-file independent; the merge pipeline itself stays
// single-threaded.
package scan

import (
	"context"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"divelog"
	"divelog/catalog"
	"divelog/meter"
	"divelog/pk"
	"divelog/telem"
)

// Open produces a record source for a log file path.
type Open func(path string) (divelog.Source, error)

type Config struct {
	// Open produces the source for each scanned file. [REQUIRED]
	Open Open
	// Catalog caches summaries between runs. Nil scans every file. [OPTIONAL]
	Catalog *catalog.Catalog
	// Workers bounds the number of files scanned at once. Defaults to 8.
	// [OPTIONAL]
	Workers int64
	// FS stats files before scanning. Defaults to the OS filesystem.
	// [OPTIONAL]
	FS afero.Fs
	// Logger is the witness of the scan. [OPTIONAL]
	Logger *zap.Logger
	// Profile receives scan metrics. [OPTIONAL]
	Profile meter.Profile
}

func mergeScanConfigDefaults(cfg Config) Config {
	if cfg.Workers == 0 {
		cfg.Workers = 8
	}
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

type Scanner struct {
	cfg     Config
	sem     *semaphore.Weighted
	metrics scannerMetrics
}

type scannerMetrics struct {
	scanned meter.Metric[int]
	cached  meter.Metric[int]
	records meter.Metric[int64]
}

func newScannerMetrics(p meter.Profile) scannerMetrics {
	sub := meter.Sub(p, "scan")
	return scannerMetrics{
		scanned: meter.NewGauge[int](sub, "scanned"),
		cached:  meter.NewGauge[int](sub, "cached"),
		records: meter.NewSeries[int64](sub, "records"),
	}
}

func New(cfg Config) *Scanner {
	cfg = mergeScanConfigDefaults(cfg)
	return &Scanner{
		cfg:     cfg,
		sem:     semaphore.NewWeighted(cfg.Workers),
		metrics: newScannerMetrics(cfg.Profile),
	}
}

// Exec summarizes each path under the given run id, at most Workers at a
// time. Results and errors are positional: entries[i] and errs[i] belong to
// paths[i]. A cancelled context fails the remaining paths without waiting.
func (s *Scanner) Exec(ctx context.Context, run pk.PK, paths ...string) ([]catalog.Entry, []error) {
	entries := make([]catalog.Entry, len(paths))
	errs := make([]error, len(paths))
	wg := sync.WaitGroup{}
	for i, path := range paths {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer s.sem.Release(1)
			entries[i], errs[i] = s.scanOne(ctx, run, path)
		}(i, path)
	}
	wg.Wait()
	return entries, errs
}

func (s *Scanner) scanOne(ctx context.Context, run pk.PK, path string) (catalog.Entry, error) {
	fi, err := s.cfg.FS.Stat(path)
	if err != nil {
		return catalog.Entry{}, err
	}
	size, modTime := fi.Size(), fi.ModTime().UnixNano()

	if s.cfg.Catalog != nil {
		cached, ok, err := s.cfg.Catalog.Get(path)
		if err != nil {
			return catalog.Entry{}, err
		}
		if ok && cached.Fresh(size, modTime) {
			s.metrics.cached.Record(1)
			s.cfg.Logger.Debug("catalog hit", zap.String("path", path))
			if cached.Run != run {
				cached.Run = run
				if err := s.cfg.Catalog.Put(cached); err != nil {
					return catalog.Entry{}, err
				}
			}
			return cached, nil
		}
	}

	src, err := s.cfg.Open(path)
	if err != nil {
		return catalog.Entry{}, err
	}
	defer src.Close()

	e := catalog.Entry{
		Path:    path,
		Size:    size,
		ModTime: modTime,
		Types:   make(map[string]int64),
		Run:     run,
	}
	first := true
	for src.Next() {
		if e.Records%1024 == 0 && ctx.Err() != nil {
			return catalog.Entry{}, ctx.Err()
		}
		rec := src.Record()
		e.Records++
		e.Types[rec.Type]++
		if first {
			e.Range = telem.NewTimeRange(rec.Timestamp, rec.Timestamp)
			first = false
		} else {
			e.Range.End = rec.Timestamp
		}
	}
	if err := src.Err(); err != nil {
		s.cfg.Logger.Warn("source ended abnormally", zap.String("path", path), zap.Error(err))
	}
	s.metrics.scanned.Record(1)
	s.metrics.records.Record(e.Records)

	if s.cfg.Catalog != nil {
		if err := s.cfg.Catalog.Put(e); err != nil {
			return catalog.Entry{}, err
		}
	}
	s.cfg.Logger.Info(
		"scanned",
		zap.String("path", path),
		zap.Int64("records", e.Records),
		zap.Int("types", len(e.Types)),
	)
	return e, nil
}
