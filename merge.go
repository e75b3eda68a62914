package divelog

import (
	"divelog/meter"
	"divelog/telem"

	"go.uber.org/zap"
)

// |||||| MODE ||||||

type MergeMode uint8

const (
	// ModeUnion continues until every input is exhausted. Used to stitch
	// files of the same kind into one continuous timeline.
	ModeUnion MergeMode = iota
	// ModeIntersect stops as soon as any input is exhausted. Used when the
	// inputs are only meaningful together, e.g. a wall-clock stream merged
	// with a reconciled dataflash stream.
	ModeIntersect
)

func (m MergeMode) String() string {
	if m == ModeIntersect {
		return "intersect"
	}
	return "union"
}

// |||||| CONFIG ||||||

type MergerConfig struct {
	// Mode selects the termination rule. Defaults to ModeUnion.
	Mode MergeMode
	// Logger receives debug output on priming and input exhaustion.
	// Defaults to a no-op logger.
	Logger *zap.Logger
	// Profile receives merge metrics. A nil profile disables collection.
	Profile meter.Profile
}

func mergeMergerConfigDefaults(cfg MergerConfig) MergerConfig {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// |||||| INPUT ||||||

// Input couples a source with its resolved clock. A clock with zero shift
// means the source already sits on the common timeline.
type Input struct {
	Source Source
	Clock  telem.Clock
}

type mergeInput struct {
	Input
	pending Record
	done    bool
}

func (in *mergeInput) commonTS() telem.TimeStamp {
	return in.Clock.Apply(in.pending.Timestamp)
}

func (in *mergeInput) pull() bool {
	if in.done || !in.Source.Next() {
		in.done = true
		return false
	}
	in.pending = in.Source.Record()
	return true
}

// |||||| MERGER ||||||

// Merger interleaves N inputs into one stream ordered by common timestamp,
// holding exactly one pending record per input. Emitted records carry the
// rewritten common timestamp. When two inputs tie, the one registered first
// wins; callers that care about tie order register their reference source
// first.
type Merger struct {
	cfg     MergerConfig
	inputs  []*mergeInput
	rec     Record
	stopped bool
	metrics mergerMetrics
}

// NewMerger primes one pending record per input. In intersect mode it also
// aligns every input to the common start, discarding earlier records, and
// fails with ErrNoOverlap if any input ends before reaching it.
func NewMerger(cfg MergerConfig, inputs ...Input) (*Merger, error) {
	cfg = mergeMergerConfigDefaults(cfg)
	m := &Merger{cfg: cfg, metrics: newMergerMetrics(cfg.Profile)}
	for _, in := range inputs {
		mi := &mergeInput{Input: in}
		mi.pull()
		m.inputs = append(m.inputs, mi)
	}
	cfg.Logger.Debug(
		"opened merger",
		zap.Int("inputs", len(inputs)),
		zap.Stringer("mode", cfg.Mode),
	)
	if cfg.Mode == ModeIntersect {
		if err := m.alignStart(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// alignStart advances every input to the latest first common timestamp across
// all inputs. An input that runs out on the way there proves the inputs share
// no overlap.
func (m *Merger) alignStart() error {
	if len(m.inputs) == 0 {
		return nil
	}
	start := telem.TimeStampMin
	for _, in := range m.inputs {
		if in.done {
			return newSimpleError(ErrNoOverlap, "sources do not overlap")
		}
		if ts := in.commonTS(); ts.After(start) {
			start = ts
		}
	}
	for i, in := range m.inputs {
		for in.commonTS().Before(start) {
			if !in.pull() {
				m.cfg.Logger.Debug(
					"input ended before common start",
					zap.Int("input", i),
					zap.Stringer("start", start),
				)
				return newSimpleError(ErrNoOverlap, "sources do not overlap")
			}
		}
	}
	m.cfg.Logger.Debug("aligned inputs to common start", zap.Stringer("start", start))
	return nil
}

func (m *Merger) Next() bool {
	if m.stopped {
		return false
	}
	idx := -1
	var best telem.TimeStamp
	for i, in := range m.inputs {
		if in.done {
			continue
		}
		if ts := in.commonTS(); idx == -1 || ts.Before(best) {
			idx, best = i, ts
		}
	}
	if idx == -1 {
		m.stopped = true
		return false
	}
	in := m.inputs[idx]
	m.rec = in.pending.WithTimestamp(best)
	m.metrics.emitted.Record(1)
	if !in.pull() {
		m.metrics.exhausted.Record(1)
		m.cfg.Logger.Debug("input exhausted", zap.Int("input", idx))
		if m.cfg.Mode == ModeIntersect {
			m.stopped = true
		}
	}
	return true
}

func (m *Merger) Record() Record {
	return m.rec
}

// Err returns the first diagnostic error any input surfaced. Exhaustion is
// exhaustion either way.
func (m *Merger) Err() error {
	for _, in := range m.inputs {
		if err := in.Source.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Merger) Close() error {
	var err error
	for _, in := range m.inputs {
		if cerr := in.Source.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// |||||| METRICS ||||||

// mergerMetrics tracks the throughput and health of a merge.
type mergerMetrics struct {
	// emitted counts records emitted onto the common timeline.
	emitted meter.Metric[int64]
	// exhausted counts inputs that ran dry.
	exhausted meter.Metric[int64]
}

const mergerMetricsKey = "merge"

func newMergerMetrics(p meter.Profile) mergerMetrics {
	sub := meter.Sub(p, mergerMetricsKey)
	return mergerMetrics{
		emitted:   meter.NewGauge[int64](sub, "emitted"),
		exhausted: meter.NewGauge[int64](sub, "exhausted"),
	}
}
