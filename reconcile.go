package divelog

import (
	"divelog/meter"
	"divelog/telem"

	"go.uber.org/zap"
)

// |||||| COARSE SHIFT ||||||

// BootShift computes the coarse clock for a device-relative source from a
// single paired observation: a record carrying a duration-since-boot field,
// seen at a known wall-clock timestamp.
func BootShift(wall telem.TimeStamp, sinceBoot telem.TimeSpan) telem.Clock {
	return telem.Clock{Shift: telem.TimeSpan(float64(wall) - sinceBoot.Seconds())}
}

// |||||| SERIES ||||||

// Series is a time-ordered scalar signal sampled from one source, in that
// source's own timebase.
type Series struct {
	ts   []telem.TimeStamp
	vals []float64
}

func (s *Series) Append(ts telem.TimeStamp, v float64) {
	s.ts = append(s.ts, ts)
	s.vals = append(s.vals, v)
}

func (s Series) Len() int {
	return len(s.ts)
}

func (s Series) At(i int) (telem.TimeStamp, float64) {
	return s.ts[i], s.vals[i]
}

func (s Series) Range() telem.TimeRange {
	if len(s.ts) == 0 {
		return telem.TimeRange{}
	}
	return telem.NewTimeRange(s.ts[0], s.ts[len(s.ts)-1])
}

// CollectSeries drains src and extracts the named numeric field from records
// with the given type tag (any type when typeTag is empty). Non-numeric and
// missing fields are skipped.
func CollectSeries(src Source, typeTag, field string) Series {
	var s Series
	for src.Next() {
		rec := src.Record()
		if typeTag != "" && rec.Type != typeTag {
			continue
		}
		v, ok := rec.Fields.Get(field)
		if !ok {
			continue
		}
		f, ok := v.Num()
		if !ok {
			continue
		}
		s.Append(rec.Timestamp, f)
	}
	return s
}

// |||||| CONFIG ||||||

type ReconcileConfig struct {
	// Reference is the series that defines the common timeline.
	Reference Series
	// Subject is the series whose clock is being estimated. Its timestamps
	// are candidates for shifting.
	Subject Series
	// Window bounds the refinement search to [-Window, +Window] around the
	// base shift. Defaults to 0.2s.
	Window telem.TimeSpan
	// Steps is the grid resolution of the search. Defaults to 2000.
	Steps int
	// Logger receives debug output on search results. Defaults to a no-op
	// logger.
	Logger *zap.Logger
	// Profile receives search metrics. A nil profile disables collection.
	Profile meter.Profile
}

func mergeReconcileConfigDefaults(cfg ReconcileConfig) ReconcileConfig {
	if cfg.Window == 0 {
		cfg.Window = 200 * telem.Millisecond
	}
	if cfg.Steps == 0 {
		cfg.Steps = 2000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// |||||| RECONCILER ||||||

// Alignment is the result of a refinement search.
type Alignment struct {
	// Clock is the base clock plus Delta.
	Clock telem.Clock
	// Delta is the extra shift the search settled on.
	Delta telem.TimeSpan
	// MSE is the mean squared error at Delta.
	MSE float64
	// InitialMSE is the mean squared error of the base clock alone.
	InitialMSE float64
}

// Improvement reports how much of the initial error the refinement removed,
// as a fraction of the initial error.
func (a Alignment) Improvement() float64 {
	if a.InitialMSE == 0 {
		return 0
	}
	return (a.InitialMSE - a.MSE) / a.InitialMSE
}

// Reconciler estimates the residual clock offset between two sources by
// comparing a physical signal both of them measured. The subject series is
// resampled onto the reference timestamps by linear interpolation, and a
// bounded grid search picks the extra shift minimizing mean squared error.
type Reconciler struct {
	cfg     ReconcileConfig
	metrics reconcileMetrics
}

func NewReconciler(cfg ReconcileConfig) *Reconciler {
	cfg = mergeReconcileConfigDefaults(cfg)
	return &Reconciler{cfg: cfg, metrics: newReconcileMetrics(cfg.Profile)}
}

// Refine searches for the delta within the window that best aligns the
// subject onto the reference, starting from base. Ties resolve to the
// smallest absolute delta. Fails with ErrNoOverlap when either series is
// empty or the shifted series never overlap.
func (r *Reconciler) Refine(base telem.Clock) (Alignment, error) {
	sw := r.metrics.search
	sw.Start()
	defer sw.Stop()

	if r.cfg.Reference.Len() == 0 {
		return Alignment{}, newSimpleError(ErrNoOverlap, "reference series is empty")
	}
	if r.cfg.Subject.Len() == 0 {
		return Alignment{}, newSimpleError(ErrNoOverlap, "subject series is empty")
	}

	initial, ok := r.mse(base.Shift)
	if !ok {
		return Alignment{}, newSimpleError(ErrNoOverlap, "series do not overlap")
	}

	window, steps := r.cfg.Window.Seconds(), r.cfg.Steps
	if steps < 2 {
		steps = 2
	}
	var (
		found     bool
		bestDelta telem.TimeSpan
		bestMSE   float64
	)
	for k := 0; k < steps; k++ {
		delta := telem.TimeSpan(-window + 2*window*float64(k)/float64(steps-1))
		m, ok := r.mse(base.Shift + delta)
		if !ok {
			continue
		}
		r.metrics.candidates.Record(1)
		better := !found || m < bestMSE ||
			(m == bestMSE && delta.Abs() < bestDelta.Abs())
		if better {
			found, bestDelta, bestMSE = true, delta, m
		}
	}
	if !found {
		return Alignment{}, newSimpleError(ErrNoOverlap, "series do not overlap")
	}

	a := Alignment{
		Clock:      telem.Clock{Shift: base.Shift + bestDelta},
		Delta:      bestDelta,
		MSE:        bestMSE,
		InitialMSE: initial,
	}
	r.cfg.Logger.Debug(
		"refined clock shift",
		zap.Float64("initialMSE", a.InitialMSE),
		zap.Float64("mse", a.MSE),
		zap.String("delta", a.Delta.String()),
		zap.Float64("improvement", a.Improvement()),
	)
	return a, nil
}

// mse resamples the subject onto the reference timestamps after shifting it,
// restricted to the overlapping range, and averages the squared differences.
// ok is false when no reference sample falls inside the overlap.
func (r *Reconciler) mse(shift telem.TimeSpan) (float64, bool) {
	ref, subj := r.cfg.Reference, r.cfg.Subject
	overlap := ref.Range().Overlap(subj.Range().Shift(shift))
	if !overlap.Valid() {
		return 0, false
	}

	var (
		sum   float64
		count int
		j     int
	)
	for i := 0; i < ref.Len(); i++ {
		t, v := ref.At(i)
		if !overlap.ContainsStamp(t) {
			continue
		}
		for j+1 < subj.Len() && subj.ts[j+1].Add(shift).Before(t) {
			j++
		}
		d := v - subj.interp(j, t, shift)
		sum += d * d
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// interp linearly interpolates the series between samples j and j+1 at the
// shifted timestamp t.
func (s Series) interp(j int, t telem.TimeStamp, shift telem.TimeSpan) float64 {
	if j+1 >= s.Len() {
		return s.vals[s.Len()-1]
	}
	t0, t1 := s.ts[j].Add(shift), s.ts[j+1].Add(shift)
	if t <= t0 {
		return s.vals[j]
	}
	if t >= t1 {
		return s.vals[j+1]
	}
	frac := float64(t.Sub(t0)) / float64(t1.Sub(t0))
	return s.vals[j] + (s.vals[j+1]-s.vals[j])*frac
}

// |||||| METRICS ||||||

// reconcileMetrics tracks the cost of refinement searches.
type reconcileMetrics struct {
	// search tracks the duration of each Refine call.
	search meter.Duration
	// candidates counts evaluated grid positions.
	candidates meter.Metric[int64]
}

const reconcileMetricsKey = "reconcile"

func newReconcileMetrics(p meter.Profile) reconcileMetrics {
	sub := meter.Sub(p, reconcileMetricsKey)
	return reconcileMetrics{
		search:     meter.NewGaugeDuration(sub, "searchDur"),
		candidates: meter.NewGauge[int64](sub, "candidates"),
	}
}
