// Package divelog reconciles, merges, and tabulates timestamped records from
// independent dive-log sources that do not share a clock epoch.
package divelog

import (
	"divelog/telem"
)

// |||| PIPELINE ||||

// Pipeline carries the shared logger and profile into the engines it
// constructs. Engine configs that already set their own Logger or Profile are
// left alone.
type Pipeline struct {
	opts *options
}

func New(opts ...Option) *Pipeline {
	return &Pipeline{opts: newOptions(opts...)}
}

func (p *Pipeline) NewMerger(cfg MergerConfig, inputs ...Input) (*Merger, error) {
	return NewMerger(p.fillMerger(cfg), inputs...)
}

func (p *Pipeline) NewReconciler(cfg ReconcileConfig) *Reconciler {
	if cfg.Logger == nil {
		cfg.Logger = p.opts.logger
	}
	if cfg.Profile == nil {
		cfg.Profile = p.opts.profile
	}
	return NewReconciler(cfg)
}

func (p *Pipeline) NewAccumulator(cfg AccumulatorConfig) *Accumulator {
	if cfg.Logger == nil {
		cfg.Logger = p.opts.logger
	}
	if cfg.Profile == nil {
		cfg.Profile = p.opts.profile
	}
	return NewAccumulator(cfg)
}

func (p *Pipeline) NewRateEstimator(cfg RateConfig) *RateEstimator {
	if cfg.Logger == nil {
		cfg.Logger = p.opts.logger
	}
	return NewRateEstimator(cfg)
}

func (p *Pipeline) MergeWide(tables []*Table, cfg WideConfig) *Frame {
	if cfg.Logger == nil {
		cfg.Logger = p.opts.logger
	}
	if cfg.Profile == nil {
		cfg.Profile = p.opts.profile
	}
	return MergeWide(tables, cfg)
}

// ParseSegments parses segment specs, logging and skipping malformed ones.
func (p *Pipeline) ParseSegments(specs []string) []Segment {
	return ParseSegments(specs, p.opts.logger)
}

// Windows hands each segment a window over one shared cursor.
func (p *Pipeline) Windows(src Source, segments []Segment) []*Window {
	return Windows(NewCursor(src), segments)
}

func (p *Pipeline) fillMerger(cfg MergerConfig) MergerConfig {
	if cfg.Logger == nil {
		cfg.Logger = p.opts.logger
	}
	if cfg.Profile == nil {
		cfg.Profile = p.opts.profile
	}
	return cfg
}

// Span reports the wall-clock span of a set of segments, zero when empty.
func Span(segments []Segment) telem.TimeSpan {
	if len(segments) == 0 {
		return 0
	}
	var total telem.TimeSpan
	for _, s := range segments {
		total += s.Range().Span()
	}
	return total
}
