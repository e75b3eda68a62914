// Package meter collects opt-in performance measurements on a tree of
// profiles. A nil Profile disables collection entirely: every constructor
// returns a no-op metric, so instrumented code never branches on whether
// measurement is enabled.
package meter

import "time"

// |||||| PROFILE ||||||

type Profile interface {
	Sub(string) Profile
	Add(Measurement)
	Metrics() map[string]Measurement
	Report() map[string]interface{}
}

type profile struct {
	key      string
	children map[string]Profile
	metrics  map[string]Measurement
}

func New(name string) Profile {
	return &profile{
		key:      name,
		children: make(map[string]Profile),
		metrics:  make(map[string]Measurement),
	}
}

// Sub returns a child profile of p, creating it if needed. Safe to call with a
// nil p, in which case it returns nil.
func Sub(p Profile, key string) Profile {
	if p == nil {
		return nil
	}
	return p.Sub(key)
}

func (p *profile) Sub(key string) Profile {
	if c, ok := p.children[key]; ok {
		return c
	}
	c := New(key)
	p.children[key] = c
	return c
}

func (p *profile) Add(m Measurement) {
	p.metrics[m.Key()] = m
}

func (p *profile) Metrics() map[string]Measurement {
	return p.metrics
}

func (p *profile) Report() map[string]interface{} {
	r := make(map[string]interface{}, len(p.metrics)+len(p.children))
	for k, m := range p.metrics {
		r[k] = m.Value()
	}
	for k, c := range p.children {
		r[k] = c.Report()
	}
	return r
}

// |||||| MEASUREMENT ||||||

type Measurement interface {
	Key() string
	Value() interface{}
}

type Metric[T any] interface {
	Measurement
	Record(T)
	Values() []T
	Count() int
}

type entry struct {
	k string
}

func (e entry) Key() string {
	return e.k
}

type Numeric interface {
	float64 | float32 | int64 | int32 | int16 | int8 | uint64 | uint32 | uint16 | uint8 | int | time.Duration
}

// |||||| GAUGE ||||||

// gauge keeps a running total and count; Value reports the mean.
type gauge[T Numeric] struct {
	entry
	count int
	total T
}

func NewGauge[T Numeric](p Profile, key string) Metric[T] {
	if p == nil {
		return empty[T]{entry{k: key}}
	}
	m := &gauge[T]{entry: entry{k: key}}
	p.Add(m)
	return m
}

func (g *gauge[T]) Record(v T) {
	g.count++
	g.total += v
}

func (g *gauge[T]) Count() int {
	return g.count
}

func (g *gauge[T]) Values() []T {
	if g.count == 0 {
		return []T{0}
	}
	return []T{g.total / T(g.count)}
}

func (g *gauge[T]) Value() interface{} {
	return g.Values()[0]
}

// |||||| SERIES ||||||

type series[T any] struct {
	entry
	values []T
}

func NewSeries[T any](p Profile, key string) Metric[T] {
	if p == nil {
		return empty[T]{entry{k: key}}
	}
	m := &series[T]{entry: entry{k: key}}
	p.Add(m)
	return m
}

func (s *series[T]) Record(v T) {
	s.values = append(s.values, v)
}

func (s *series[T]) Count() int {
	return len(s.values)
}

func (s *series[T]) Values() []T {
	return s.values
}

func (s *series[T]) Value() interface{} {
	return s.values
}

// |||||| EMPTY ||||||

type empty[T any] struct {
	entry
}

func (empty[T]) Record(T) {}

func (empty[T]) Count() int {
	return 0
}

func (empty[T]) Values() []T {
	return nil
}

func (empty[T]) Value() interface{} {
	return nil
}
