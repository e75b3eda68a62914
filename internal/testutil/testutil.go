// Package testutil provides synthetic record sources and shared fixtures for
// the engine tests.
package testutil

import (
	"divelog"
	"divelog/telem"
)

// SliceSource replays a fixed slice of records through the divelog.Source
// contract.
type SliceSource struct {
	records []divelog.Record
	i       int
	err     error
	// Closes counts Close calls, for asserting ownership handoff.
	Closes int
}

func NewSliceSource(records ...divelog.Record) *SliceSource {
	return &SliceSource{records: records}
}

// FailWith surfaces err on Err once the records run out, simulating a decode
// fault cut short mid-stream.
func (s *SliceSource) FailWith(err error) *SliceSource {
	s.err = err
	return s
}

func (s *SliceSource) Next() bool {
	if s.i >= len(s.records) {
		return false
	}
	s.i++
	return true
}

func (s *SliceSource) Record() divelog.Record { return s.records[s.i-1] }

func (s *SliceSource) Err() error {
	if s.i >= len(s.records) {
		return s.err
	}
	return nil
}

func (s *SliceSource) Close() error {
	s.Closes++
	return nil
}

// Ramp builds n records of one type, period seconds apart, with a "v" field
// counting up from zero.
func Ramp(typeTag string, start telem.TimeStamp, period telem.TimeSpan, n int) []divelog.Record {
	records := make([]divelog.Record, n)
	for i := 0; i < n; i++ {
		rec := divelog.NewRecord(start.Add(telem.TimeSpan(i)*period), typeTag)
		rec.Fields.Put("v", divelog.FloatValue(float64(i)))
		records[i] = rec
	}
	return records
}

// Stamps lifts plain seconds into timestamps.
func Stamps(seconds ...float64) []telem.TimeStamp {
	ts := make([]telem.TimeStamp, len(seconds))
	for i, s := range seconds {
		ts[i] = telem.TimeStamp(s)
	}
	return ts
}

// RateFixture is the canonical rate estimation scenario: three clusters of
// records separated by two gaps wider than 4 seconds.
func RateFixture() []telem.TimeStamp {
	return Stamps(
		0.0, 0.1122, 0.2532, 0.3432, 0.4974, 0.5342, 0.6324, 0.7883,
		10.0123, 10.1897, 10.2321, 10.3998, 10.4234, 10.5643, 10.6248, 10.7431,
		20.0123, 20.1328, 20.2888,
	)
}
