package telem

import (
	"fmt"
	"math"
	"time"
)

// |||||| TIME STAMP ||||||

// TimeStamp is a point on a timeline, in seconds. The epoch is defined by the
// source that produced it: wall-clock sources count from the unix epoch, device
// sources count from boot. Applying a Clock projects a device timestamp onto
// the wall-clock timeline.
type TimeStamp float64

func NewTimeStamp(t time.Time) TimeStamp {
	return TimeStamp(float64(t.UnixNano()) / float64(time.Second))
}

func Now() TimeStamp {
	return NewTimeStamp(time.Now())
}

var (
	TimeStampMin = TimeStamp(math.Inf(-1))
	TimeStampMax = TimeStamp(math.Inf(1))
)

func (ts TimeStamp) String() string {
	return fmt.Sprintf("%.3f", float64(ts))
}

// Time converts ts to a time.Time. Only meaningful for wall-clock timestamps.
func (ts TimeStamp) Time() time.Time {
	sec, frac := math.Modf(float64(ts))
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

func (ts TimeStamp) After(t TimeStamp) bool {
	return ts > t
}

func (ts TimeStamp) Before(t TimeStamp) bool {
	return ts < t
}

func (ts TimeStamp) Add(span TimeSpan) TimeStamp {
	return TimeStamp(float64(ts) + float64(span))
}

// Sub returns the span from t to ts.
func (ts TimeStamp) Sub(t TimeStamp) TimeSpan {
	return TimeSpan(float64(ts) - float64(t))
}

// |||||| TIME SPAN ||||||

// TimeSpan is a length of time, in seconds.
type TimeSpan float64

const (
	Microsecond = TimeSpan(1e-6)
	Millisecond = 1000 * Microsecond
	Second      = 1000 * Millisecond
	Minute      = 60 * Second
	Hour        = 60 * Minute
)

func NewTimeSpan(d time.Duration) TimeSpan {
	return TimeSpan(d.Seconds())
}

func (s TimeSpan) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

func (s TimeSpan) Seconds() float64 {
	return float64(s)
}

func (s TimeSpan) Abs() TimeSpan {
	return TimeSpan(math.Abs(float64(s)))
}

func (s TimeSpan) String() string {
	return fmt.Sprintf("%.6fs", float64(s))
}

// |||||| TIME RANGE ||||||

type TimeRange struct {
	Start TimeStamp
	End   TimeStamp
}

func NewTimeRange(start, end TimeStamp) TimeRange {
	return TimeRange{Start: start, End: end}
}

var TimeRangeMax = TimeRange{Start: TimeStampMin, End: TimeStampMax}

func (tr TimeRange) Span() TimeSpan {
	return tr.End.Sub(tr.Start)
}

func (tr TimeRange) IsZero() bool {
	return tr.Span() == 0
}

// Valid returns true if the range has non-negative span.
func (tr TimeRange) Valid() bool {
	return tr.End >= tr.Start
}

// ContainsStamp is inclusive at both ends.
func (tr TimeRange) ContainsStamp(ts TimeStamp) bool {
	return ts >= tr.Start && ts <= tr.End
}

// Overlap returns the intersection of tr and other. The result may be invalid,
// which means the ranges do not intersect.
func (tr TimeRange) Overlap(other TimeRange) TimeRange {
	o := TimeRange{Start: tr.Start, End: tr.End}
	if other.Start > o.Start {
		o.Start = other.Start
	}
	if other.End < o.End {
		o.End = other.End
	}
	return o
}

func (tr TimeRange) Shift(span TimeSpan) TimeRange {
	return TimeRange{Start: tr.Start.Add(span), End: tr.End.Add(span)}
}

// |||||| CLOCK ||||||

// Clock is an additive correction projecting a source-relative timestamp onto
// the common timeline. A source with zero shift defines the reference epoch.
type Clock struct {
	Shift TimeSpan
}

func (c Clock) Apply(ts TimeStamp) TimeStamp {
	return ts.Add(c.Shift)
}

func (c Clock) IsZero() bool {
	return c.Shift == 0
}

func (c Clock) String() string {
	return fmt.Sprintf("clock{shift=%v}", c.Shift)
}

// |||||| RATE ||||||

// Rate is a message rate in messages per second.
type Rate float64

const Hz Rate = 1

func (r Rate) Period() TimeSpan {
	return TimeSpan(1 / float64(r))
}
