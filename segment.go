package divelog

import (
	"divelog/telem"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// |||||| SEGMENT ||||||

// Segment is a named time window on the common timeline. Both ends are
// inclusive: a record belongs to the segment when Start <= ts <= End.
type Segment struct {
	Start telem.TimeStamp
	End   telem.TimeStamp
	// Name must be filesystem safe; it ends up in output file names.
	Name string
}

// NewSegment builds a segment, deriving a name from the bounds when name is
// empty. The derived name avoids dots so it can be embedded in file names.
func NewSegment(start, end telem.TimeStamp, name string) Segment {
	if name == "" {
		name = fmt.Sprintf("%.0f_%.0f", float64(start), float64(end))
	}
	return Segment{Start: start, End: end, Name: name}
}

func (s Segment) Range() telem.TimeRange {
	return telem.NewTimeRange(s.Start, s.End)
}

func (s Segment) Contains(ts telem.TimeStamp) bool {
	return ts >= s.Start && ts <= s.End
}

func (s Segment) String() string {
	return fmt.Sprintf("{start=%v, end=%v, name=%s}", s.Start, s.End, s.Name)
}

// |||||| PARSING ||||||

// Segment bounds below this look like time-since-start offsets rather than
// absolute timestamps; relative offsets are not supported.
const minSegmentStamp = telem.TimeStamp(1e7)

// ParseSegment parses "start,end" or "start,end,name", seconds on the common
// timeline. Failures return ErrMalformedSegment.
func ParseSegment(spec string) (Segment, error) {
	parts := strings.Split(spec, ",")
	var name string
	switch len(parts) {
	case 2:
	case 3:
		name = parts[2]
	default:
		return Segment{}, newSimpleError(
			ErrMalformedSegment,
			fmt.Sprintf("segment %q must be \"start,end\" or \"start,end,name\"", spec),
		)
	}

	start, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Segment{}, newDerivedError(
			ErrMalformedSegment,
			fmt.Errorf("segment %q - start %q is not a number", spec, parts[0]),
		)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Segment{}, newDerivedError(
			ErrMalformedSegment,
			fmt.Errorf("segment %q - end %q is not a number", spec, parts[1]),
		)
	}

	if telem.TimeStamp(start) < minSegmentStamp || telem.TimeStamp(end) < minSegmentStamp {
		return Segment{}, newSimpleError(
			ErrMalformedSegment,
			fmt.Sprintf("segment %q - bounds must be absolute timestamps, time-since-start is not supported", spec),
		)
	}

	return NewSegment(telem.TimeStamp(start), telem.TimeStamp(end), name), nil
}

// ParseSegments parses a batch of segment specs. Malformed items are logged
// and skipped; the rest of the batch is returned.
func ParseSegments(specs []string, logger *zap.Logger) []Segment {
	if logger == nil {
		logger = zap.NewNop()
	}
	segments := make([]Segment, 0, len(specs))
	for _, spec := range specs {
		seg, err := ParseSegment(spec)
		if err != nil {
			logger.Warn("skipping malformed segment", zap.String("spec", spec), zap.Error(err))
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}
