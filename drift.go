package divelog

import (
	"divelog/telem"
	"math"
)

// |||||| DRIFT ||||||

// DriftReport summarizes how the wall-minus-boot offset of a source behaves
// over a stream. A stable offset means the coarse boot shift is trustworthy;
// a large net drift means refinement (or a better signal) is needed.
type DriftReport struct {
	Samples int
	Min     telem.TimeSpan
	Max     telem.TimeSpan
	Mean    telem.TimeSpan
	StdDev  telem.TimeSpan
	// Net is the offset change from the first to the last observation.
	Net telem.TimeSpan
	// Span is the wall-clock time the observations cover.
	Span telem.TimeSpan
}

// MeasureDrift computes offset statistics over an ordered set of time pairs.
// ok is false when pairs is empty.
func MeasureDrift(pairs []TimePair) (report DriftReport, ok bool) {
	if len(pairs) == 0 {
		return DriftReport{}, false
	}

	offsets := make([]float64, len(pairs))
	for i, p := range pairs {
		offsets[i] = float64(p.Wall) - p.Boot.Seconds()
	}

	min, max, sum := offsets[0], offsets[0], 0.0
	for _, o := range offsets {
		if o < min {
			min = o
		}
		if o > max {
			max = o
		}
		sum += o
	}
	mean := sum / float64(len(offsets))

	var variance float64
	for _, o := range offsets {
		d := o - mean
		variance += d * d
	}
	variance /= float64(len(offsets))

	return DriftReport{
		Samples: len(pairs),
		Min:     telem.TimeSpan(min),
		Max:     telem.TimeSpan(max),
		Mean:    telem.TimeSpan(mean),
		StdDev:  telem.TimeSpan(math.Sqrt(variance)),
		Net:     telem.TimeSpan(offsets[len(offsets)-1] - offsets[0]),
		Span:    pairs[len(pairs)-1].Wall.Sub(pairs[0].Wall),
	}, true
}
