package divelog

import (
	"go.uber.org/zap"

	"divelog/telem"
)

type RateConfig struct {
	// HalfWindow is the window half-width in records. The window spans up to
	// 2*HalfWindow intervals around the cursor. Defaults to 10. [OPTIONAL]
	HalfWindow int
	// MaxGap is the gap threshold in seconds. Consecutive timestamps further
	// apart than MaxGap split the sequence, and the rate on both sides of the
	// split is forced to zero. [REQUIRED]
	MaxGap telem.TimeSpan
	// MaxRate clamps degenerate windows (near-zero elapsed time, duplicate
	// timestamps). Defaults to 100.0. [OPTIONAL]
	MaxRate float64
	// Logger is the witness of estimation. [OPTIONAL]
	Logger *zap.Logger
}

func mergeRateConfigDefaults(cfg RateConfig) RateConfig {
	if cfg.HalfWindow == 0 {
		cfg.HalfWindow = 10
	}
	if cfg.MaxRate == 0 {
		cfg.MaxRate = 100.0
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// RateEstimator annotates an ordered timestamp sequence with an estimated
// message rate, computed over a sliding window of up to 2*HalfWindow
// intervals. Gaps wider than MaxGap split the sequence; the records on both
// sides of a split report a rate of zero, as does the last record, so that
// breaks stand out in a plot.
type RateEstimator struct{ cfg RateConfig }

func NewRateEstimator(cfg RateConfig) *RateEstimator {
	return &RateEstimator{cfg: mergeRateConfigDefaults(cfg)}
}

// Estimate returns one rate per timestamp. Sequences too short to form a full
// window (fewer than 2*HalfWindow + 1 records) return nil.
func (e *RateEstimator) Estimate(ts []telem.TimeStamp) []float64 {
	halfN := e.cfg.HalfWindow
	if len(ts) < 2*halfN+1 {
		return nil
	}

	gapRight := func(j int) bool {
		return j+1 < len(ts) && ts[j+1].Sub(ts[j]) > e.cfg.MaxGap
	}

	rates := make([]float64, len(ts))
	var totalGaps telem.TimeSpan

	// wl and wr bound the window; it holds rows [wl, wr) and spans wr-wl-1
	// intervals.
	wl, i, wr := 0, 0, 0
	for wr < len(ts) && wr < halfN && !gapRight(wr) {
		wr++
	}

	for i < len(ts)-1 {
		if wr < len(ts) && !gapRight(wr-1) {
			wr++
		}

		if gapRight(i) {
			gap := ts[i+1].Sub(ts[i])
			totalGaps += gap
			e.cfg.Logger.Info(
				"gap detected",
				zap.Stringer("at", ts[i]),
				zap.Stringer("gap", gap),
			)

			rates[i] = 0.0
			i++
			rates[i] = 0.0

			wl, wr = i, i+1
			for wr < len(ts) && wr-wl-1 < halfN && !gapRight(wr) {
				wr++
			}
		} else {
			intervals := float64(wr - wl - 1)
			elapsed := ts[wr-1].Sub(ts[wl]).Seconds()

			// Duplicate or near-duplicate timestamps make the window
			// degenerate. Clamp instead of dividing by zero.
			if elapsed < 0.01 {
				e.cfg.Logger.Warn(
					"degenerate window, clamping rate",
					zap.String("kind", ErrDegenerateWindow.String()),
					zap.Int("index", i),
					zap.Float64("elapsed", elapsed),
					zap.Float64("clamp", e.cfg.MaxRate),
				)
				rates[i] = e.cfg.MaxRate
			} else if intervals/elapsed > e.cfg.MaxRate {
				e.cfg.Logger.Warn(
					"rate above clamp",
					zap.String("kind", ErrDegenerateWindow.String()),
					zap.Int("index", i),
					zap.Float64("clamp", e.cfg.MaxRate),
				)
				rates[i] = e.cfg.MaxRate
			} else {
				rates[i] = intervals / elapsed
			}

			if i-wl >= halfN {
				wl++
			}
		}

		i++
	}

	// The last record always reads zero, marking "no further data".
	rates[len(rates)-1] = 0.0

	total := ts[len(ts)-1].Sub(ts[0])
	if total > 0 {
		e.cfg.Logger.Debug(
			"rate summary",
			zap.Int("records", len(ts)),
			zap.Stringer("span", total),
			zap.Float64("perSecond", float64(len(ts))/total.Seconds()),
			zap.Stringer("gaps", totalGaps),
		)
	}
	return rates
}

// Annotate computes rates over the table's timestamps and attaches them as a
// column. Column defaults to "rate". Tables too short for a full window are
// left untouched.
func (e *RateEstimator) Annotate(tbl *Table, column string) error {
	if column == "" {
		column = "rate"
	}
	rates := e.Estimate(tbl.Timestamps())
	if rates == nil {
		e.cfg.Logger.Debug(
			"table too short for rate estimation",
			zap.String("type", tbl.Type()),
			zap.Int("rows", tbl.Len()),
		)
		return nil
	}
	return tbl.AddColumn(column, rates)
}
