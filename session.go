package divelog

import (
	"divelog/telem"

	"go.uber.org/zap"
)

// |||||| TIME PAIR ||||||

// TimePair couples a wall-clock observation with the producing device's time
// since boot at that moment. Pairs come from records that carry both, sampled
// at a steady rate.
type TimePair struct {
	Wall   telem.TimeStamp
	Boot   telem.TimeSpan
	Origin string
}

// |||||| SESSION ||||||

// Session is one continuous powered-on stretch of the device, as observed
// through a wall-clock stream.
type Session struct {
	// Wall is the wall-clock extent of the session.
	Wall telem.TimeRange
	// BootStart and BootEnd are the device's time-since-boot at the first
	// and last observation.
	BootStart telem.TimeSpan
	BootEnd   telem.TimeSpan
	// Origin names the stream that opened the session.
	Origin string
}

// Clock returns the coarse clock implied by the session's first observation.
func (s Session) Clock() telem.Clock {
	return BootShift(s.Wall.Start, s.BootStart)
}

// Segment returns the session as a window on the common timeline.
func (s Session) Segment() Segment {
	return NewSegment(s.Wall.Start, s.Wall.End, "")
}

// |||||| CONFIG ||||||

type SessionConfig struct {
	// MaxGap opens a new session when consecutive wall observations are
	// further apart. Defaults to 5s.
	MaxGap telem.TimeSpan
	// Logger receives one line per session boundary. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

func mergeSessionConfigDefaults(cfg SessionConfig) SessionConfig {
	if cfg.MaxGap == 0 {
		cfg.MaxGap = 5 * telem.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// |||||| DETECTION ||||||

// DetectSessions splits an ordered stream of time pairs into boot sessions.
// A wall-clock gap beyond MaxGap or a backwards step in time-since-boot both
// mean the device restarted (or a new recording began) and open a new
// session.
func DetectSessions(pairs []TimePair, cfg SessionConfig) []Session {
	cfg = mergeSessionConfigDefaults(cfg)
	var sessions []Session
	for _, p := range pairs {
		if len(sessions) == 0 {
			cfg.Logger.Debug(
				"first session",
				zap.String("bootStart", p.Boot.String()),
				zap.String("origin", p.Origin),
			)
			sessions = append(sessions, newSession(p))
			continue
		}
		last := &sessions[len(sessions)-1]
		switch {
		case p.Wall.After(last.Wall.End.Add(cfg.MaxGap)):
			cfg.Logger.Debug(
				"gap opens new session",
				zap.String("at", last.BootEnd.String()),
				zap.String("bootStart", p.Boot.String()),
			)
			sessions = append(sessions, newSession(p))
		case p.Boot < last.BootEnd:
			cfg.Logger.Debug(
				"backwards boot time opens new session",
				zap.String("at", last.BootEnd.String()),
				zap.String("bootStart", p.Boot.String()),
			)
			sessions = append(sessions, newSession(p))
		default:
			last.Wall.End = p.Wall
			last.BootEnd = p.Boot
		}
	}
	return sessions
}

func newSession(p TimePair) Session {
	return Session{
		Wall:      telem.NewTimeRange(p.Wall, p.Wall),
		BootStart: p.Boot,
		BootEnd:   p.Boot,
		Origin:    p.Origin,
	}
}

// CollectTimePairs drains src and extracts time pairs from records of the
// given type carrying a duration-since-boot field, in milliseconds (the
// convention for boot-time telemetry fields).
func CollectTimePairs(src Source, typeTag, bootMSField string) []TimePair {
	var pairs []TimePair
	for src.Next() {
		rec := src.Record()
		if typeTag != "" && rec.Type != typeTag {
			continue
		}
		v, ok := rec.Fields.Get(bootMSField)
		if !ok {
			continue
		}
		ms, ok := v.Num()
		if !ok {
			continue
		}
		pairs = append(pairs, TimePair{
			Wall:   rec.Timestamp,
			Boot:   telem.TimeSpan(ms / 1000.0),
			Origin: rec.Source.Path,
		})
	}
	return pairs
}
