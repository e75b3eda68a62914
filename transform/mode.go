package transform

import (
	"fmt"

	"divelog"
)

// |||||| MODE ||||||

// Mode is a flight mode combined with armed state. Disarmed vehicles report
// ModeDisarmed regardless of the autopilot's custom mode, giving a single
// value that captures both.
type Mode int64

const (
	ModeDisarmed    Mode = -10
	ModeUnknown     Mode = -9
	ModeStabilize   Mode = 0
	ModeAcro        Mode = 1
	ModeAltHold     Mode = 2
	ModeAuto        Mode = 3
	ModeGuided      Mode = 4
	ModeCircle      Mode = 7
	ModeSurface     Mode = 9
	ModePosHold     Mode = 16
	ModeManual      Mode = 19
	ModeMotorDetect Mode = 20
	ModeRngHold     Mode = 21
)

var modeNames = map[Mode]string{
	ModeDisarmed:    "DISARMED",
	ModeUnknown:     "UNKNOWN",
	ModeStabilize:   "STABILIZE",
	ModeAcro:        "ACRO",
	ModeAltHold:     "ALT_HOLD",
	ModeAuto:        "AUTO",
	ModeGuided:      "GUIDED",
	ModeCircle:      "CIRCLE",
	ModeSurface:     "SURFACE",
	ModePosHold:     "POS_HOLD",
	ModeManual:      "MANUAL",
	ModeMotorDetect: "MOTOR_DETECT",
	ModeRngHold:     "RNG_HOLD",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode %d", int64(m))
}

// IsArmed reports the armed bit of a heartbeat base mode. base_mode is a
// bitfield, 128 == armed.
func IsArmed(baseMode int64) bool {
	return baseMode >= 128
}

// CombinedMode folds armed state and custom mode into one value.
func CombinedMode(baseMode, customMode int64) Mode {
	if IsArmed(baseMode) {
		return Mode(customMode)
	}
	return ModeDisarmed
}

// Heartbeat derives a "mode" field from base_mode and custom_mode.
func Heartbeat() divelog.Transform {
	return Derive("mode", func(rec divelog.Record) (divelog.Value, bool) {
		base, ok := numField(rec, "base_mode")
		if !ok {
			return divelog.Value{}, false
		}
		custom, ok := numField(rec, "custom_mode")
		if !ok {
			return divelog.Value{}, false
		}
		return divelog.IntValue(int64(CombinedMode(int64(base), int64(custom)))), true
	})
}

// SysName names well-known MAVLink system ids.
func SysName(sys uint8) string {
	switch sys {
	case 1:
		return "Vehicle"
	case 255:
		return "QGroundControl or similar"
	default:
		return "unknown"
	}
}
