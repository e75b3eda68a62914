package transform

import (
	"fmt"

	"divelog"
)

// |||||| TELEMETRY ||||||

// AHRS2 adds degree versions of the radian attitude fields.
func AHRS2() divelog.Transform {
	return Chain(
		Degrees("roll", "roll_deg"),
		Degrees("pitch", "pitch_deg"),
		Degrees("yaw", "yaw_deg"),
	)
}

// DistanceSensor adds the rangefinder distance in meters.
func DistanceSensor() divelog.Transform {
	return Scale("current_distance", "current_distance_m", 0.01)
}

type GPSConfig struct {
	// HdopMax drops fixes with hdop (or eph/100) above it when FilterBad is
	// set. Defaults to 100.0.
	HdopMax float64
	// FilterBad drops warm-up rows: lat=0 lon=0, fix_type < 3, hdop too high.
	FilterBad bool
}

func mergeGPSConfigDefaults(cfg GPSConfig) GPSConfig {
	if cfg.HdopMax == 0 {
		cfg.HdopMax = 100.0
	}
	return cfg
}

// GPS handles the GPS message family: GPS_INPUT, GPS_RAW_INT, GPS2_RAW and
// GLOBAL_POSITION_INT. Positions arrive in degE7 and centidegrees; derive
// plain degree and meter fields for convenience. GLOBAL_POSITION_INT carries
// altitude in mm, the others in m, so altitude scaling is per message type.
func GPS(msgType string, cfg GPSConfig) divelog.Transform {
	cfg = mergeGPSConfigDefaults(cfg)
	ts := []divelog.Transform{}
	if cfg.FilterBad {
		ts = append(ts, DropIf(func(rec divelog.Record) bool {
			lat, latOK := numField(rec, "lat")
			lon, lonOK := numField(rec, "lon")
			if latOK && lonOK && lat == 0 && lon == 0 {
				return true
			}
			if fix, ok := numField(rec, "fix_type"); ok && fix < 3 {
				return true
			}
			if hdop, ok := numField(rec, "hdop"); ok && hdop > cfg.HdopMax {
				return true
			}
			if eph, ok := numField(rec, "eph"); ok && eph/100.0 > cfg.HdopMax {
				return true
			}
			return false
		}))
	}
	ts = append(ts,
		Scale("lat", "lat_deg", 1.0e-7),
		Scale("lon", "lon_deg", 1.0e-7),
		Scale("yaw", "yaw_deg", 0.01),
	)
	if msgType == "GLOBAL_POSITION_INT" {
		ts = append(ts,
			Scale("hdg", "hdg_deg", 0.01),
			Scale("alt", "alt_m", 0.001),
			Scale("relative_alt", "relative_alt_m", 0.001),
		)
	}
	return Chain(ts...)
}

// rcMap names the six ArduSub manual control channels.
var rcMap = []struct {
	ch   int
	name string
}{
	{1, "pitch"}, {2, "roll"}, {3, "throttle"},
	{4, "yaw"}, {5, "forward"}, {6, "lateral"},
}

// RCChannels renames the raw RC channel fields by function.
func RCChannels() divelog.Transform {
	ts := make([]divelog.Transform, len(rcMap))
	for i, m := range rcMap {
		ts[i] = Rename(
			fmt.Sprintf("chan%d_raw", m.ch),
			fmt.Sprintf("chan%d_raw_%s", m.ch, m.name),
		)
	}
	return Chain(ts...)
}

// NamedValueFloat pivots NAMED_VALUE_FLOAT key-value records into per-name
// fields under a single SUB_INFO table, keeping only the listed names. The
// timestamps are fine-grained, so an unrestricted pivot explodes the merged
// frame.
func NamedValueFloat(names ...string) divelog.Transform {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		nameV, ok := rec.Fields.Get("name")
		if !ok || !keep[nameV.Str()] {
			return rec, false
		}
		value, ok := rec.Fields.Get("value")
		if !ok {
			return rec, false
		}
		out := divelog.NewRecord(rec.Timestamp, "SUB_INFO")
		out.Source = rec.Source
		out.Fields.Put(nameV.Str(), value)
		return out, true
	})
}

// |||||| DATAFLASH ||||||

// RCIN renames the dataflash RC input channels by function.
func RCIN() divelog.Transform {
	ts := make([]divelog.Transform, len(rcMap))
	for i, m := range rcMap {
		ts[i] = Rename(
			fmt.Sprintf("C%d", m.ch),
			fmt.Sprintf("C%d_%s", m.ch, m.name),
		)
	}
	return Chain(ts...)
}

// pscMap renames the position controller short codes to the underlying
// PosControl field names.
var pscMap = []struct {
	code string
	name string
}{
	{"TP", "pos_target"},
	{"P", "pos"},
	{"DV", "vel_desired"},
	{"TV", "vel_target"},
	{"V", "vel"},
	{"DA", "accel_desired"},
	{"TA", "accel_target"},
	{"A", "accel"},
}

// PosControl handles the PSCN/PSCE/PSCD position controller tables. axis is
// the field suffix 'N', 'E' or 'D'. flip negates each value, turning the
// down axis into an up axis for plotting.
func PosControl(axis byte, flip bool) divelog.Transform {
	return divelog.TransformFunc(func(rec divelog.Record) (divelog.Record, bool) {
		rec = edit(rec)
		for _, m := range pscMap {
			key := fmt.Sprintf("%s%c", m.code, axis)
			v, ok := rec.Fields.Get(key)
			if !ok {
				continue
			}
			if flip {
				if n, numeric := v.Num(); numeric {
					v = divelog.FloatValue(-n)
				}
			}
			rec.Fields.Delete(key)
			rec.Fields.Put(m.name, v)
		}
		return rec, true
	})
}

// Baro drops readings from the barometer inside the electronics tube (I=0).
func Baro() divelog.Transform {
	return DropIf(func(rec divelog.Record) bool {
		i, ok := numField(rec, "I")
		return ok && i == 0
	})
}

// AHR2 drops readings where the position estimate has not converged.
func AHR2() divelog.Transform {
	return DropIf(func(rec divelog.Record) bool {
		lat, ok := numField(rec, "Lat")
		return ok && lat == 0
	})
}

// EKFSplitTypes lists the EKF3 tables that report one row per core and only
// make sense split into per-core tables.
var EKFSplitTypes = []string{
	"XKF1", "XKF2", "XKF3", "XKF4", "XKFS", "XKQ", "XKT", "XKTV",
}

// SplitCores retags EKF records to "TYPE_core<C>".
func SplitCores() divelog.Transform {
	return SplitBy("C", "core")
}

// |||||| DEFAULT SETS ||||||

// Telemetry returns the default registry for telemetry logs.
func Telemetry(gps GPSConfig) divelog.Registry {
	var reg divelog.Registry
	reg.Register("AHRS2", AHRS2())
	reg.Register("DISTANCE_SENSOR", DistanceSensor())
	reg.Register("HEARTBEAT", Heartbeat())
	reg.Register("RC_CHANNELS", RCChannels())
	for _, t := range []string{"GLOBAL_POSITION_INT", "GPS_INPUT", "GPS_RAW_INT", "GPS2_RAW"} {
		reg.Register(t, GPS(t, gps))
	}
	return reg
}

// Dataflash returns the default registry for dataflash logs. pscu retags the
// position controller down axis as a made-up PSCU table with the sign
// flipped, so plots read as depth-up.
func Dataflash(pscu bool) divelog.Registry {
	var reg divelog.Registry
	reg.Register("RCIN", RCIN())
	reg.Register("PSCN", PosControl('N', false))
	reg.Register("PSCE", PosControl('E', false))
	if pscu {
		reg.Register("PSCD", Chain(
			Retag(func(divelog.Record) string { return "PSCU" }),
			PosControl('D', true),
		))
	} else {
		reg.Register("PSCD", PosControl('D', false))
	}
	reg.Register("BARO", Baro())
	reg.Register("AHR2", AHR2())
	for _, t := range EKFSplitTypes {
		reg.Register(t, SplitCores())
	}
	return reg
}
