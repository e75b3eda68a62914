// Package profile holds named sets of record types, selecting which tables
// an accumulation run keeps. Profiles load from YAML; two built-ins cover
// the generally useful types and a rangefinder-focused set.
package profile

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Profile struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
	// SubInfo lists the NAMED_VALUE_FLOAT names worth pivoting into the
	// SUB_INFO table. The full pivot explodes the merged frame.
	SubInfo []string `yaml:"sub_info,omitempty"`
}

// Builtin returns the built-in profiles. "useful" covers the tables that are
// generally interesting; "surftrak" narrows to rangefinder testing.
func Builtin() []Profile {
	return []Profile{
		{
			Name: "useful",
			Types: []string{
				"AHRS",
				"AHRS2",
				"ATTITUDE",
				"BATTERY_STATUS",
				"EKF_STATUS_REPORT",
				"GLOBAL_POSITION_INT",
				"GLOBAL_VISION_POSITION_ESTIMATE",
				"GPS2_RAW",
				"GPS_GLOBAL_ORIGIN",
				"GPS_RAW_INT",
				"HEARTBEAT",
				"LOCAL_POSITION_NED",
				"POWER_STATUS",
				"RANGEFINDER",
				"RAW_IMU",
				"RC_CHANNELS",
				"SCALED_IMU2",
				"SCALED_PRESSURE",
				"SCALED_PRESSURE2",
				"SERVO_OUTPUT_RAW",
				"SET_GPS_GLOBAL_ORIGIN",
				"SYS_STATUS",
				"SYSTEM_TIME",
				"TIMESYNC",
				"VFR_HUD",
				"VISION_POSITION_DELTA",
			},
			SubInfo: []string{"Lights2", "PilotGain"},
		},
		{
			Name: "surftrak",
			Types: []string{
				"AHRS2",
				"DISTANCE_SENSOR",
				"HEARTBEAT",
				"NAMED_VALUE_FLOAT",
				"RANGEFINDER",
				"RC_CHANNELS",
			},
			SubInfo: []string{"RFTarget"},
		},
	}
}

// Load reads profiles from a YAML file: a list of {name, types, sub_info}.
func Load(fs afero.Fs, path string) ([]Profile, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var profiles []Profile
	if err := yaml.Unmarshal(b, &profiles); err != nil {
		return nil, errors.Wrapf(err, "[divelog.profile] - failed to parse %s", path)
	}
	return profiles, nil
}

// Find returns the last profile with the given name, so profiles loaded
// after the built-ins shadow them.
func Find(profiles []Profile, name string) (Profile, bool) {
	for i := len(profiles) - 1; i >= 0; i-- {
		if profiles[i].Name == name {
			return profiles[i], true
		}
	}
	return Profile{}, false
}
