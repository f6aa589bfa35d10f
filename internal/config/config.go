// Package config loads the machine's YAML configuration file: per-axis
// step calibration and travel limits, serial port settings, and logging
// options. Grounded on standalone/config/config.go's LoadConfig/
// applyDefaults shape, adapted from its JSON encoding to the yaml.v3 idiom
// used by pony-zhang-go_control/internal/config/manager.go.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"enginecore/internal/logging"
)

// AxisConfig is one axis's step calibration and soft-limit bounds.
type AxisConfig struct {
	StepsPerMM float64 `yaml:"steps_per_mm"`
	MinPos     float64 `yaml:"min_pos"`
	MaxPos     float64 `yaml:"max_pos"`
}

// SerialConfig configures the host's connection to the I/O bridge board.
type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// MotionConfig carries the machine-wide motion constants the executor and
// planner need (spec.md §3 MotionParams).
type MotionConfig struct {
	Acceleration float64 `yaml:"acceleration"`
	RapidRate    float64 `yaml:"rapid_rate"`
}

// MachineConfig is the full on-disk machine description.
type MachineConfig struct {
	Kinematics string                `yaml:"kinematics"`
	Axes       map[string]AxisConfig `yaml:"axes"`
	Serial     SerialConfig          `yaml:"serial"`
	Motion     MotionConfig          `yaml:"motion"`
	Logging    logging.Config        `yaml:"logging"`

	LimitsEnabled     bool `yaml:"limits_enabled"`
	SoftLimitsEnabled bool `yaml:"soft_limits_enabled"`
}

// Load reads and parses a YAML machine configuration file, filling in
// defaults for anything left unset.
func Load(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg MachineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration for a 2-axis cartesian engraver with no
// config file present.
func Default() *MachineConfig {
	cfg := &MachineConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *MachineConfig) {
	if cfg.Kinematics == "" {
		cfg.Kinematics = "cartesian"
	}

	if cfg.Axes == nil {
		cfg.Axes = make(map[string]AxisConfig)
	}
	for _, name := range []string{"x", "y", "z"} {
		axis, ok := cfg.Axes[name]
		if !ok {
			axis = defaultAxis(name)
		}
		if axis.StepsPerMM == 0 {
			axis.StepsPerMM = 80.0
		}
		if axis.MinPos == 0 && axis.MaxPos == 0 {
			min, max := defaultAxisRange(name)
			axis.MinPos, axis.MaxPos = min, max
		}
		cfg.Axes[name] = axis
	}

	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "/dev/ttyUSB0"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.ReadTimeoutMs == 0 {
		cfg.Serial.ReadTimeoutMs = 50
	}

	if cfg.Motion.Acceleration == 0 {
		cfg.Motion.Acceleration = 500.0
	}
	if cfg.Motion.RapidRate == 0 {
		cfg.Motion.RapidRate = 3000.0
	}

	if cfg.Logging.Level == "" {
		cfg.Logging = logging.DefaultConfig()
	}
}

func defaultAxis(name string) AxisConfig {
	min, max := defaultAxisRange(name)
	return AxisConfig{StepsPerMM: 80.0, MinPos: min, MaxPos: max}
}

func defaultAxisRange(name string) (float64, float64) {
	if name == "z" {
		return -50.0, 0.0
	}
	return 0.0, 200.0
}

// StepsPerMM returns the [X,Y,Z] steps-per-mm triple in the order
// internal/kinematics.Config expects.
func (c *MachineConfig) StepsPerMM() [3]float64 {
	return [3]float64{c.Axes["x"].StepsPerMM, c.Axes["y"].StepsPerMM, c.Axes["z"].StepsPerMM}
}

// LimitMin returns the [X,Y,Z] lower travel bound triple.
func (c *MachineConfig) LimitMin() [3]float64 {
	return [3]float64{c.Axes["x"].MinPos, c.Axes["y"].MinPos, c.Axes["z"].MinPos}
}

// LimitMax returns the [X,Y,Z] upper travel bound triple.
func (c *MachineConfig) LimitMax() [3]float64 {
	return [3]float64{c.Axes["x"].MaxPos, c.Axes["y"].MaxPos, c.Axes["z"].MaxPos}
}
