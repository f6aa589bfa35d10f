package config

import (
	"os"
	"testing"
)

func TestDefaultFillsAxesSerialAndMotion(t *testing.T) {
	cfg := Default()

	if cfg.Kinematics != "cartesian" {
		t.Errorf("kinematics = %q, want cartesian", cfg.Kinematics)
	}
	if cfg.Axes["x"].StepsPerMM != 80.0 {
		t.Errorf("x steps_per_mm = %v, want 80", cfg.Axes["x"].StepsPerMM)
	}
	if cfg.Axes["z"].MinPos != -50.0 || cfg.Axes["z"].MaxPos != 0.0 {
		t.Errorf("z range = [%v,%v], want [-50,0]", cfg.Axes["z"].MinPos, cfg.Axes["z"].MaxPos)
	}
	if cfg.Serial.Baud != 115200 {
		t.Errorf("baud = %d, want 115200", cfg.Serial.Baud)
	}
	if cfg.Motion.Acceleration != 500.0 {
		t.Errorf("acceleration = %v, want 500", cfg.Motion.Acceleration)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadAppliesPartialOverrides(t *testing.T) {
	path := writeTempConfig(t, `
kinematics: cartesian
axes:
  x:
    steps_per_mm: 100
serial:
  device: /dev/ttyACM0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Axes["x"].StepsPerMM != 100 {
		t.Errorf("x steps_per_mm = %v, want 100 (overridden)", cfg.Axes["x"].StepsPerMM)
	}
	if cfg.Axes["y"].StepsPerMM != 80.0 {
		t.Errorf("y steps_per_mm = %v, want default 80", cfg.Axes["y"].StepsPerMM)
	}
	if cfg.Serial.Device != "/dev/ttyACM0" {
		t.Errorf("serial device = %q, want override", cfg.Serial.Device)
	}
	if cfg.Serial.Baud != 115200 {
		t.Errorf("serial baud = %d, want default 115200", cfg.Serial.Baud)
	}
}

func TestStepsPerMMAndLimitTriples(t *testing.T) {
	cfg := Default()
	steps := cfg.StepsPerMM()
	if steps != [3]float64{80, 80, 80} {
		t.Errorf("StepsPerMM() = %v, want [80,80,80]", steps)
	}
	min := cfg.LimitMin()
	if min[2] != -50 {
		t.Errorf("LimitMin()[2] = %v, want -50", min[2])
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "machine-*.yaml")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	return f.Name()
}
