package kinematics

import "math"

// Config holds per-axis step calibration and travel limits, grounded on
// standalone/config/config.go's AxisConfig (StepsPerMM, Min/MaxPosition).
type Config struct {
	StepsPerMM [3]float64
	LimitMin   [3]float64
	LimitMax   [3]float64
}

// Cartesian is the 1:1 X/Y(/Z) kinematics used by the 2-axis engraver:
// cartesian mm map directly onto joint steps per axis, no cross-axis
// coupling. Grounded on standalone/kinematics/cartesian.go.
type Cartesian struct {
	cfg Config
}

func NewCartesian(cfg Config) *Cartesian {
	for i := range cfg.StepsPerMM {
		if cfg.StepsPerMM[i] == 0 {
			cfg.StepsPerMM[i] = 1
		}
	}
	return &Cartesian{cfg: cfg}
}

// SegmentMove for Cartesian kinematics is trivial: a straight line in
// cartesian space is already a straight line in joint space, so a single
// waypoint (the target) is emitted.
func (c *Cartesian) SegmentMove(current, target Point, emit func(Point) bool) {
	emit(target)
}

func (c *Cartesian) CartToJoint(p Point) JointPos {
	return JointPos{Steps: [3]int64{
		int64(math.Round(p.X * c.cfg.StepsPerMM[0])),
		int64(math.Round(p.Y * c.cfg.StepsPerMM[1])),
		int64(math.Round(p.Z * c.cfg.StepsPerMM[2])),
	}}
}

func (c *Cartesian) JointToCart(j JointPos) Point {
	return Point{
		X: float64(j.Steps[0]) / c.cfg.StepsPerMM[0],
		Y: float64(j.Steps[1]) / c.cfg.StepsPerMM[1],
		Z: float64(j.Steps[2]) / c.cfg.StepsPerMM[2],
	}
}

// ValidateHomingAxes accepts any non-empty subset of X/Y/Z.
func (c *Cartesian) ValidateHomingAxes(mask AxisMask) bool {
	return mask != 0 && mask <= (AxisX|AxisY|AxisZ)
}

func (c *Cartesian) AxisNames() []string { return []string{"X", "Y", "Z"} }

// CheckLimits reports whether p is within the configured travel bounds,
// following standalone/kinematics/cartesian.go's CheckLimits.
func (c *Cartesian) CheckLimits(p Point) bool {
	coords := [3]float64{p.X, p.Y, p.Z}
	for i, v := range coords {
		if v < c.cfg.LimitMin[i] || v > c.cfg.LimitMax[i] {
			return false
		}
	}
	return true
}
