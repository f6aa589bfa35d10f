// Package kinematics defines the coordinate <-> step transform contract
// (spec.md C8, external to the core). It replaces the reference firmware's
// process-wide mutable adapter record with a capability interface owned by
// whatever assembles a Supervisor and passed by reference into the
// Executor and Stepper (spec.md §9, design note #2) — grounded on
// standalone/kinematics/{kinematics,cartesian}.go, generalized from that
// package's X/Y/Z/E 1:1 mapping to this spec's X/Y(/Z) axes.
package kinematics

// Point is a cartesian waypoint in machine coordinates (mm).
type Point struct {
	X, Y, Z float64
}

// AxisMask selects a subset of logical axes, used for homing requests.
type AxisMask uint8

const (
	AxisX AxisMask = 1 << iota
	AxisY
	AxisZ
)

// JointPos is a joint-space (step count) position, one entry per axis.
type JointPos struct {
	Steps [3]int64
}

// Adapter is the kinematics contract: coordinate <-> step transforms and
// homing-axis validation. spec.md §6's segment_move iterator is expressed
// as a callback rather than a repeated stateful call, which is the
// idiomatic Go shape for the same contract.
type Adapter interface {
	// SegmentMove yields successive cartesian waypoints from current to
	// target along whatever path this kinematics geometry requires (a
	// straight line for Cartesian machines; potentially curved joint paths
	// for others). emit is called once per waypoint, in order, with the
	// final call always carrying target; returning false from emit stops
	// generation early.
	SegmentMove(current, target Point, emit func(Point) bool)

	// CartToJoint converts a cartesian position to joint-space step counts.
	CartToJoint(p Point) JointPos

	// JointToCart converts joint-space step counts back to cartesian.
	JointToCart(j JointPos) Point

	// ValidateHomingAxes reports whether the given axis mask is a request
	// this kinematics geometry can home.
	ValidateHomingAxes(mask AxisMask) bool

	// AxisNames returns the ordered logical axis names.
	AxisNames() []string
}
