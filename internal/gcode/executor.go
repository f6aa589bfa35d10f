package gcode

import (
	"math"

	"enginecore/internal/arc"
	"enginecore/internal/kinematics"
	"enginecore/internal/planner"
)

// MotionParams carries the machine-wide constants the executor needs to
// turn a geometric move into a PlannerBlock: acceleration and the rapid
// (G00) traverse speed.
type MotionParams struct {
	Acceleration float64
	RapidRate    float64
}

// Executor applies modal state and dispatches motion/control actions
// (spec.md §4.3). It holds the kinematics adapter by reference, per
// spec.md §9's design note #2 (no process-wide global adapter) — it is the
// Supervisor's job to construct one Executor per machine and own it.
type Executor struct {
	state  *State
	kin    kinematics.Adapter
	queue  *planner.Queue
	params MotionParams
}

func NewExecutor(kin kinematics.Adapter, queue *planner.Queue, params MotionParams) *Executor {
	return &Executor{state: NewState(), kin: kin, queue: queue, params: params}
}

func (e *Executor) State() *State { return e.state }

// Execute applies one parsed block to the modal state. Modal update order:
// G-word first, then M-word, then standalone S (spec.md §4.3).
func (e *Executor) Execute(blk Block) Status {
	if blk.HasG {
		if status := e.executeG(blk); status != StatusOK {
			return status
		}
	}
	if blk.HasM {
		return e.executeM(blk)
	}
	if blk.HasS {
		e.state.SpindleSpeed = blk.S
	}
	return StatusOK
}

func (e *Executor) executeG(blk Block) Status {
	if blk.HasF {
		if blk.F <= 0 {
			return StatusInvalidParam
		}
		e.state.Feedrate = blk.F
		e.state.FeedrateSet = true
	}

	switch blk.G {
	case 0:
		e.state.Motion = MotionRapid
		return e.doLinearMove(blk, true)
	case 1:
		e.state.Motion = MotionLinear
		if !e.state.FeedrateSet {
			return StatusMissingParam
		}
		return e.doLinearMove(blk, false)
	case 2:
		e.state.Motion = MotionArcCW
		return e.doArcMove(blk, true)
	case 3:
		e.state.Motion = MotionArcCCW
		return e.doArcMove(blk, false)
	case 4:
		return e.doDwell(blk)
	case 90:
		e.state.Coord = CoordAbsolute
		return StatusOK
	case 91:
		e.state.Coord = CoordRelative
		return StatusOK
	case 93:
		e.state.Feed = FeedInverseTime
		return StatusOK
	case 94:
		e.state.Feed = FeedUnitsPerMinute
		return StatusOK
	default:
		return StatusUnsupportedCmd
	}
}

func (e *Executor) executeM(blk Block) Status {
	switch blk.M {
	case 2, 30:
		e.state.Spindle = SpindleOff
		e.state.ProgramComplete = true
		if blk.M == 30 {
			e.state.X = 0
			e.state.Y = 0
		}
		return StatusOK
	case 3:
		e.state.Spindle = SpindleCW
		if blk.HasS {
			e.state.SpindleSpeed = blk.S
		}
		return StatusOK
	case 4:
		e.state.Spindle = SpindleCCW
		if blk.HasS {
			e.state.SpindleSpeed = blk.S
		}
		return StatusOK
	case 5:
		e.state.Spindle = SpindleOff
		if blk.HasS {
			e.state.SpindleSpeed = blk.S
		}
		return StatusOK
	default:
		return StatusUnknownCmd
	}
}

// computeTarget applies the absolute/relative coordinate rule (spec.md
// §4.3) to X/Y words, defaulting to the current position when a word is
// absent.
func (e *Executor) computeTarget(blk Block) (x, y float64) {
	x, y = e.state.X, e.state.Y
	switch e.state.Coord {
	case CoordAbsolute:
		if blk.HasX {
			x = blk.X
		}
		if blk.HasY {
			y = blk.Y
		}
	case CoordRelative:
		if blk.HasX {
			x = e.state.X + blk.X
		}
		if blk.HasY {
			y = e.state.Y + blk.Y
		}
	}
	return
}

func (e *Executor) doLinearMove(blk Block, rapid bool) Status {
	targetX, targetY := e.computeTarget(blk)
	target := kinematics.Point{X: targetX, Y: targetY}
	current := kinematics.Point{X: e.state.X, Y: e.state.Y}

	failed := false
	from := current
	e.kin.SegmentMove(current, target, func(p kinematics.Point) bool {
		if !e.enqueueSegment(from, p, rapid) {
			failed = true
			return false
		}
		from = p
		return true
	})
	if failed {
		return StatusOverflow
	}

	e.state.X = targetX
	e.state.Y = targetY
	return StatusOK
}

func (e *Executor) doArcMove(blk Block, cw bool) Status {
	if !e.state.FeedrateSet {
		return StatusMissingParam
	}

	targetX, targetY := e.computeTarget(blk)
	start := arc.Point{X: e.state.X, Y: e.state.Y}
	end := arc.Point{X: targetX, Y: targetY}

	var params arc.Params
	switch {
	case blk.HasR:
		params = arc.Params{Start: start, End: end, CW: cw, R: blk.R, UseR: true}
	case blk.HasI || blk.HasJ:
		params = arc.Params{Start: start, End: end, CW: cw, I: blk.I, J: blk.J}
	default:
		return StatusMissingParam
	}

	current := kinematics.Point{X: start.X, Y: start.Y}
	failed := false
	err := arc.Generate(params, func(p arc.Point) bool {
		next := kinematics.Point{X: p.X, Y: p.Y}
		if !e.enqueueSegment(current, next, false) {
			failed = true
			return false
		}
		current = next
		return true
	})
	if err != nil {
		return StatusInvalidTarget
	}
	if failed {
		return StatusOverflow
	}

	e.state.X = targetX
	e.state.Y = targetY
	return StatusOK
}

func (e *Executor) doDwell(blk Block) Status {
	if !blk.HasP || blk.P < 0 {
		return StatusMissingParam
	}
	e.state.Motion = MotionDwell
	return StatusOK
}

// enqueueSegment converts one cartesian segment into a PlannerBlock and
// pushes it onto the queue. Direction and step counting follow the
// dominant-axis simplification documented in internal/stepper (spec.md
// §9's open question): only the axis with the larger joint-step delta is
// flagged to move this block.
func (e *Executor) enqueueSegment(from, to kinematics.Point, rapid bool) bool {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)

	fromJ := e.kin.CartToJoint(from)
	toJ := e.kin.CartToJoint(to)
	dsx := toJ.Steps[0] - fromJ.Steps[0]
	dsy := toJ.Steps[1] - fromJ.Steps[1]

	var bits uint8
	var steps uint32
	if abs64(dsx) >= abs64(dsy) {
		steps = uint32(abs64(dsx))
		if dsx > 0 {
			bits = 1 << 0
		}
	} else {
		steps = uint32(abs64(dsy))
		if dsy > 0 {
			bits = 1 << 1
		}
	}

	nominal := e.state.Feedrate
	if rapid && e.params.RapidRate > 0 {
		nominal = e.params.RapidRate
	}

	blk := planner.Block{
		NominalSpeed:   nominal,
		MaxEntrySpeed:  nominal,
		// No look-ahead between blocks (spec.md's minimum per-block
		// contract permits this): enter and exit each block at its own
		// nominal speed rather than ramping, so the programmed feedrate
		// still reaches the stepper instead of stepper.Engine.Load's
		// zero-EntrySpeed fallback of a fixed 1ms/step.
		EntrySpeed:     nominal,
		ExitSpeed:      nominal,
		Acceleration:   e.params.Acceleration,
		Millimeters:    dist,
		DirectionBits:  bits,
		StepEventCount: steps,
	}
	return e.queue.Push(blk)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
