// Package stepper is the tick-driven pulse-generation engine that consumes
// planner blocks and emits per-axis step pulses with correct timing and
// direction, per spec.md §4.6. Grounded on standalone/stepgen/stepper.go
// and original_source/src/stepper.c's state machine.
package stepper

import "enginecore/internal/hal"
import "enginecore/internal/planner"

// Phase is the stepper's runtime state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseHold
	PhaseStopping
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhaseHold:
		return "Hold"
	case PhaseStopping:
		return "Stopping"
	default:
		return "Idle"
	}
}

// Config mirrors the reference firmware's stepper defaults
// (original_source/src/stepper.c's stepper_init).
type Config struct {
	PulseWidthUs  uint32
	DirSetupUs    uint32
	IdleDisable   bool
	IdleTimeoutMs uint32
}

func DefaultConfig() Config {
	return Config{
		PulseWidthUs:  10,
		DirSetupUs:    5,
		IdleDisable:   true,
		IdleTimeoutMs: 30000,
	}
}

// Engine is a poll-driven stepper state machine. It is not safe for
// concurrent use from multiple goroutines; when Update is invoked from a
// timer ISR, callers must serialize Load/Hold/Resume/Stop with it (spec.md
// §5). Both cmd/enginectl and the tinygo target call Load/Hold/Resume/Stop
// and Update from one loop on one goroutine, so no lock is taken here.
type Engine struct {
	hal hal.HAL
	cfg Config

	phase Phase

	stepTaken      [hal.NumAxes]uint32
	stepTarget     [hal.NumAxes]uint32
	directionBits  uint8
	position       [hal.NumAxes]int64

	lastStepTimeUs uint32
	stepIntervalUs uint32
	speed          float64

	idleStartUs   uint32
	motorsEnabled bool
}

func New(h hal.HAL, cfg Config) *Engine {
	return &Engine{hal: h, cfg: cfg, phase: PhaseIdle}
}

func (e *Engine) Phase() Phase { return e.phase }

// Position reports the current joint-space step position per axis.
func (e *Engine) Position() [hal.NumAxes]int64 { return e.position }

// Speed reports the engine's current commanded speed (mm/min), 0 when idle.
func (e *Engine) Speed() float64 { return e.speed }

// Load loads a validated planner block. Valid only from PhaseIdle.
//
// Step distribution follows the reference firmware's simplification
// (original_source/src/stepper.c's block_to_steps): StepEventCount is
// applied only to the block's dominant axis (the caller sets exactly one
// bit in DirectionBits); non-dominant axes with nonzero cartesian delta
// are not stepped this block. spec.md §9 leaves correct multi-axis
// distribution as an open question for a kinematics-directed redesign;
// TODO: distribute StepEventCount across every axis with nonzero delta
// (Bresenham-style) once the executor threads per-axis joint deltas
// through the block instead of a single scalar count.
func (e *Engine) Load(b planner.Block) bool {
	if e.phase != PhaseIdle {
		return false
	}
	if !b.Validate() {
		return false
	}

	mask := hal.AxisMask(b.DirectionBits)
	for a := hal.Axis(0); a < hal.NumAxes; a++ {
		e.stepTaken[a] = 0
		if mask.Has(a) {
			e.stepTarget[a] = b.StepEventCount
			e.hal.SetDir(a, true)
		} else {
			e.stepTarget[a] = 0
		}
	}
	e.directionBits = b.DirectionBits
	e.hal.DelayMicros(e.cfg.DirSetupUs)

	speedPerSec := b.EntrySpeed / 60.0
	if speedPerSec > 0 {
		e.stepIntervalUs = uint32(1_000_000.0 / speedPerSec)
	} else {
		e.stepIntervalUs = 1000
	}
	e.speed = b.EntrySpeed

	if !e.motorsEnabled {
		e.hal.Enable(true)
		e.motorsEnabled = true
	}

	e.phase = PhaseRunning
	e.lastStepTimeUs = e.hal.Micros()
	return true
}

// Update advances the state machine. now is a monotonic microsecond
// timestamp; the caller (a tick ISR or a tight poll loop) is responsible
// for calling Update at least as often as the desired minimum step
// interval (spec.md §4.6).
func (e *Engine) Update(nowUs uint32) {
	switch e.phase {
	case PhaseIdle:
		e.updateIdleDisable(nowUs)
	case PhaseRunning:
		e.updateRunning(nowUs)
	case PhaseHold:
		// no-op: pulse emission frozen, counters preserved.
	case PhaseStopping:
		e.hal.StepClear()
		e.speed = 0
		e.phase = PhaseIdle
		e.idleStartUs = nowUs
	}
}

func (e *Engine) updateIdleDisable(nowUs uint32) {
	if !e.cfg.IdleDisable || !e.motorsEnabled {
		return
	}
	if nowUs-e.idleStartUs >= e.cfg.IdleTimeoutMs*1000 {
		e.hal.Enable(false)
		e.motorsEnabled = false
	}
}

func (e *Engine) updateRunning(nowUs uint32) {
	if nowUs-e.lastStepTimeUs < e.stepIntervalUs {
		return
	}

	var mask hal.AxisMask
	for a := hal.Axis(0); a < hal.NumAxes; a++ {
		if e.stepTaken[a] < e.stepTarget[a] {
			mask |= 1 << uint(a)
			e.stepTaken[a]++
			if hal.AxisMask(e.directionBits).Has(a) {
				e.position[a]++
			} else {
				e.position[a]--
			}
		}
	}
	if mask != 0 {
		e.hal.StepPulse(mask)
		e.hal.DelayMicros(e.cfg.PulseWidthUs)
		e.hal.StepClear()
	}
	e.lastStepTimeUs = nowUs

	for a := hal.Axis(0); a < hal.NumAxes; a++ {
		if e.stepTaken[a] < e.stepTarget[a] {
			return
		}
	}
	// Block complete.
	e.phase = PhaseIdle
	e.speed = 0
	e.idleStartUs = nowUs
}

// Hold freezes pulse emission, preserving counters. Valid only from
// PhaseRunning.
func (e *Engine) Hold() bool {
	if e.phase != PhaseRunning {
		return false
	}
	e.phase = PhaseHold
	return true
}

// Resume restores PhaseRunning from PhaseHold, resetting last_step_time to
// now so there is no backward jump in the interval calculation.
func (e *Engine) Resume(nowUs uint32) bool {
	if e.phase != PhaseHold {
		return false
	}
	e.phase = PhaseRunning
	e.lastStepTimeUs = nowUs
	return true
}

// Stop is a one-shot transition to PhaseStopping; the next Update call
// clears pulses and zeroes speed, then moves to PhaseIdle.
func (e *Engine) Stop() {
	e.phase = PhaseStopping
}

// Busy reports whether a block is currently loaded and running or holding.
func (e *Engine) Busy() bool {
	return e.phase == PhaseRunning || e.phase == PhaseHold
}
