// Package supervisor implements the top-level state machine (C7, spec.md
// §4.7): state transitions, alarm latching, line-processing dispatch, and
// status reporting. Grounded on standalone/manager.go's role as the
// component that owns and wires the rest of the stack, and on
// original_source/src/system_state.c for the exact transition table and
// status-report grammar.
package supervisor

import (
	"fmt"

	"enginecore/internal/gcode"
	"enginecore/internal/hal"
	"enginecore/internal/kinematics"
	"enginecore/internal/planner"
	"enginecore/internal/stepper"
)

// State is the supervisor's top-level machine state (spec.md §3
// SupervisorContext, §4.7).
type State int

const (
	StateIdle State = iota
	StateRunning
	StateHold
	StateJog
	StateAlarm
	StateHoming
	StateCheck
	StateSleep
	StateDoor
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Run"
	case StateHold:
		return "Hold"
	case StateJog:
		return "Jog"
	case StateAlarm:
		return "Alarm"
	case StateHoming:
		return "Home"
	case StateCheck:
		return "Check"
	case StateSleep:
		return "Sleep"
	case StateDoor:
		return "Door"
	default:
		return "Idle"
	}
}

// Alarm is the latched alarm code (spec.md §3).
type Alarm int

const (
	AlarmNone Alarm = iota
	AlarmHardLimit
	AlarmSoftLimit
	AlarmEStop
	AlarmProbeFail
	AlarmHomingFail
	AlarmOverflow
	AlarmSpindleStall
)

func (a Alarm) String() string {
	switch a {
	case AlarmHardLimit:
		return "HardLimit"
	case AlarmSoftLimit:
		return "SoftLimit"
	case AlarmEStop:
		return "EStop"
	case AlarmProbeFail:
		return "ProbeFail"
	case AlarmHomingFail:
		return "HomingFail"
	case AlarmOverflow:
		return "Overflow"
	case AlarmSpindleStall:
		return "SpindleStall"
	default:
		return "None"
	}
}

// SoftLimits bounds work-envelope travel, defaulting to the reference
// firmware's X∈[0,200], Y∈[0,200], Z∈[-50,0].
type SoftLimits struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

func DefaultSoftLimits() SoftLimits {
	return SoftLimits{XMin: 0, XMax: 200, YMin: 0, YMax: 200, ZMin: -50, ZMax: 0}
}

// Supervisor owns the ModalState (by way of the Executor), the planner
// queue, and (by reference) the Stepper — the sole point of mutation for
// machine state (spec.md §5 "Shared resources"). The kinematics adapter is
// a capability record passed in at construction, not a process-wide
// global (spec.md §9 design note #2).
type Supervisor struct {
	state State
	alarm Alarm

	homed              bool
	limitsEnabled      bool
	softLimitsEnabled  bool
	spindleEnabled     bool
	soft               SoftLimits

	workOffsetX, workOffsetY, workOffsetZ float64

	linesProcessed uint32
	errors         uint32
	uptimeMs       uint32

	kin      kinematics.Adapter
	queue    *planner.Queue
	executor *gcode.Executor
	stepper  *stepper.Engine
	hal      hal.HAL
}

// New assembles a Supervisor around a kinematics adapter and a HAL. It is
// the single place that wires the Executor, planner Queue and Stepper
// Engine together, mirroring standalone/manager.go's Initialize.
func New(kin kinematics.Adapter, h hal.HAL, params gcode.MotionParams) *Supervisor {
	queue := &planner.Queue{}
	return &Supervisor{
		state:             StateIdle,
		alarm:             AlarmNone,
		limitsEnabled:     true,
		soft:              DefaultSoftLimits(),
		softLimitsEnabled: false,
		spindleEnabled:    true,
		kin:               kin,
		queue:             queue,
		executor:          gcode.NewExecutor(kin, queue, params),
		stepper:           stepper.New(h, stepper.DefaultConfig()),
		hal:               h,
	}
}

func (s *Supervisor) State() State         { return s.state }
func (s *Supervisor) Alarm() Alarm         { return s.alarm }
func (s *Supervisor) LinesProcessed() uint32 { return s.linesProcessed }
func (s *Supervisor) Errors() uint32       { return s.errors }
func (s *Supervisor) Homed() bool          { return s.homed }

// SetLimitsEnabled toggles hard-limit checking during poll.
func (s *Supervisor) SetLimitsEnabled(on bool) { s.limitsEnabled = on }

// SetSoftLimitsEnabled toggles software travel-bound checking.
func (s *Supervisor) SetSoftLimitsEnabled(on bool) { s.softLimitsEnabled = on }

// SetWorkOffset sets the work coordinate system origin (G92/G10 L2 in the
// reference firmware; not exposed as a G-word in this spec's supported set
// but available to hosts/tests directly).
func (s *Supervisor) SetWorkOffset(x, y, z float64) {
	s.workOffsetX, s.workOffsetY, s.workOffsetZ = x, y, z
}

// setState applies spec.md §4.7's transition table. Any transition not
// listed is rejected and leaves the state unchanged. StateAlarm is not a
// valid target here: any → Alarm always goes through TriggerAlarm, which
// carries the mandatory side effects (spec.md §4.7 "Alarm side effects").
func (s *Supervisor) setState(target State) bool {
	if target == StateAlarm {
		return false
	}
	if s.state == StateAlarm && target != StateIdle {
		return false
	}
	switch target {
	case StateHoming:
		if s.state != StateIdle {
			return false
		}
	case StateRunning:
		if s.state != StateIdle && s.state != StateHold {
			return false
		}
	case StateHold:
		if s.state != StateRunning && s.state != StateJog {
			return false
		}
	case StateIdle:
		// Most states can transition to Idle; Alarm requires the
		// explicit-clear path via ClearAlarm, handled above.
	}
	s.state = target
	return true
}

// SetState requests an explicit state transition (spec.md §4.7 scenario
// 5: Alarm→Running must fail until explicitly cleared). StateAlarm is
// rejected here too — callers must use TriggerAlarm, the only path into
// Alarm that applies its side effects.
func (s *Supervisor) SetState(target State) bool {
	if target == StateAlarm {
		return false
	}
	return s.setState(target)
}

// TriggerAlarm latches an alarm: stops the stepper engine, disables
// steppers, forces spindle off, clears the pending planner queue (spec.md
// §4.7 "Alarm side effects").
func (s *Supervisor) TriggerAlarm(a Alarm) {
	s.state = StateAlarm
	s.alarm = a
	s.stepper.Stop()
	s.hal.Enable(false)
	s.hal.SetSpindle(hal.SpindleOff, 0)
	s.queue.Clear()
}

// ClearAlarm is the explicit-clear path out of Alarm (spec.md §4.7, §8
// "Alarm latching"); SoftReset is the only other call that leaves Alarm,
// and it also returns to Idle.
func (s *Supervisor) ClearAlarm() bool {
	if s.state != StateAlarm {
		return false
	}
	s.alarm = AlarmNone
	s.state = StateIdle
	return true
}

// ProcessLine is the externally-called entry point for one decoded
// G-code line (spec.md §4.7 "Line processing").
func (s *Supervisor) ProcessLine(line string) gcode.Status {
	switch s.state {
	case StateIdle, StateRunning:
		blk, pstatus := gcode.ParseLine(line)
		if pstatus != gcode.StatusOK {
			s.errors++
			return pstatus
		}
		status := s.executor.Execute(blk)
		if status == gcode.StatusOK {
			s.linesProcessed++
			if s.state == StateIdle {
				s.setState(StateRunning)
			}
			if s.executor.State().ProgramComplete {
				s.setState(StateIdle)
			}
		} else {
			s.errors++
		}
		return status
	case StateCheck:
		_, status := gcode.ParseLine(line)
		if status == gcode.StatusOK {
			s.linesProcessed++
		} else {
			s.errors++
		}
		return status
	default:
		s.errors++
		return gcode.StatusUnsupportedCmd
	}
}

// FeedHold handles the '!' real-time byte (spec.md §4.7): freezes the
// stepper engine's pulse emission in place.
func (s *Supervisor) FeedHold() {
	if s.state == StateRunning || s.state == StateJog {
		s.state = StateHold
		s.stepper.Hold()
	}
}

// CycleStart handles the '~' real-time byte: resumes a held stepper engine.
func (s *Supervisor) CycleStart() {
	if s.state == StateHold {
		s.state = StateRunning
		s.stepper.Resume(s.hal.Micros())
	}
}

// SoftReset handles the 0x18 real-time byte: stops the stepper engine,
// clears pending motion and any latched alarm, and returns to Idle,
// preserving homed state and position.
func (s *Supervisor) SoftReset() {
	s.stepper.Stop()
	s.queue.Clear()
	s.state = StateIdle
	s.alarm = AlarmNone
}

// Poll updates uptime and reads HAL inputs for hard-limit/e-stop
// conditions (spec.md §4.7).
func (s *Supervisor) Poll(nowMs uint32) {
	s.uptimeMs = nowMs

	if s.limitsEnabled && s.state == StateRunning {
		if s.hal.Limit(hal.AxisX) || s.hal.Limit(hal.AxisY) || s.hal.Limit(hal.AxisZ) {
			s.TriggerAlarm(AlarmHardLimit)
		}
		if s.hal.EStop() {
			s.TriggerAlarm(AlarmEStop)
		}
	}
}

// StepperUpdate is the round-robin loop's `stepper_update` step (spec.md
// §5): when the engine is idle and the machine is Running, it pops the
// next planner block and loads it, then advances the engine one tick.
// Called unconditionally every tick so a pending Stop (from TriggerAlarm
// or SoftReset) still completes its transition back to PhaseIdle even
// after the supervisor has already left StateRunning.
func (s *Supervisor) StepperUpdate() {
	if s.state == StateRunning && s.stepper.Phase() == stepper.PhaseIdle {
		if blk, ok := s.queue.Pop(); ok {
			s.stepper.Load(blk)
		}
	}
	s.stepper.Update(s.hal.Micros())
}

// StartHoming begins a homing cycle for the given axis mask. Valid only
// from Idle; the kinematics adapter may reject the mask (→ HomingFail).
func (s *Supervisor) StartHoming(mask kinematics.AxisMask) bool {
	if !s.setState(StateHoming) {
		return false
	}
	if !s.kin.ValidateHomingAxes(mask) {
		s.TriggerAlarm(AlarmHomingFail)
		return false
	}
	st := s.executor.State()
	st.X, st.Y = 0, 0
	s.homed = true
	s.setState(StateIdle)
	return true
}

// CheckSoftLimits reports whether (x,y,z) lies within the configured
// travel bounds.
func (s *Supervisor) CheckSoftLimits(x, y, z float64) bool {
	return x >= s.soft.XMin && x <= s.soft.XMax &&
		y >= s.soft.YMin && y <= s.soft.YMax &&
		z >= s.soft.ZMin && z <= s.soft.ZMax
}

// StatusReport formats the '?' response grammar (spec.md §6):
// <STATE|MPos:mx,my,mz|WPos:wx,wy,wz|F:f|S:s[|A:alarm]>.
func (s *Supervisor) StatusReport() string {
	st := s.executor.State()
	mx, my, mz := st.X, st.Y, 0.0
	wx := mx - s.workOffsetX
	wy := my - s.workOffsetY
	wz := mz - s.workOffsetZ

	report := fmt.Sprintf("<%s|MPos:%.3f,%.3f,%.3f|WPos:%.3f,%.3f,%.3f|F:%.1f|S:%.0f",
		s.state, mx, my, mz, wx, wy, wz, st.Feedrate, st.SpindleSpeed)
	if s.state == StateAlarm {
		report += "|A:" + s.alarm.String()
	}
	return report + ">"
}
