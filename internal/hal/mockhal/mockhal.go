// Package mockhal is an in-memory hal.HAL for tests and the host simulator.
// It mirrors the reference mock HAL (original_source examples/hal_mock.c):
// millis auto-increments on each read, writes are no-ops that stay
// observable for assertions, and inputs are driven directly by test code.
package mockhal

import "enginecore/internal/hal"

// HAL is a fully in-process implementation of hal.HAL. Zero value is ready
// to use. Tests drive limit/e-stop state via the exported setters; they
// read back pulse/enable/direction state to assert stepper behavior.
type HAL struct {
	millis uint32
	micros uint32

	enabled    bool
	dirPos     [hal.NumAxes]bool
	pulseMask  hal.AxisMask
	pulseCount [hal.NumAxes]int

	spindleDir SpindleDir
	spindlePWM float64
	coolantOn  bool

	limits [hal.NumAxes]bool
	estop  bool

	delayCalls int
}

type SpindleDir = hal.SpindleDir

func New() *HAL { return &HAL{} }

// --- hal.Clock ---

func (h *HAL) Millis() uint32 {
	h.millis++
	return h.millis
}

func (h *HAL) Micros() uint32 {
	h.micros += 10
	return h.micros
}

func (h *HAL) DelayMicros(us uint32) {
	h.delayCalls++
	h.micros += us
}

// --- hal.Steppers ---

func (h *HAL) Enable(on bool) { h.enabled = on }

func (h *HAL) SetDir(axis hal.Axis, positive bool) {
	if int(axis) < len(h.dirPos) {
		h.dirPos[axis] = positive
	}
}

func (h *HAL) StepPulse(mask hal.AxisMask) {
	h.pulseMask = mask
	for a := hal.Axis(0); a < hal.NumAxes; a++ {
		if mask.Has(a) {
			h.pulseCount[a]++
		}
	}
}

func (h *HAL) StepClear() { h.pulseMask = 0 }

// --- hal.Spindle / hal.Coolant ---

func (h *HAL) SetSpindle(dir hal.SpindleDir, pwm float64) {
	h.spindleDir = dir
	h.spindlePWM = pwm
}

func (h *HAL) SetCoolant(on bool) { h.coolantOn = on }

// --- hal.Inputs ---

func (h *HAL) Limit(axis hal.Axis) bool {
	if int(axis) >= len(h.limits) {
		return false
	}
	return h.limits[axis]
}

func (h *HAL) EStop() bool { return h.estop }

// --- test/simulator control surface ---

func (h *HAL) SetLimit(axis hal.Axis, asserted bool) {
	if int(axis) < len(h.limits) {
		h.limits[axis] = asserted
	}
}

func (h *HAL) SetEStop(asserted bool) { h.estop = asserted }

func (h *HAL) Enabled() bool                { return h.enabled }
func (h *HAL) DirPositive(a hal.Axis) bool  { return h.dirPos[a] }
func (h *HAL) PulseCount(a hal.Axis) int    { return h.pulseCount[a] }
func (h *HAL) SpindleState() (hal.SpindleDir, float64) { return h.spindleDir, h.spindlePWM }
func (h *HAL) CoolantOn() bool              { return h.coolantOn }
