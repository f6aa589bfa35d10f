//go:build rp2040 || rp2350

// Package main's enginehal.go adapts the board's GPIO/PWM drivers
// (core.GPIODriver, core.PWMDriver) into a hal.HAL for
// internal/supervisor.Supervisor. Bit-banged step/dir/enable lines stand
// in for a PIO-based hardware pulse generator: that approach fires
// fixed-count pulse bursts into a PIO state machine and cannot report
// per-tick pulse counts back to internal/stepper.Engine, which the
// tick-driven Stepper contract (C6) requires for Hold/Resume/Stop to
// observe consistent state — see DESIGN.md.
package main

import (
	"time"

	"enginecore/core"

	"enginecore/internal/hal"
)

// PinMap assigns GPIO pins for the 2-axis engraver's step/dir/enable and
// limit/e-stop inputs, and a PWM pin for the spindle.
type PinMap struct {
	StepX, DirX, EnableX core.GPIOPin
	StepY, DirY, EnableY core.GPIOPin
	LimitX, LimitY       core.GPIOPin
	EStop                core.GPIOPin
	SpindlePWM           core.PWMPin
	SpindlePWMCycle      uint32
}

// EngineHAL implements hal.HAL over a board's GPIODriver/PWMDriver pair.
type EngineHAL struct {
	gpio core.GPIODriver
	pwm  core.PWMDriver
	pins PinMap

	spindleMax uint32
}

func NewEngineHAL(gpio core.GPIODriver, pwm core.PWMDriver, pins PinMap) (*EngineHAL, error) {
	h := &EngineHAL{gpio: gpio, pwm: pwm, pins: pins}

	for _, p := range []core.GPIOPin{pins.StepX, pins.DirX, pins.EnableX, pins.StepY, pins.DirY, pins.EnableY} {
		if err := gpio.ConfigureOutput(p); err != nil {
			return nil, err
		}
	}
	if err := gpio.ConfigureInputPullUp(pins.LimitX); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureInputPullUp(pins.LimitY); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureInputPullUp(pins.EStop); err != nil {
		return nil, err
	}

	if _, err := pwm.ConfigureHardwarePWM(pins.SpindlePWM, pins.SpindlePWMCycle); err != nil {
		return nil, err
	}
	h.spindleMax = pwm.GetMaxValue()

	return h, nil
}

// --- hal.Clock ---

// core.GetTime holds the RP2040's 1MHz hardware timer (UpdateSystemTime in
// clock.go), so its ticks are already microseconds.
func (h *EngineHAL) Millis() uint32 { return core.GetTime() / 1000 }
func (h *EngineHAL) Micros() uint32 { return core.GetTime() }
func (h *EngineHAL) DelayMicros(us uint32) { time.Sleep(time.Duration(us) * time.Microsecond) }

// --- hal.Steppers ---

func (h *EngineHAL) Enable(on bool) {
	_ = h.gpio.SetPin(h.pins.EnableX, on)
	_ = h.gpio.SetPin(h.pins.EnableY, on)
}

func (h *EngineHAL) SetDir(axis hal.Axis, positive bool) {
	switch axis {
	case hal.AxisX:
		_ = h.gpio.SetPin(h.pins.DirX, positive)
	case hal.AxisY:
		_ = h.gpio.SetPin(h.pins.DirY, positive)
	}
}

func (h *EngineHAL) StepPulse(mask hal.AxisMask) {
	if mask.Has(hal.AxisX) {
		_ = h.gpio.SetPin(h.pins.StepX, true)
	}
	if mask.Has(hal.AxisY) {
		_ = h.gpio.SetPin(h.pins.StepY, true)
	}
}

func (h *EngineHAL) StepClear() {
	_ = h.gpio.SetPin(h.pins.StepX, false)
	_ = h.gpio.SetPin(h.pins.StepY, false)
}

// --- hal.Spindle / hal.Coolant ---

func (h *EngineHAL) SetSpindle(dir hal.SpindleDir, pwm float64) {
	if dir == hal.SpindleOff {
		_ = h.pwm.SetDutyCycle(h.pins.SpindlePWM, 0)
		return
	}
	if pwm < 0 {
		pwm = 0
	}
	if pwm > 1 {
		pwm = 1
	}
	_ = h.pwm.SetDutyCycle(h.pins.SpindlePWM, core.PWMValue(pwm*float64(h.spindleMax)))
}

func (h *EngineHAL) SetCoolant(on bool) {
	// No coolant output wired on this board revision.
}

// --- hal.Inputs ---

func (h *EngineHAL) Limit(axis hal.Axis) bool {
	switch axis {
	case hal.AxisX:
		return h.gpio.ReadPin(h.pins.LimitX)
	case hal.AxisY:
		return h.gpio.ReadPin(h.pins.LimitY)
	default:
		return false
	}
}

func (h *EngineHAL) EStop() bool { return h.gpio.ReadPin(h.pins.EStop) }
