//go:build rp2040 || rp2350

package main

import (
	"enginecore/core"
	"machine"
	"time"

	"enginecore/internal/config"
	"enginecore/internal/gcode"
	"enginecore/internal/kinematics"
	"enginecore/internal/protocol"
	"enginecore/internal/supervisor"
)

// enginePins is this board's step/dir/enable/limit/e-stop/spindle wiring.
// Pin numbers are RP2040 GPIO numbers (gpio0-gpio29), mapped 1:1 by
// RPGPIODriver.pinNumberToMachinePin.
var enginePins = PinMap{
	StepX: 0, DirX: 1, EnableX: 8,
	StepY: 2, DirY: 3, EnableY: 8,
	LimitX: 20, LimitY: 21,
	EStop:           22,
	SpindlePWM:      10,
	SpindlePWMCycle: 1_000_000,
}

// RunEngineCoreMode runs the board as a standalone 2-axis G-code engraver
// (spec.md's full core). main() calls it unconditionally once the GPIO and
// PWM drivers are registered; it never returns.
func RunEngineCoreMode() {
	gpioDriver := core.MustGPIO()
	pwmDriver := core.MustPWM()

	h, err := NewEngineHAL(gpioDriver, pwmDriver, enginePins)
	if err != nil {
		fatalBlink()
	}

	cfg := config.Default()
	kin := kinematics.NewCartesian(kinematics.Config{
		StepsPerMM: cfg.StepsPerMM(),
		LimitMin:   cfg.LimitMin(),
		LimitMax:   cfg.LimitMax(),
	})
	sup := supervisor.New(kin, h, gcode.MotionParams{
		Acceleration: cfg.Motion.Acceleration,
		RapidRate:    cfg.Motion.RapidRate,
	})
	sup.SetLimitsEnabled(cfg.LimitsEnabled)
	sup.SetSoftLimitsEnabled(cfg.SoftLimitsEnabled)

	framer := protocol.NewFramer(protocol.DefaultConfig())
	framer.OnLine(func(ln protocol.Line) {
		status := sup.ProcessLine(ln.Text)
		if status == gcode.StatusOK {
			USBWriteBytes([]byte("ok\n"))
		} else {
			USBWriteBytes([]byte("error\n"))
		}
	})
	framer.OnRealTime(func(ev protocol.RealTimeEvent) {
		switch ev {
		case protocol.EventReset:
			sup.SoftReset()
		case protocol.EventStatusQuery:
			USBWriteBytes([]byte(sup.StatusReport() + "\n"))
		case protocol.EventFeedHold:
			sup.FeedHold()
		case protocol.EventCycleStart:
			sup.CycleStart()
		}
	})

	blinkStartup()

	for {
		if USBAvailable() > 0 {
			data, err := USBRead()
			if err == nil {
				framer.Feed([]byte{data})
			}
		}

		UpdateSystemTime()
		core.ProcessTimers()
		sup.Poll(h.Millis())
		sup.StepperUpdate()

		time.Sleep(10 * time.Microsecond)
	}
}

func blinkStartup() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for i := 0; i < 3; i++ {
		led.High()
		time.Sleep(200 * time.Millisecond)
		led.Low()
		time.Sleep(200 * time.Millisecond)
	}
}

func fatalBlink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
