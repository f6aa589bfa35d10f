//go:build rp2040 || rp2350

package main

import (
	"enginecore/core"
	"machine"
)

func main() {
	// Disable the watchdog on boot; a previous run may have left it armed.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	InitClock()
	core.TimerInit()

	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)
	pwmDriver := NewRP2040PWMDriver()
	core.SetPWMDriver(pwmDriver)

	RunEngineCoreMode()
}
