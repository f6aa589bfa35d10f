//go:build !tinygo

// Package serialhal implements hal.HAL over a serial link to a remote I/O
// bridge board (a dumb step/dir/enable/limit expander). It is the HAL
// cmd/enginectl's "serve" subcommand uses to drive real hardware from the
// host, following the Port abstraction in the teacher's host/serial
// package: a small interface wrapping github.com/tarm/serial so the
// transport can be swapped (mock, real port) without touching the wire
// encoding below.
package serialhal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarm/serial"

	"enginecore/internal/hal"
)

// Port is the serial transport abstraction, mirroring the teacher's
// host/serial.Port: io.ReadWriteCloser plus Flush.
type Port interface {
	io.ReadWriteCloser
	Flush() error
}

// Config describes how to open the bridge board's serial port.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

func DefaultConfig(device string) *Config {
	return &Config{Device: device, Baud: 115200, ReadTimeout: 200 * time.Millisecond}
}

// nativePort wraps github.com/tarm/serial the way serial_native.go does.
type nativePort struct {
	port *serial.Port
}

func openNative(cfg *Config) (Port, error) {
	c := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	}
	p, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("serialhal: open %s: %w", cfg.Device, err)
	}
	return &nativePort{port: p}, nil
}

func (n *nativePort) Read(p []byte) (int, error)  { return n.port.Read(p) }
func (n *nativePort) Write(p []byte) (int, error) { return n.port.Write(p) }
func (n *nativePort) Close() error                { return n.port.Close() }
func (n *nativePort) Flush() error                { return n.port.Flush() }

// HAL drives a remote bridge board over a line-oriented wire protocol:
// "E0"/"E1" enable, "Dab" set direction (axis a, bit b), "P<mask>" pulse,
// "C" clear, "S<dir><pwm>" spindle, "K0"/"K1" coolant, "?" polls inputs and
// expects a "L<mask>X<0|1>" reply (limit mask, e-stop bit).
type HAL struct {
	port   Port
	reader *bufio.Reader

	limits hal.AxisMask
	estop  bool
}

func Open(cfg *Config) (*HAL, error) {
	p, err := openNative(cfg)
	if err != nil {
		return nil, err
	}
	return &HAL{port: p, reader: bufio.NewReader(p)}, nil
}

func (h *HAL) Close() error { return h.port.Close() }

func (h *HAL) send(line string) error {
	_, err := h.port.Write([]byte(line + "\n"))
	if err != nil {
		return fmt.Errorf("serialhal: write: %w", err)
	}
	return h.port.Flush()
}

// --- hal.Clock: host wall clock, the bridge board only does I/O ---

func (h *HAL) Millis() uint32 { return uint32(time.Now().UnixMilli()) }
func (h *HAL) Micros() uint32 { return uint32(time.Now().UnixMicro()) }
func (h *HAL) DelayMicros(us uint32) { time.Sleep(time.Duration(us) * time.Microsecond) }

// --- hal.Steppers ---

func (h *HAL) Enable(on bool) {
	if on {
		_ = h.send("E1")
	} else {
		_ = h.send("E0")
	}
}

func (h *HAL) SetDir(axis hal.Axis, positive bool) {
	bit := "0"
	if positive {
		bit = "1"
	}
	_ = h.send(fmt.Sprintf("D%d%s", int(axis), bit))
}

func (h *HAL) StepPulse(mask hal.AxisMask) {
	_ = h.send(fmt.Sprintf("P%d", mask))
}

func (h *HAL) StepClear() { _ = h.send("C") }

// --- hal.Spindle / hal.Coolant ---

func (h *HAL) SetSpindle(dir hal.SpindleDir, pwm float64) {
	_ = h.send(fmt.Sprintf("S%d%d", int(dir), int(pwm*1000)))
}

func (h *HAL) SetCoolant(on bool) {
	if on {
		_ = h.send("K1")
	} else {
		_ = h.send("K0")
	}
}

// --- hal.Inputs ---

// Poll refreshes the cached limit/e-stop state by querying the bridge
// board. The supervisor's poll loop calls this once per tick before
// reading Limit/EStop.
func (h *HAL) Poll() error {
	if err := h.send("?"); err != nil {
		return err
	}
	line, err := h.reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("serialhal: read: %w", err)
	}
	return h.parseInputReport(line)
}

func (h *HAL) parseInputReport(line string) error {
	line = strings.TrimSpace(line)
	var maskVal, estopVal int
	if _, err := fmt.Sscanf(line, "L%dX%d", &maskVal, &estopVal); err != nil {
		return fmt.Errorf("serialhal: malformed input report %q: %w", line, err)
	}
	h.limits = hal.AxisMask(maskVal)
	h.estop = estopVal != 0
	return nil
}

func (h *HAL) Limit(axis hal.Axis) bool { return h.limits.Has(axis) }
func (h *HAL) EStop() bool              { return h.estop }
