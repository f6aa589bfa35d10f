//go:build rp2040 || rp2350

package main

import "machine"

// InitUSB configures the board's USB CDC serial port. TinyGo brings up the
// USB descriptors itself; this just prepares machine.Serial for use.
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

func USBAvailable() int {
	return machine.Serial.Buffered()
}

func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
