// Package periphbus adapts a periph.io I2C bus to the Tx shape the driver
// packages expect, so the same driver code runs against /dev/i2c-* on Linux
// hosts.
package periphbus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"tinygo.org/x/drivers"
)

// Bus wraps a periph.io i2c.BusCloser. periph's Tx is a single write +
// repeated-start read, which is exactly the transaction contract the
// drivers need.
type Bus struct {
	bus i2c.BusCloser
}

var _ drivers.I2C = (*Bus)(nil)

// Open initializes the periph host drivers and opens the named I2C bus.
// An empty name selects the first available bus.
func Open(name string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periphbus: host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("periphbus: open %q: %w", name, err)
	}
	return &Bus{bus: b}, nil
}

// Tx performs one I2C transaction: write w, then read len(r) bytes without
// releasing the bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// Close releases the underlying bus handle.
func (b *Bus) Close() error {
	return b.bus.Close()
}
