package mpu6050

import "tinygo.org/x/drivers"

// Builder aggregates optional Device configuration. Every field except the
// bus falls back to a documented default: address 0x68, most sensitive
// ranges, zero offsets, time.Sleep-backed delay. Build performs no bus I/O;
// the resulting Device still needs Init.
type Builder struct {
	bus        drivers.I2C
	delay      Delayer
	addr       uint16
	accRange   AccelRange
	gyroRange  GyroRange
	accOffset  Vec3
	gyroOffset Vec3
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bus supplies the I2C bus. Required.
func (b *Builder) Bus(bus drivers.I2C) *Builder {
	b.bus = bus
	return b
}

// Delay supplies the delay capability used during wake and reset.
func (b *Builder) Delay(d Delayer) *Builder {
	b.delay = d
	return b
}

// Addr overrides the default slave address (0x68).
func (b *Builder) Addr(addr uint16) *Builder {
	b.addr = addr
	return b
}

// AccelRange selects the initial accelerometer range.
func (b *Builder) AccelRange(r AccelRange) *Builder {
	b.accRange = r
	return b
}

// GyroRange selects the initial gyroscope range.
func (b *Builder) GyroRange(r GyroRange) *Builder {
	b.gyroRange = r
	return b
}

// AccelOffset sets the accelerometer calibration offset, in g.
func (b *Builder) AccelOffset(v Vec3) *Builder {
	b.accOffset = v
	return b
}

// GyroOffset sets the gyroscope calibration offset, in rad/s.
func (b *Builder) GyroOffset(v Vec3) *Builder {
	b.gyroOffset = v
	return b
}

// Build validates the builder and produces a Device. Fails with
// ErrMissingBus when no bus was supplied.
func (b *Builder) Build() (*Device, error) {
	if b.bus == nil {
		return nil, ErrMissingBus
	}
	d := &Device{
		bus:        b.bus,
		delay:      b.delay,
		addr:       b.addr,
		accSens:    b.accRange.Sensitivity(),
		gyroSens:   b.gyroRange.Sensitivity(),
		accOffset:  b.accOffset,
		gyroOffset: b.gyroOffset,
	}
	if d.delay == nil {
		d.delay = sleepDelayer{}
	}
	if d.addr == 0 {
		d.addr = AddressDefault
	}
	return d, nil
}
