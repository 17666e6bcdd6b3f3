package mpu6050

import "fmt"

// Low-level register transactions. Every accessor routes through the two
// drivers.I2C shapes: a combined write-then-read (register address, then N
// consecutive bytes under one transaction) and a plain [reg, value] write.
// Bus failures are wrapped once and surfaced untouched; no retries here.

func (d *Device) readBytes(reg byte, buf []byte) error {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], buf); err != nil {
		return fmt.Errorf("mpu6050: read 0x%02X: %w", reg, err)
	}
	return nil
}

func (d *Device) readByte(reg byte) (byte, error) {
	if err := d.readBytes(reg, d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) writeByte(reg, value byte) error {
	d.w[0] = reg
	d.w[1] = value
	if err := d.bus.Tx(d.addr, d.w[:2], nil); err != nil {
		return fmt.Errorf("mpu6050: write 0x%02X: %w", reg, err)
	}
	return nil
}

// Bit-level composites: read the full byte, mutate the run, write the full
// byte back. The read and write are two bus transactions with nothing held
// in between, so concurrent writers can lose updates; the Device is
// single-owner (see the Device doc comment).

func (d *Device) readBit(reg, n byte) (byte, error) {
	b, err := d.readByte(reg)
	if err != nil {
		return 0, err
	}
	return getBit(b, n), nil
}

func (d *Device) writeBit(reg, n byte, on bool) error {
	b, err := d.readByte(reg)
	if err != nil {
		return err
	}
	setBit(&b, n, on)
	return d.writeByte(reg, b)
}

func (d *Device) readBits(reg, pos, length byte) (byte, error) {
	b, err := d.readByte(reg)
	if err != nil {
		return 0, err
	}
	return getBits(b, pos, length), nil
}

func (d *Device) writeBits(reg, pos, length, data byte) error {
	b, err := d.readByte(reg)
	if err != nil {
		return err
	}
	setBits(&b, pos, length, data)
	return d.writeByte(reg, b)
}

// Raw register access, for debugging tools and configuration the typed API
// does not cover. Same transaction rules as the internal accessors.

// ReadRegister reads one register.
func (d *Device) ReadRegister(reg byte) (byte, error) {
	return d.readByte(reg)
}

// ReadRegisters reads len(buf) consecutive registers starting at reg in one
// transaction.
func (d *Device) ReadRegisters(reg byte, buf []byte) error {
	return d.readBytes(reg, buf)
}

// WriteRegister writes one whole register.
func (d *Device) WriteRegister(reg, value byte) error {
	return d.writeByte(reg, value)
}

// Field-descriptor convenience wrappers.

func (d *Device) readField(f Field) (byte, error) {
	return d.readBits(f.Reg, f.Pos, f.Len)
}

func (d *Device) writeField(f Field, data byte) error {
	return d.writeBits(f.Reg, f.Pos, f.Len, data)
}
