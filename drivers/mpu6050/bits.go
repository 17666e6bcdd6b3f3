package mpu6050

// Bit-run helpers for partial-register updates. A run is addressed the way
// the register map writes it down: pos is the run's highest bit (LSB = 0)
// and length the number of bits, so "bits 4:3" is pos=4, length=2.
// Callers must keep length <= pos+1 <= 8.

func getBit(b, n byte) byte {
	return (b >> n) & 1
}

func setBit(b *byte, n byte, on bool) {
	if on {
		*b |= 1 << n
	} else {
		*b &^= 1 << n
	}
}

// getBits extracts the run ending at pos, right-aligned.
func getBits(b, pos, length byte) byte {
	shift := pos + 1 - length
	mask := byte(1<<length) - 1
	return (b >> shift) & mask
}

// setBits writes the low 'length' bits of data into the run ending at pos,
// leaving the rest of the byte untouched.
func setBits(b *byte, pos, length, data byte) {
	shift := pos + 1 - length
	mask := (byte(1<<length) - 1) << shift
	*b = (*b &^ mask) | ((data << shift) & mask)
}
