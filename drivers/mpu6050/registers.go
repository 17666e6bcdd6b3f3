// Package mpu6050 provides constants for register addresses and bit fields
// used in the operation of the MPU-6050 inertial measurement unit.
package mpu6050

const (
	// 7-bit I2C address (110_1000b, AD0 low).
	AddressDefault = 0x68

	// WHO_AM_I reads back the 7-bit address with AD0 masked out, which on
	// this part equals the default address.
	identity = 0x68

	// --- Register sub-addresses (8-bit byte registers) ---

	// Sampling / filtering
	regSmplrtDiv   = 0x19 // R/W, sample rate divider
	regConfig      = 0x1A // R/W, DLPF_CFG bits 2:0
	regGyroConfig  = 0x1B // R/W, FS_SEL bits 4:3
	regAccelConfig = 0x1C // R/W, XA/YA/ZA_ST, AFS_SEL bits 4:3, ACCEL_HPF bits 2:0

	// Motion detection
	regMotThr  = 0x1F // R/W, motion threshold (1 LSB = 2 mg)
	regMotDur  = 0x20 // R/W, motion duration (1 LSB = 1 ms @ 1 kHz)
	regMotCtrl = 0x69 // R/W, decrement rates + accel start-up delay

	// Interrupts
	regIntPinCfg = 0x37 // R/W
	regIntEnable = 0x38 // R/W, MOT_EN bit 6
	regIntStatus = 0x3A // R/Clear, MOT_INT bit 6

	// Sensor data (big-endian 16-bit pairs)
	regAccelXoutH = 0x3B // R, 6 bytes X/Y/Z
	regTempOutH   = 0x41 // R, 2 bytes
	regGyroXoutH  = 0x43 // R, 6 bytes X/Y/Z

	// Power / identity
	regPwrMgmt1 = 0x6B // R/W, DEVICE_RESET, SLEEP, TEMP_DIS, CLKSEL
	regWhoAmI   = 0x75 // R
)

// Field locates a contiguous bit run within a register. Pos is the index of
// the run's highest bit (LSB = 0) and Len the number of bits, matching the
// "bits 4:3" style the register map uses.
type Field struct {
	Reg byte
	Pos byte
	Len byte
}

// Named bit fields, per the register map.
var (
	fldDeviceReset = Field{regPwrMgmt1, 7, 1}
	fldSleep       = Field{regPwrMgmt1, 6, 1}
	fldTempDis     = Field{regPwrMgmt1, 3, 1}
	fldClkSel      = Field{regPwrMgmt1, 2, 3}

	fldGyroFSSel = Field{regGyroConfig, 4, 2}

	fldAccelXST   = Field{regAccelConfig, 7, 1}
	fldAccelYST   = Field{regAccelConfig, 6, 1}
	fldAccelZST   = Field{regAccelConfig, 5, 1}
	fldAccelFSSel = Field{regAccelConfig, 4, 2}
	fldAccelHPF   = Field{regAccelConfig, 2, 3}

	fldDLPF = Field{regConfig, 2, 3}

	fldMotInt = Field{regIntStatus, 6, 1}
)

// AccelRange selects the accelerometer full-scale range (AFS_SEL).
type AccelRange uint8

const (
	AccelRange2G AccelRange = iota // ±2 g, 16384 LSB/g
	AccelRange4G                   // ±4 g, 8192 LSB/g
	AccelRange8G                   // ±8 g, 4096 LSB/g
	AccelRange16G                  // ±16 g, 2048 LSB/g
)

var accelSens = [4]float32{16384, 8192, 4096, 2048}

// Sensitivity returns the range's scale factor in LSB/g.
func (r AccelRange) Sensitivity() float32 { return accelSens[r&0x03] }

// GyroRange selects the gyroscope full-scale range (FS_SEL).
type GyroRange uint8

const (
	GyroRange250DPS  GyroRange = iota // ±250 °/s, 131 LSB/(°/s)
	GyroRange500DPS                   // ±500 °/s, 65.5 LSB/(°/s)
	GyroRange1000DPS                  // ±1000 °/s, 32.8 LSB/(°/s)
	GyroRange2000DPS                  // ±2000 °/s, 16.4 LSB/(°/s)
)

var gyroSens = [4]float32{131, 65.5, 32.8, 16.4}

// Sensitivity returns the range's scale factor in LSB per °/s.
func (r GyroRange) Sensitivity() float32 { return gyroSens[r&0x03] }

// ClockSource selects the CLKSEL field of PWR_MGMT_1. The PLL sources keep
// the part stable; the datasheet recommends one of the gyro PLLs over the
// internal oscillator.
type ClockSource uint8

const (
	ClockInternal  ClockSource = 0 // internal 8 MHz oscillator
	ClockPLLGyroX  ClockSource = 1
	ClockPLLGyroY  ClockSource = 2
	ClockPLLGyroZ  ClockSource = 3
	ClockPLLExt32K ClockSource = 4
	ClockPLLExt19M ClockSource = 5
	ClockStop      ClockSource = 7 // stops the clock, keeps timing in reset
)

// AccelHPF selects the accelerometer digital high pass filter cutoff
// (ACCEL_HPF bits of ACCEL_CONFIG).
type AccelHPF uint8

const (
	HPFReset  AccelHPF = 0 // filter output forced to 0
	HPF5Hz    AccelHPF = 1
	HPF2P5Hz  AccelHPF = 2
	HPF1P25Hz AccelHPF = 3
	HPF0P63Hz AccelHPF = 4
	HPFHold   AccelHPF = 7 // holds the sample taken when the mode was set
)
