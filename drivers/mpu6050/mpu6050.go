// Package mpu6050 is a driver for the MPU-6050 six-axis IMU (3-axis gyro,
// 3-axis accelerometer, die temperature sensor) over I2C.
//
// Typical use:
//
//	d := mpu6050.New(bus)
//	if err := d.Init(); err != nil { ... }
//	acc, err := d.Acceleration() // g
//	rot, err := d.Rotation()     // rad/s
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package mpu6050

import (
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// ---------------- Errors ----------------

// ErrMissingBus is returned by Builder.Build when no I2C bus was supplied.
var ErrMissingBus = errors.New("mpu6050: missing bus")

// IdentityError is returned when the WHO_AM_I register reads back a value
// other than the expected identity.
type IdentityError struct {
	Got byte
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("mpu6050: unexpected identity 0x%02X (want 0x%02X)", e.Got, identity)
}

// ---------------- Delay capability ----------------

// Delayer is the blocking delay capability used during wake and reset.
type Delayer interface {
	DelayMs(ms uint16)
}

// DelayFunc adapts a plain function to Delayer.
type DelayFunc func(ms uint16)

func (f DelayFunc) DelayMs(ms uint16) { f(ms) }

// sleepDelayer is the host default.
type sleepDelayer struct{}

func (sleepDelayer) DelayMs(ms uint16) { time.Sleep(time.Duration(ms) * time.Millisecond) }

// Settling time after clearing SLEEP or setting DEVICE_RESET.
const wakeDelayMs = 100

// ---------------- Device ----------------

// Device wraps an I2C connection to an MPU-6050.
//
// A Device is single-owner: bit-field setters are a read-then-write pair of
// bus transactions with no lock in between, so concurrent callers can lose
// updates. Serialize externally (e.g. a mutex around the Device) if it must
// be shared.
type Device struct {
	bus   drivers.I2C
	delay Delayer
	addr  uint16

	accSens    float32
	gyroSens   float32
	accOffset  Vec3
	gyroOffset Vec3

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [6]byte
}

// New creates a device on the default address with the most sensitive
// ranges and zero calibration offsets. The I2C bus must already be
// configured. No bus I/O happens until Init.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:      bus,
		delay:    sleepDelayer{},
		addr:     AddressDefault,
		accSens:  AccelRange2G.Sensitivity(),
		gyroSens: GyroRange250DPS.Sensitivity(),
	}
}

// ---------------- Initialization ----------------

// wake clears the SLEEP bit and selects the gyro-X PLL clock source in one
// whole-byte write, then waits for the part to settle. The MPU-6050 powers
// up asleep.
func (d *Device) wake() error {
	if err := d.writeByte(regPwrMgmt1, byte(ClockPLLGyroX)); err != nil {
		return err
	}
	d.delay.DelayMs(wakeDelayMs)
	return nil
}

// verify reads WHO_AM_I and checks it against the expected identity.
func (d *Device) verify() error {
	got, err := d.readByte(regWhoAmI)
	if err != nil {
		return err
	}
	if got != identity {
		return &IdentityError{Got: got}
	}
	return nil
}

// Init wakes the device, verifies its identity, and applies the default
// configuration: ±2 g, ±250 °/s, accelerometer high-pass filter off. On an
// identity mismatch the device is left addressable but otherwise in
// whatever state the wake produced.
func (d *Device) Init() error {
	if err := d.wake(); err != nil {
		return err
	}
	if err := d.verify(); err != nil {
		return err
	}
	if err := d.SetAccelRange(AccelRange2G); err != nil {
		return err
	}
	if err := d.SetGyroRange(GyroRange250DPS); err != nil {
		return err
	}
	return d.SetAccelHPF(HPFReset)
}

// Connected probes WHO_AM_I and reports whether the expected part answered.
func (d *Device) Connected() (bool, error) {
	got, err := d.readByte(regWhoAmI)
	if err != nil {
		return false, err
	}
	return got == identity, nil
}

// Reset sets DEVICE_RESET and waits for the part to come back. Reset
// re-arms the SLEEP bit in hardware (PWR_MGMT_1 resets to 0x40), so the
// caller must run Init (or at least wake) again before measuring. Identity
// and ranges are deliberately not re-checked here.
func (d *Device) Reset() error {
	if err := d.writeBit(fldDeviceReset.Reg, fldDeviceReset.Pos, true); err != nil {
		return err
	}
	d.delay.DelayMs(wakeDelayMs)
	return nil
}

// ---------------- Power / clock configuration ----------------

// SetSleepEnabled sets or clears the SLEEP bit.
func (d *Device) SetSleepEnabled(on bool) error {
	return d.writeBit(fldSleep.Reg, fldSleep.Pos, on)
}

// SleepEnabled reports the SLEEP bit.
func (d *Device) SleepEnabled() (bool, error) {
	b, err := d.readBit(fldSleep.Reg, fldSleep.Pos)
	return b != 0, err
}

// SetTempEnabled enables or disables the die temperature sensor. The
// register bit is TEMP_DIS (1 = disabled), so the bit written is the
// logical negation of enable.
func (d *Device) SetTempEnabled(enable bool) error {
	return d.writeBit(fldTempDis.Reg, fldTempDis.Pos, !enable)
}

// TempEnabled reports whether the temperature sensor is enabled
// (TEMP_DIS == 0).
func (d *Device) TempEnabled() (bool, error) {
	b, err := d.readBit(fldTempDis.Reg, fldTempDis.Pos)
	return b == 0, err
}

// SetClockSource selects the CLKSEL field.
func (d *Device) SetClockSource(src ClockSource) error {
	return d.writeField(fldClkSel, byte(src))
}

// ClockSource returns the current CLKSEL selection.
func (d *Device) ClockSource() (ClockSource, error) {
	b, err := d.readField(fldClkSel)
	return ClockSource(b), err
}

// ---------------- Range / filter configuration ----------------

// SetAccelRange writes AFS_SEL and updates the cached sensitivity used by
// Acceleration.
func (d *Device) SetAccelRange(r AccelRange) error {
	if err := d.writeField(fldAccelFSSel, byte(r)); err != nil {
		return err
	}
	d.accSens = r.Sensitivity()
	return nil
}

// AccelRange reads back AFS_SEL.
func (d *Device) AccelRange() (AccelRange, error) {
	b, err := d.readField(fldAccelFSSel)
	return AccelRange(b), err
}

// SetGyroRange writes FS_SEL and updates the cached sensitivity used by
// Rotation.
func (d *Device) SetGyroRange(r GyroRange) error {
	if err := d.writeField(fldGyroFSSel, byte(r)); err != nil {
		return err
	}
	d.gyroSens = r.Sensitivity()
	return nil
}

// GyroRange reads back FS_SEL.
func (d *Device) GyroRange() (GyroRange, error) {
	b, err := d.readField(fldGyroFSSel)
	return GyroRange(b), err
}

// SetAccelHPF selects the accelerometer high-pass filter mode.
func (d *Device) SetAccelHPF(mode AccelHPF) error {
	return d.writeField(fldAccelHPF, byte(mode))
}

// AccelHPF reads back the high-pass filter mode.
func (d *Device) AccelHPF() (AccelHPF, error) {
	b, err := d.readField(fldAccelHPF)
	return AccelHPF(b), err
}

// SetDLPF selects the digital low-pass filter configuration (0..7).
func (d *Device) SetDLPF(cfg byte) error {
	return d.writeField(fldDLPF, cfg)
}

// DLPF reads back the digital low-pass filter configuration.
func (d *Device) DLPF() (byte, error) {
	return d.readField(fldDLPF)
}

// SetSampleRateDivider sets SMPLRT_DIV: output rate = internal rate/(1+div).
func (d *Device) SetSampleRateDivider(div byte) error {
	return d.writeByte(regSmplrtDiv, div)
}

// SampleRateDivider reads back SMPLRT_DIV.
func (d *Device) SampleRateDivider() (byte, error) {
	return d.readByte(regSmplrtDiv)
}

// ---------------- Self test ----------------

// SetAccelSelfTestX toggles the XA_ST bit.
func (d *Device) SetAccelSelfTestX(on bool) error {
	return d.writeBit(fldAccelXST.Reg, fldAccelXST.Pos, on)
}

// AccelSelfTestX reports the XA_ST bit.
func (d *Device) AccelSelfTestX() (bool, error) {
	b, err := d.readBit(fldAccelXST.Reg, fldAccelXST.Pos)
	return b != 0, err
}

// SetAccelSelfTestY toggles the YA_ST bit.
func (d *Device) SetAccelSelfTestY(on bool) error {
	return d.writeBit(fldAccelYST.Reg, fldAccelYST.Pos, on)
}

// AccelSelfTestY reports the YA_ST bit.
func (d *Device) AccelSelfTestY() (bool, error) {
	b, err := d.readBit(fldAccelYST.Reg, fldAccelYST.Pos)
	return b != 0, err
}

// SetAccelSelfTestZ toggles the ZA_ST bit.
func (d *Device) SetAccelSelfTestZ(on bool) error {
	return d.writeBit(fldAccelZST.Reg, fldAccelZST.Pos, on)
}

// AccelSelfTestZ reports the ZA_ST bit.
func (d *Device) AccelSelfTestZ() (bool, error) {
	b, err := d.readBit(fldAccelZST.Reg, fldAccelZST.Pos)
	return b != 0, err
}

// ---------------- Motion detection ----------------

// SetupMotionDetection programs the wake-on-motion interrupt with the
// datasheet-mandated write sequence. Order matters: later writes assume the
// earlier ones already took effect.
func (d *Device) SetupMotionDetection() error {
	steps := []struct{ reg, val byte }{
		{regPwrMgmt1, 0x00},    // all power management bits cleared
		{regIntPinCfg, 0x20},   // INT active high, push-pull, latched until status read
		{regAccelConfig, 0x01}, // HPF 5 Hz; a zeroed HPF always outputs 0
		{regMotThr, 10},        // threshold, 2 mg/LSB
		{regMotDur, 40},        // duration, 1 ms/LSB at 1 kHz
		{regMotCtrl, 0x15},     // free-fall/motion decrements = 1, +1 ms start-up delay
		{regIntEnable, 0x40},   // MOT_EN
	}
	for _, s := range steps {
		if err := d.writeByte(s.reg, s.val); err != nil {
			return err
		}
	}
	return nil
}

// MotionDetected reads the MOT_INT flag from INT_STATUS.
func (d *Device) MotionDetected() (bool, error) {
	b, err := d.readBit(fldMotInt.Reg, fldMotInt.Pos)
	return b != 0, err
}

// ---------------- Measurements ----------------

// readVec reads a 6-byte axis block starting at reg and decodes the three
// big-endian pairs.
func (d *Device) readVec(reg byte) (Vec3, error) {
	if err := d.readBytes(reg, d.r[:6]); err != nil {
		return Vec3{}, err
	}
	return decodeVec(d.r[:6]), nil
}

// RawAcceleration returns the unscaled accelerometer counts.
func (d *Device) RawAcceleration() (Vec3, error) {
	return d.readVec(regAccelXoutH)
}

// RawRotation returns the unscaled gyroscope counts.
func (d *Device) RawRotation() (Vec3, error) {
	return d.readVec(regGyroXoutH)
}

// Acceleration returns the accelerometer reading in g: raw/sensitivity,
// then the calibration offset.
func (d *Device) Acceleration() (Vec3, error) {
	raw, err := d.readVec(regAccelXoutH)
	if err != nil {
		return Vec3{}, err
	}
	return raw.Scale(1 / d.accSens).Add(d.accOffset), nil
}

// Rotation returns the gyroscope reading in rad/s: raw*(π/180)/sensitivity,
// then the calibration offset. The offset is applied after scaling.
func (d *Device) Rotation() (Vec3, error) {
	raw, err := d.readVec(regGyroXoutH)
	if err != nil {
		return Vec3{}, err
	}
	return raw.Scale(rad / d.gyroSens).Add(d.gyroOffset), nil
}

// Temperature returns the die temperature in °C.
func (d *Device) Temperature() (float32, error) {
	if err := d.readBytes(regTempOutH, d.r[:2]); err != nil {
		return 0, err
	}
	raw := float32(decodeWord(d.r[0], d.r[1]))
	return raw/tempSensitivity + tempOffset, nil
}

// Angles estimates roll and pitch (radians) from the accelerometer. No yaw:
// the part has no magnetometer.
func (d *Device) Angles() (roll, pitch float32, err error) {
	acc, err := d.Acceleration()
	if err != nil {
		return 0, 0, err
	}
	roll, pitch = TiltAngles(acc)
	return roll, pitch, nil
}
