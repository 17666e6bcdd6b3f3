package mpu6050

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// simBus simulates the register file of an MPU-6050 behind the two
// transaction shapes the driver issues: [reg] + read N, and [reg, value].
type simBus struct {
	regs   [256]byte
	writes [][2]byte // whole-byte writes, in order
	delays []uint16
	err    error // injected transport failure
}

func newSimBus() *simBus {
	b := &simBus{}
	b.regs[regWhoAmI] = identity
	b.regs[regPwrMgmt1] = 0x40 // power-on default: asleep
	return b
}

func (b *simBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	switch {
	case len(w) == 1 && len(r) > 0:
		for i := range r {
			r[i] = b.regs[int(w[0])+i]
		}
	case len(w) == 2 && len(r) == 0:
		b.regs[w[0]] = w[1]
		b.writes = append(b.writes, [2]byte{w[0], w[1]})
	default:
		return fmt.Errorf("unexpected transaction: w=%d r=%d", len(w), len(r))
	}
	return nil
}

func (b *simBus) noDelay() Delayer {
	return DelayFunc(func(ms uint16) { b.delays = append(b.delays, ms) })
}

func newTestDevice(t *testing.T, bus *simBus) *Device {
	t.Helper()
	d, err := NewBuilder().Bus(bus).Delay(bus.noDelay()).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return d
}

func TestInit(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	// Wake is a whole-byte write: sleep cleared, clock = gyro-X PLL.
	if bus.writes[0] != [2]byte{regPwrMgmt1, 0x01} {
		t.Fatalf("first write = %v, want PWR_MGMT_1 <- 0x01", bus.writes[0])
	}
	if len(bus.delays) != 1 || bus.delays[0] != 100 {
		t.Fatalf("delays = %v, want one 100 ms settle", bus.delays)
	}

	// Defaults applied: ±2g, ±250°/s, HPF off.
	if got := getBits(bus.regs[regAccelConfig], fldAccelFSSel.Pos, fldAccelFSSel.Len); got != byte(AccelRange2G) {
		t.Fatalf("AFS_SEL = %d, want %d", got, AccelRange2G)
	}
	if got := getBits(bus.regs[regGyroConfig], fldGyroFSSel.Pos, fldGyroFSSel.Len); got != byte(GyroRange250DPS) {
		t.Fatalf("FS_SEL = %d, want %d", got, GyroRange250DPS)
	}
	if got := getBits(bus.regs[regAccelConfig], fldAccelHPF.Pos, fldAccelHPF.Len); got != byte(HPFReset) {
		t.Fatalf("ACCEL_HPF = %d, want %d", got, HPFReset)
	}
}

func TestInitIdentityMismatch(t *testing.T) {
	bus := newSimBus()
	bus.regs[regWhoAmI] = 0x71 // an MPU-9250 answered instead
	d := newTestDevice(t, bus)

	err := d.Init()
	var idErr *IdentityError
	if !errors.As(err, &idErr) {
		t.Fatalf("init error = %v, want IdentityError", err)
	}
	if idErr.Got != 0x71 {
		t.Fatalf("IdentityError.Got = %#02x, want 0x71", idErr.Got)
	}
}

func TestConnected(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	ok, err := d.Connected()
	if err != nil || !ok {
		t.Fatalf("Connected = %v, %v; want true, nil", ok, err)
	}
	bus.regs[regWhoAmI] = 0x00
	ok, err = d.Connected()
	if err != nil || ok {
		t.Fatalf("Connected = %v, %v; want false, nil", ok, err)
	}
}

func TestTransportErrorWrapped(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)
	cause := errors.New("i2c timeout")
	bus.err = cause

	if _, err := d.Temperature(); !errors.Is(err, cause) {
		t.Fatalf("transport error not propagated: %v", err)
	}
}

func TestSetAccelRangePreservesNeighbours(t *testing.T) {
	bus := newSimBus()
	bus.regs[regAccelConfig] = 0xE0 // all self-test bits set
	d := newTestDevice(t, bus)

	if err := d.SetAccelRange(AccelRange8G); err != nil {
		t.Fatalf("set range: %v", err)
	}
	if bus.regs[regAccelConfig] != 0xE0|byte(AccelRange8G)<<3 {
		t.Fatalf("ACCEL_CONFIG = %#02x", bus.regs[regAccelConfig])
	}
	r, err := d.AccelRange()
	if err != nil || r != AccelRange8G {
		t.Fatalf("AccelRange = %v, %v", r, err)
	}

	// Cached sensitivity follows the range: 4096 counts = 1 g at ±8g.
	bus.regs[regAccelXoutH] = 0x10 // 0x1000 = 4096
	acc, err := d.Acceleration()
	if err != nil || acc.X != 1 {
		t.Fatalf("Acceleration = %+v, %v; want X=1", acc, err)
	}
}

func TestSetGyroRange(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.SetGyroRange(GyroRange2000DPS); err != nil {
		t.Fatalf("set range: %v", err)
	}
	r, err := d.GyroRange()
	if err != nil || r != GyroRange2000DPS {
		t.Fatalf("GyroRange = %v, %v", r, err)
	}
	if d.gyroSens != 16.4 {
		t.Fatalf("cached sensitivity = %v, want 16.4", d.gyroSens)
	}
}

func TestTempEnabledInvertedPolarity(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.SetTempEnabled(true); err != nil {
		t.Fatal(err)
	}
	if getBit(bus.regs[regPwrMgmt1], fldTempDis.Pos) != 0 {
		t.Fatal("enable left TEMP_DIS set")
	}
	on, err := d.TempEnabled()
	if err != nil || !on {
		t.Fatalf("TempEnabled = %v, %v; want true", on, err)
	}

	if err := d.SetTempEnabled(false); err != nil {
		t.Fatal(err)
	}
	if getBit(bus.regs[regPwrMgmt1], fldTempDis.Pos) != 1 {
		t.Fatal("disable did not set TEMP_DIS")
	}
	on, err = d.TempEnabled()
	if err != nil || on {
		t.Fatalf("TempEnabled = %v, %v; want false", on, err)
	}
}

func TestSleepAndClockSource(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.SetSleepEnabled(false); err != nil {
		t.Fatal(err)
	}
	asleep, err := d.SleepEnabled()
	if err != nil || asleep {
		t.Fatalf("SleepEnabled = %v, %v; want false", asleep, err)
	}

	if err := d.SetClockSource(ClockPLLGyroZ); err != nil {
		t.Fatal(err)
	}
	src, err := d.ClockSource()
	if err != nil || src != ClockPLLGyroZ {
		t.Fatalf("ClockSource = %v, %v", src, err)
	}
	// The sleep bit survived the clock-field write.
	if getBit(bus.regs[regPwrMgmt1], fldSleep.Pos) != 0 {
		t.Fatal("CLKSEL write disturbed SLEEP")
	}
}

func TestAccelHPFAndDLPF(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.SetAccelHPF(HPF5Hz); err != nil {
		t.Fatal(err)
	}
	mode, err := d.AccelHPF()
	if err != nil || mode != HPF5Hz {
		t.Fatalf("AccelHPF = %v, %v", mode, err)
	}

	if err := d.SetDLPF(3); err != nil {
		t.Fatal(err)
	}
	cfg, err := d.DLPF()
	if err != nil || cfg != 3 {
		t.Fatalf("DLPF = %v, %v", cfg, err)
	}

	if err := d.SetSampleRateDivider(4); err != nil {
		t.Fatal(err)
	}
	div, err := d.SampleRateDivider()
	if err != nil || div != 4 {
		t.Fatalf("SampleRateDivider = %v, %v", div, err)
	}
}

func TestAccelSelfTestBits(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	for _, c := range []struct {
		set func(bool) error
		get func() (bool, error)
		bit byte
	}{
		{d.SetAccelSelfTestX, d.AccelSelfTestX, fldAccelXST.Pos},
		{d.SetAccelSelfTestY, d.AccelSelfTestY, fldAccelYST.Pos},
		{d.SetAccelSelfTestZ, d.AccelSelfTestZ, fldAccelZST.Pos},
	} {
		if err := c.set(true); err != nil {
			t.Fatal(err)
		}
		if getBit(bus.regs[regAccelConfig], c.bit) != 1 {
			t.Fatalf("self-test bit %d not set", c.bit)
		}
		on, err := c.get()
		if err != nil || !on {
			t.Fatalf("self-test bit %d: get = %v, %v", c.bit, on, err)
		}
		if err := c.set(false); err != nil {
			t.Fatal(err)
		}
		if getBit(bus.regs[regAccelConfig], c.bit) != 0 {
			t.Fatalf("self-test bit %d not cleared", c.bit)
		}
	}
}

func TestReset(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.Reset(); err != nil {
		t.Fatal(err)
	}
	if getBit(bus.regs[regPwrMgmt1], fldDeviceReset.Pos) != 1 {
		t.Fatal("DEVICE_RESET bit not set")
	}
	if len(bus.delays) != 1 || bus.delays[0] != 100 {
		t.Fatalf("delays = %v, want one 100 ms settle", bus.delays)
	}
}

func TestSetupMotionDetectionSequence(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	if err := d.SetupMotionDetection(); err != nil {
		t.Fatal(err)
	}
	want := [][2]byte{
		{regPwrMgmt1, 0x00},
		{regIntPinCfg, 0x20},
		{regAccelConfig, 0x01},
		{regMotThr, 10},
		{regMotDur, 40},
		{regMotCtrl, 0x15},
		{regIntEnable, 0x40},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("%d writes, want %d", len(bus.writes), len(want))
	}
	for i, w := range want {
		if bus.writes[i] != w {
			t.Fatalf("write %d = %v, want %v", i, bus.writes[i], w)
		}
	}
}

func TestMotionDetected(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	moved, err := d.MotionDetected()
	if err != nil || moved {
		t.Fatalf("MotionDetected = %v, %v; want false", moved, err)
	}
	bus.regs[regIntStatus] = 0x40
	moved, err = d.MotionDetected()
	if err != nil || !moved {
		t.Fatalf("MotionDetected = %v, %v; want true", moved, err)
	}
}

func TestAcceleration(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	// 16384 counts on X at ±2g is exactly 1 g.
	bus.regs[regAccelXoutH] = 0x40
	acc, err := d.Acceleration()
	if err != nil {
		t.Fatal(err)
	}
	if acc.X != 1 || acc.Y != 0 || acc.Z != 0 {
		t.Fatalf("Acceleration = %+v, want (1, 0, 0)", acc)
	}
}

func TestRotation(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	// 131 counts on X at ±250°/s is 1°/s = π/180 rad/s.
	bus.regs[regGyroXoutH+1] = 131
	rot, err := d.Rotation()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(rot.X)-math.Pi/180) > 1e-6 || rot.Y != 0 || rot.Z != 0 {
		t.Fatalf("Rotation = %+v, want (π/180, 0, 0)", rot)
	}
}

func TestOffsetsAppliedAfterScaling(t *testing.T) {
	bus := newSimBus()
	d, err := NewBuilder().
		Bus(bus).
		Delay(bus.noDelay()).
		AccelOffset(Vec3{X: 0.5}).
		GyroOffset(Vec3{X: 1}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	bus.regs[regAccelXoutH] = 0x40 // 1 g before offset
	acc, err := d.Acceleration()
	if err != nil || acc.X != 1.5 {
		t.Fatalf("Acceleration.X = %v, %v; want 1.5", acc.X, err)
	}

	bus.regs[regGyroXoutH+1] = 131 // π/180 rad/s before offset
	rot, err := d.Rotation()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(rot.X)-(math.Pi/180+1)) > 1e-6 {
		t.Fatalf("Rotation.X = %v, want π/180 + 1", rot.X)
	}
}

func TestTemperature(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	// Raw 0 reads the sensor offset.
	tc, err := d.Temperature()
	if err != nil || tc != 36.53 {
		t.Fatalf("Temperature = %v, %v; want 36.53", tc, err)
	}

	// Raw 340 is one degree above it.
	bus.regs[regTempOutH] = 0x01
	bus.regs[regTempOutH+1] = 0x54
	tc, err = d.Temperature()
	if err != nil || math.Abs(float64(tc)-37.53) > 1e-5 {
		t.Fatalf("Temperature = %v, %v; want 37.53", tc, err)
	}
}

func TestAngles(t *testing.T) {
	bus := newSimBus()
	d := newTestDevice(t, bus)

	// Gravity on +Z only: level.
	bus.regs[regAccelXoutH+4] = 0x40
	roll, pitch, err := d.Angles()
	if err != nil || roll != 0 || pitch != 0 {
		t.Fatalf("Angles = %v, %v, %v; want 0, 0, nil", roll, pitch, err)
	}

	// Gravity on +X only: roll = -π/2.
	bus.regs[regAccelXoutH+4] = 0
	bus.regs[regAccelXoutH] = 0x40
	roll, _, err = d.Angles()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(roll)+math.Pi/2) > 1e-6 {
		t.Fatalf("roll = %v, want -π/2", roll)
	}
}
