package mpu6050

import (
	"errors"
	"testing"
)

func TestBuildWithoutBus(t *testing.T) {
	_, err := NewBuilder().Build()
	if !errors.Is(err, ErrMissingBus) {
		t.Fatalf("Build() error = %v, want ErrMissingBus", err)
	}
	// Other fields do not rescue a missing bus.
	_, err = NewBuilder().Addr(0x69).AccelRange(AccelRange16G).Build()
	if !errors.Is(err, ErrMissingBus) {
		t.Fatalf("Build() error = %v, want ErrMissingBus", err)
	}
}

func TestBuildDefaults(t *testing.T) {
	bus := newSimBus()
	d, err := NewBuilder().Bus(bus).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.addr != AddressDefault {
		t.Fatalf("addr = %#02x, want 0x68", d.addr)
	}
	if d.accSens != 16384 || d.gyroSens != 131 {
		t.Fatalf("default sensitivities = %v, %v; want most sensitive ranges", d.accSens, d.gyroSens)
	}
	if d.accOffset != (Vec3{}) || d.gyroOffset != (Vec3{}) {
		t.Fatal("default offsets must be zero")
	}
	if d.delay == nil {
		t.Fatal("default delayer missing")
	}
	// Build never touches the bus.
	if len(bus.writes) != 0 {
		t.Fatalf("build performed %d bus writes", len(bus.writes))
	}
}

func TestBuildOverrides(t *testing.T) {
	bus := newSimBus()
	d, err := NewBuilder().
		Bus(bus).
		Addr(0x69).
		AccelRange(AccelRange4G).
		GyroRange(GyroRange500DPS).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.addr != 0x69 {
		t.Fatalf("addr = %#02x, want 0x69", d.addr)
	}
	if d.accSens != 8192 || d.gyroSens != 65.5 {
		t.Fatalf("sensitivities = %v, %v; want 8192, 65.5", d.accSens, d.gyroSens)
	}
}
