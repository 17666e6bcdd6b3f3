// Package telemetry defines the JSON payloads the tools publish and a
// helper that gathers one full sample from the sensor.
package telemetry

import (
	"time"

	"github.com/BloodWalrus/mpu6050improved/drivers/mpu6050"
)

// Sample is one converted reading: acceleration in g, angular rate in
// rad/s, die temperature in °C, and the accelerometer tilt estimate in
// radians (no yaw, the part has no magnetometer).
type Sample struct {
	Time  time.Time    `json:"time"`
	Accel mpu6050.Vec3 `json:"accel"`
	Gyro  mpu6050.Vec3 `json:"gyro"`
	TempC float32      `json:"temp_c"`
	Roll  float32      `json:"roll"`
	Pitch float32      `json:"pitch"`
}

// Collect reads acceleration, rotation and temperature in three register
// transactions and fills a timestamped sample. The first bus error aborts
// the sample.
func Collect(d *mpu6050.Device) (Sample, error) {
	acc, err := d.Acceleration()
	if err != nil {
		return Sample{}, err
	}
	gyro, err := d.Rotation()
	if err != nil {
		return Sample{}, err
	}
	tempC, err := d.Temperature()
	if err != nil {
		return Sample{}, err
	}
	roll, pitch := Tilt(acc)
	return Sample{
		Time:  time.Now(),
		Accel: acc,
		Gyro:  gyro,
		TempC: tempC,
		Roll:  roll,
		Pitch: pitch,
	}, nil
}

// Tilt computes the roll/pitch estimate from an already-read acceleration
// vector, avoiding a second bus round trip when the caller has one.
func Tilt(acc mpu6050.Vec3) (roll, pitch float32) {
	return mpu6050.TiltAngles(acc)
}
