package mpu6050

import "math"

// Pure conversion helpers: two's-complement decode of the big-endian
// register pairs and the raw→physical scaling.

// Temperature conversion per register map revision 4.2:
// °C = raw/340 + 36.53.
const (
	tempSensitivity = 340.0
	tempOffset      = 36.53
)

const rad = math.Pi / 180

// Vec3 is a plain 3-component reading. Produced fresh per call; no
// ownership semantics.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Add returns v + o componentwise.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v*s componentwise.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// decodeWord forms the unsigned 16-bit word (high<<8)|low and reinterprets
// it as two's complement, so 0x8000.. maps to -32768..-1.
func decodeWord(high, low byte) int16 {
	return int16(uint16(high)<<8 | uint16(low))
}

// decodeVec decodes three consecutive big-endian pairs (X, Y, Z).
func decodeVec(buf []byte) Vec3 {
	return Vec3{
		X: float32(decodeWord(buf[0], buf[1])),
		Y: float32(decodeWord(buf[2], buf[3])),
		Z: float32(decodeWord(buf[4], buf[5])),
	}
}

// TiltAngles estimates roll and pitch from an acceleration vector, in
// radians. There is no yaw: the part has no magnetometer.
//
//	pitch = atan2(y, sqrt(x² + z²))
//	roll  = atan2(-x, sqrt(y² + z²))
func TiltAngles(a Vec3) (roll, pitch float32) {
	x, y, z := float64(a.X), float64(a.Y), float64(a.Z)
	pitch = float32(math.Atan2(y, math.Sqrt(x*x+z*z)))
	roll = float32(math.Atan2(-x, math.Sqrt(y*y+z*z)))
	return roll, pitch
}
