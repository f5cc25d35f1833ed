// Package exercise implements the repetition detection and form scoring
// engine: joint angle geometry, per-exercise finite state machines,
// personalized range-of-motion tracking and per-frame error diagnostics.
package exercise

import (
	"fmt"
	"math"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
)

// Side selects which side of the body an exercise is performed on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide converts a string to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// joints returns the landmark indices for this side.
func (s Side) joints() (shoulder, elbow, wrist, hip, knee, ankle int) {
	if s == SideRight {
		return pose.RightShoulder, pose.RightElbow, pose.RightWrist,
			pose.RightHip, pose.RightKnee, pose.RightAnkle
	}
	return pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist,
		pose.LeftHip, pose.LeftKnee, pose.LeftAnkle
}

// ComputeAngle returns the angle in degrees at vertex b formed by the rays
// b->a and b->c, computed in 3D. The result is in [0,180]. If either ray
// has zero magnitude the angle is undefined and 0 is returned.
func ComputeAngle(a, b, c pose.Landmark) float64 {
	v1x, v1y, v1z := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	v2x, v2y, v2z := c.X-b.X, c.Y-b.Y, c.Z-b.Z

	m1 := math.Sqrt(v1x*v1x + v1y*v1y + v1z*v1z)
	m2 := math.Sqrt(v2x*v2x + v2y*v2y + v2z*v2z)
	if m1 == 0 || m2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y + v1z*v2z) / (m1 * m2)
	// Guard against float error pushing cos outside [-1,1].
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// KneeFlexionAngle returns the hip-knee-ankle angle: 180 for a straight
// leg, decreasing as the knee bends.
func KneeFlexionAngle(f *pose.Frame, side Side) float64 {
	_, _, _, hip, knee, ankle := side.joints()
	return ComputeAngle(f[hip], f[knee], f[ankle])
}

// HipFlexionAngle returns the shoulder-hip-knee angle: 180 for an extended
// hip, decreasing as the leg raises.
func HipFlexionAngle(f *pose.Frame, side Side) float64 {
	shoulder, _, _, hip, knee, _ := side.joints()
	return ComputeAngle(f[shoulder], f[hip], f[knee])
}

// ShoulderFlexionAngle returns the hip-shoulder-elbow angle.
func ShoulderFlexionAngle(f *pose.Frame, side Side) float64 {
	shoulder, elbow, _, hip, _, _ := side.joints()
	return ComputeAngle(f[hip], f[shoulder], f[elbow])
}

// ElbowFlexionAngle returns the shoulder-elbow-wrist angle: 180 for an
// extended arm, decreasing as the elbow curls.
func ElbowFlexionAngle(f *pose.Frame, side Side) float64 {
	shoulder, elbow, wrist, _, _, _ := side.joints()
	return ComputeAngle(f[shoulder], f[elbow], f[wrist])
}

// TorsoLeanAngle returns the unsigned deviation of the hip-to-shoulder
// line from vertical, in degrees. 0 is perfectly upright.
func TorsoLeanAngle(f *pose.Frame, side Side) float64 {
	shoulder, _, _, hip, _, _ := side.joints()
	dx := f[shoulder].X - f[hip].X
	// Image y grows downward, so upright means shoulder.Y < hip.Y.
	dy := f[hip].Y - f[shoulder].Y
	return math.Abs(math.Atan2(dx, dy)) * 180 / math.Pi
}

// EMA is an exponential moving average smoother for a scalar signal. The
// first sample passes through unchanged.
type EMA struct {
	alpha float64
	value float64
	set   bool
}

// NewEMA creates a smoother with the given smoothing factor in (0,1].
// Higher alpha tracks the signal more closely.
func NewEMA(alpha float64) *EMA {
	return &EMA{alpha: alpha}
}

// Update feeds a sample and returns the smoothed value.
func (e *EMA) Update(sample float64) float64 {
	if !e.set {
		e.value = sample
		e.set = true
		return e.value
	}
	e.value = e.alpha*sample + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current smoothed value, or 0 before the first sample.
func (e *EMA) Value() float64 {
	return e.value
}

// Reset clears the smoother state.
func (e *EMA) Reset() {
	e.value = 0
	e.set = false
}
