// Package testdata provides synthetic landmark frames for testing the
// detection pipeline without a camera or pose model.
package testdata

import (
	"math"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
)

// Body segment lengths in normalized image space (y grows downward).
const (
	torsoLen = 0.25
	thighLen = 0.20
	shinLen  = 0.20
	foreLen  = 0.18
)

// StandingFrame returns a person standing upright facing the camera, all
// joints straight and every landmark fully visible.
func StandingFrame() *pose.Frame {
	return SquatFrame(180)
}

// SquatFrame returns a standing pose with the hips displaced so that the
// knee flexion angle (hip-knee-ankle) on both sides is approximately deg
// degrees. 180 is a straight leg.
func SquatFrame(deg float64) *pose.Frame {
	f := baseFrame()

	for _, side := range [][2]int{
		{pose.LeftHip, pose.LeftKnee},
		{pose.RightHip, pose.RightKnee},
	} {
		hip, knee := side[0], side[1]
		// Rotate the hip around the knee; the shin stays vertical.
		phi := (180 - deg) * math.Pi / 180
		f[hip].X = f[knee].X + thighLen*math.Sin(phi)
		f[hip].Y = f[knee].Y - thighLen*math.Cos(phi)
	}

	// Keep the torso upright above the (possibly lowered) hips.
	for _, pair := range [][2]int{
		{pose.LeftShoulder, pose.LeftHip},
		{pose.RightShoulder, pose.RightHip},
	} {
		f[pair[0]].X = f[pair[1]].X
		f[pair[0]].Y = f[pair[1]].Y - torsoLen
	}

	return f
}

// LegRaiseFrame returns a pose with the knee rotated around the hip so that
// the hip flexion angle (shoulder-hip-knee) on both sides is approximately
// deg degrees. 180 is a straight, lowered leg.
func LegRaiseFrame(deg float64) *pose.Frame {
	f := baseFrame()

	for _, side := range [][2]int{
		{pose.LeftHip, pose.LeftKnee},
		{pose.RightHip, pose.RightKnee},
	} {
		hip, knee := side[0], side[1]
		phi := (180 - deg) * math.Pi / 180
		f[knee].X = f[hip].X + thighLen*math.Sin(phi)
		f[knee].Y = f[hip].Y + thighLen*math.Cos(phi)
		// The ankle follows the knee with a straight shin.
		ankle := knee + 2 // LeftAnkle = LeftKnee+2, RightAnkle = RightKnee+2
		f[ankle].X = f[knee].X
		f[ankle].Y = f[knee].Y + shinLen
	}

	return f
}

// CurlFrame returns a pose with the wrist rotated around the elbow so that
// the elbow angle (shoulder-elbow-wrist) on both sides is approximately deg
// degrees. 180 is a fully extended arm.
func CurlFrame(deg float64) *pose.Frame {
	f := baseFrame()

	for _, side := range [][2]int{
		{pose.LeftElbow, pose.LeftWrist},
		{pose.RightElbow, pose.RightWrist},
	} {
		elbow, wrist := side[0], side[1]
		phi := (180 - deg) * math.Pi / 180
		f[wrist].X = f[elbow].X + foreLen*math.Sin(phi)
		f[wrist].Y = f[elbow].Y + foreLen*math.Cos(phi)
	}

	return f
}

// WithVisibility returns a copy of f with every landmark's visibility set
// to vis.
func WithVisibility(f *pose.Frame, vis float64) *pose.Frame {
	out := *f
	for i := range out {
		out[i].Visibility = vis
	}
	return &out
}

// WithLandmarkVisibility returns a copy of f with a single landmark's
// visibility set to vis.
func WithLandmarkVisibility(f *pose.Frame, index int, vis float64) *pose.Frame {
	out := *f
	out[index].Visibility = vis
	return &out
}

// baseFrame lays out an upright body centered in frame, all visibilities 1.
func baseFrame() *pose.Frame {
	f := &pose.Frame{}

	set := func(idx int, x, y float64) {
		f[idx] = pose.Landmark{X: x, Y: y, Visibility: 1}
	}

	set(pose.Nose, 0.50, 0.10)
	for i := pose.LeftEyeInner; i <= pose.MouthRight; i++ {
		set(i, 0.50, 0.10)
	}

	set(pose.LeftShoulder, 0.44, 0.25)
	set(pose.RightShoulder, 0.56, 0.25)
	set(pose.LeftElbow, 0.42, 0.45)
	set(pose.RightElbow, 0.58, 0.45)
	set(pose.LeftWrist, 0.42, 0.63)
	set(pose.RightWrist, 0.58, 0.63)
	for i := pose.LeftPinky; i <= pose.RightThumb; i++ {
		x := 0.42
		if i%2 == 0 {
			x = 0.58
		}
		set(i, x, 0.66)
	}

	set(pose.LeftHip, 0.44, 0.50)
	set(pose.RightHip, 0.56, 0.50)
	set(pose.LeftKnee, 0.44, 0.70)
	set(pose.RightKnee, 0.56, 0.70)
	set(pose.LeftAnkle, 0.44, 0.90)
	set(pose.RightAnkle, 0.56, 0.90)
	set(pose.LeftHeel, 0.44, 0.92)
	set(pose.RightHeel, 0.56, 0.92)
	set(pose.LeftFootIndex, 0.44, 0.94)
	set(pose.RightFootIndex, 0.56, 0.94)

	return f
}
