package pose_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/testdata"
)

func TestConditioner_FirstFramePassesThrough(t *testing.T) {
	c := pose.NewConditioner()

	raw := testdata.StandingFrame()
	out := c.Process(raw)

	require.NotNil(t, out)
	assert.Equal(t, *raw, *out)
	assert.Equal(t, 100.0, c.TrackingQuality())
}

func TestConditioner_NilFrameShortCircuits(t *testing.T) {
	c := pose.NewConditioner()

	require.Nil(t, c.Process(nil))
	assert.Zero(t, c.TrackingQuality())
	assert.False(t, c.FullBodyVisible())

	// Establish history, then lose the person.
	c.Process(testdata.StandingFrame())
	require.Nil(t, c.Process(nil))
	assert.Zero(t, c.TrackingQuality())
	assert.False(t, c.FullBodyVisible())

	// History survives the dropout: the next frame is still smoothed.
	moved := testdata.StandingFrame()
	moved[pose.LeftWrist].X += 0.05
	out := c.Process(moved)
	require.NotNil(t, out)
	assert.Less(t, out[pose.LeftWrist].X-testdata.StandingFrame()[pose.LeftWrist].X, 0.05)
}

func TestConditioner_VisibilityGatingFreezesPosition(t *testing.T) {
	c := pose.NewConditioner()

	first := testdata.StandingFrame()
	c.Process(first)

	// The knee drops out of sight and the model hallucinates a position.
	second := testdata.StandingFrame()
	second[pose.LeftKnee] = pose.Landmark{X: 0.9, Y: 0.1, Visibility: 0.1}

	out := c.Process(second)
	require.NotNil(t, out)

	// Position held at the last trusted value, low visibility reported.
	assert.InDelta(t, first[pose.LeftKnee].X, out[pose.LeftKnee].X, 1e-9)
	assert.InDelta(t, first[pose.LeftKnee].Y, out[pose.LeftKnee].Y, 1e-9)
	assert.Equal(t, 0.1, out[pose.LeftKnee].Visibility)
}

func TestConditioner_OutlierJumpIsDamped(t *testing.T) {
	c := pose.NewConditioner()

	first := testdata.StandingFrame()
	c.Process(first)

	// A 0.4 jump is far beyond plausible per-frame motion.
	second := testdata.StandingFrame()
	second[pose.RightWrist].X += 0.4

	out := c.Process(second)
	require.NotNil(t, out)

	moved := math.Abs(out[pose.RightWrist].X - first[pose.RightWrist].X)
	assert.Less(t, moved, 0.4, "damped position must not follow the full jump")
	assert.InDelta(t, 0.4*pose.OutlierAlpha, moved, 1e-9)

	// Ordinary motion is tracked much more closely.
	third := testdata.StandingFrame()
	third[pose.LeftWrist].X += 0.05
	out = c.Process(third)
	assert.Greater(t, out[pose.LeftWrist].X-first[pose.LeftWrist].X, 0.01)
}

func TestConditioner_TrackingQuality(t *testing.T) {
	c := pose.NewConditioner()

	c.Process(testdata.WithVisibility(testdata.StandingFrame(), 0.6))
	assert.InDelta(t, 60, c.TrackingQuality(), 1e-9)
}

func TestConditioner_FullBodyVisible(t *testing.T) {
	c := pose.NewConditioner()

	c.Process(testdata.StandingFrame())
	assert.True(t, c.FullBodyVisible())

	// Ankles out of frame: not a full body.
	cropped := testdata.StandingFrame()
	cropped[pose.LeftAnkle].Visibility = 0.2
	cropped[pose.RightAnkle].Visibility = 0.2
	c.Reset()
	c.Process(cropped)
	assert.False(t, c.FullBodyVisible())

	// Visible but too close to the camera: head-to-ankle span too small.
	tight := testdata.StandingFrame()
	for i := range tight {
		tight[i].Y = 0.4 + tight[i].Y*0.2
	}
	c.Reset()
	c.Process(tight)
	assert.False(t, c.FullBodyVisible())
}

func TestConditioner_ResetClearsHistory(t *testing.T) {
	c := pose.NewConditioner()
	c.Process(testdata.StandingFrame())
	c.Reset()

	assert.Zero(t, c.TrackingQuality())
	assert.False(t, c.FullBodyVisible())

	// After reset the next frame passes through unsmoothed.
	moved := testdata.StandingFrame()
	moved[pose.LeftWrist].X += 0.2
	out := c.Process(moved)
	assert.Equal(t, moved[pose.LeftWrist].X, out[pose.LeftWrist].X)
}
