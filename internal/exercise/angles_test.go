package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/testdata"
)

func TestComputeAngle(t *testing.T) {
	origin := pose.Landmark{}

	t.Run("right angle", func(t *testing.T) {
		a := pose.Landmark{X: 0, Y: 1}
		c := pose.Landmark{X: 1, Y: 0}
		assert.InDelta(t, 90, ComputeAngle(a, origin, c), 1e-9)
	})

	t.Run("straight line", func(t *testing.T) {
		a := pose.Landmark{X: -1}
		c := pose.Landmark{X: 1}
		assert.InDelta(t, 180, ComputeAngle(a, origin, c), 1e-9)
	})

	t.Run("zero length ray returns zero", func(t *testing.T) {
		c := pose.Landmark{X: 1}
		assert.Equal(t, 0.0, ComputeAngle(origin, origin, c))
	})

	t.Run("uses depth", func(t *testing.T) {
		a := pose.Landmark{Z: 1}
		c := pose.Landmark{X: 1}
		assert.InDelta(t, 90, ComputeAngle(a, origin, c), 1e-9)
	})
}

func TestNamedAngles(t *testing.T) {
	for _, deg := range []float64{180, 140, 100, 80} {
		assert.InDelta(t, deg, KneeFlexionAngle(testdata.SquatFrame(deg), SideLeft), 1.0,
			"knee angle for squat depth %v", deg)
		assert.InDelta(t, deg, HipFlexionAngle(testdata.LegRaiseFrame(deg), SideRight), 1.0,
			"hip angle for leg raise %v", deg)
		assert.InDelta(t, deg, ElbowFlexionAngle(testdata.CurlFrame(deg), SideLeft), 1.0,
			"elbow angle for curl %v", deg)
	}
}

func TestTorsoLeanAngle(t *testing.T) {
	upright := testdata.StandingFrame()
	assert.InDelta(t, 0, TorsoLeanAngle(upright, SideLeft), 0.5)

	leaning := *upright
	leaning[pose.LeftShoulder].X += 0.1
	assert.Greater(t, TorsoLeanAngle(&leaning, SideLeft), 15.0)
}

func TestEMA(t *testing.T) {
	e := NewEMA(0.5)

	// First sample passes through unchanged.
	assert.Equal(t, 100.0, e.Update(100))
	assert.Equal(t, 90.0, e.Update(80))
	assert.Equal(t, 90.0, e.Value())

	e.Reset()
	assert.Equal(t, 50.0, e.Update(50))
}
