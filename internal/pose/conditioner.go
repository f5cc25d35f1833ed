package pose

// Conditioning thresholds. Positions are in normalized image space, so
// distances are fractions of the frame size.
const (
	// GateVisibility is the confidence below which a landmark position is
	// frozen at its last trusted value.
	GateVisibility = 0.2
	// MaxJumpFraction is the per-frame displacement above which a landmark
	// move is treated as a mis-detection rather than real motion.
	MaxJumpFraction = 0.15
	// SmoothAlpha is the normal EMA smoothing factor for landmark positions.
	SmoothAlpha = 0.5
	// OutlierAlpha is the heavy damping factor applied to implausible jumps.
	OutlierAlpha = 0.1
	// FullBodyVisibility is the confidence floor for the full-body check.
	FullBodyVisibility = 0.5
	// MinBodySpan is the minimum normalized vertical distance between head
	// and ankle for the body to count as fully in frame.
	MinBodySpan = 0.5
)

// keyLandmarks is the subset used for the tracking-quality score.
var keyLandmarks = []int{
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// Conditioner filters raw landmark frames before any angle math: it gates
// low-visibility points, rejects outlier jumps, smooths positions over time
// and reports tracking quality. One Conditioner serves one camera session.
type Conditioner struct {
	prev     *Frame
	quality  float64
	fullBody bool
}

// NewConditioner creates a Conditioner with no history.
func NewConditioner() *Conditioner {
	return &Conditioner{}
}

// Process conditions a raw landmark frame and returns the filtered result.
// A nil input (no person detected) returns nil and zeroes the diagnostics
// while keeping the landmark history intact for when the person returns.
func (c *Conditioner) Process(raw *Frame) *Frame {
	if raw == nil {
		c.quality = 0
		c.fullBody = false
		return nil
	}

	out := &Frame{}

	if c.prev == nil {
		// First frame: nothing to gate or smooth against.
		*out = *raw
	} else {
		for i := 0; i < NumLandmarks; i++ {
			cur := raw[i]
			prev := c.prev[i]

			// Visibility gating: hold the last trusted position when
			// confidence drops, but keep reporting the low visibility.
			if cur.Visibility < GateVisibility && prev.Visibility >= GateVisibility {
				cur.X, cur.Y, cur.Z = prev.X, prev.Y, prev.Z
			}

			// Large jumps are more likely mis-detections than motion.
			alpha := SmoothAlpha
			if planarDistance(cur, prev) > MaxJumpFraction {
				alpha = OutlierAlpha
			}

			out[i] = Landmark{
				X:          alpha*cur.X + (1-alpha)*prev.X,
				Y:          alpha*cur.Y + (1-alpha)*prev.Y,
				Z:          alpha*cur.Z + (1-alpha)*prev.Z,
				Visibility: cur.Visibility,
			}
		}
	}

	c.prev = out
	c.quality = trackingQuality(out)
	c.fullBody = fullBodyVisible(out)

	return out
}

// TrackingQuality returns the 0-100 quality score of the last processed
// frame, based on average visibility of shoulders, hips, knees and ankles.
func (c *Conditioner) TrackingQuality() float64 {
	return c.quality
}

// FullBodyVisible reports whether the whole body was in frame for the last
// processed frame.
func (c *Conditioner) FullBodyVisible() bool {
	return c.fullBody
}

// Reset clears the landmark history and diagnostics.
func (c *Conditioner) Reset() {
	c.prev = nil
	c.quality = 0
	c.fullBody = false
}

func trackingQuality(f *Frame) float64 {
	var sum float64
	for _, idx := range keyLandmarks {
		sum += f[idx].Visibility
	}
	return sum / float64(len(keyLandmarks)) * 100
}

// fullBodyVisible is true only if the head and at least one ankle are
// confidently visible and the vertical span between them covers enough of
// the frame.
func fullBodyVisible(f *Frame) bool {
	if f[Nose].Visibility < FullBodyVisibility {
		return false
	}

	span := 0.0
	found := false
	for _, idx := range []int{LeftAnkle, RightAnkle} {
		if f[idx].Visibility < FullBodyVisibility {
			continue
		}
		found = true
		if s := f[idx].Y - f[Nose].Y; s > span {
			span = s
		}
	}

	return found && span >= MinBodySpan
}
