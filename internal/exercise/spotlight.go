package exercise

import (
	"fmt"
	"math"
)

// Segment names the limb segment most responsible for a form deviation.
type Segment string

const (
	SegmentLeftKnee   Segment = "left_knee"
	SegmentRightKnee  Segment = "right_knee"
	SegmentLeftHip    Segment = "left_hip"
	SegmentRightHip   Segment = "right_hip"
	SegmentLeftElbow  Segment = "left_elbow"
	SegmentRightElbow Segment = "right_elbow"
)

func kneeSegment(side Side) Segment {
	if side == SideRight {
		return SegmentRightKnee
	}
	return SegmentLeftKnee
}

func hipSegment(side Side) Segment {
	if side == SideRight {
		return SegmentRightHip
	}
	return SegmentLeftHip
}

func elbowSegment(side Side) Segment {
	if side == SideRight {
		return SegmentRightElbow
	}
	return SegmentLeftElbow
}

// Spotlight is a per-frame diagnostic naming the dominant form deviation.
// A zero Segment with zero Magnitude means no deviation worth flagging.
// Recomputed every frame, never persisted.
type Spotlight struct {
	Segment   Segment    `json:"limbSegment,omitempty"`
	Magnitude float64    `json:"errorMagnitude"`
	Direction [2]float64 `json:"correctionDirection"`
	Message   string     `json:"message,omitempty"`
}

// spotlightParams tunes the error spotlight for one exercise kind.
type spotlightParams struct {
	// phases where the diagnostic is meaningful.
	phases []Phase
	// margin in degrees the angle must exceed the depth threshold by
	// before a deviation is flagged.
	margin float64
	// scale normalizes the excess angle into a 0..1 magnitude.
	scale float64
	// maxMagnitude caps the reported magnitude.
	maxMagnitude float64
	segment      func(side Side) Segment
	// direction is a unit correction vector in image space.
	direction [2]float64
	verb      string
}

// spotlightFor evaluates the error spotlight for the current frame, or
// returns nil when the detector is in a phase where it is not meaningful.
func (d *RepDetector) spotlightFor(angle float64, th Thresholds) *Spotlight {
	p := d.def.spotlight

	active := false
	for _, ph := range p.phases {
		if d.phase == ph {
			active = true
			break
		}
	}
	if !active {
		return nil
	}

	excess := angle - th.Bottom
	if excess <= p.margin {
		return &Spotlight{}
	}

	magnitude := math.Min(excess/p.scale, p.maxMagnitude)

	return &Spotlight{
		Segment:   p.segment(d.side),
		Magnitude: magnitude,
		Direction: p.direction,
		Message: fmt.Sprintf("%s: at %d°, aim for %d°",
			p.verb, int(math.Round(angle)), int(math.Round(th.Bottom))),
	}
}
