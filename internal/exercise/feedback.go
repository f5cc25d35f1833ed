package exercise

import (
	"fmt"
	"math"
)

// visibilityPrompt is returned whenever a required landmark is too
// uncertain to trust, instead of advancing the state machine.
const visibilityPrompt = "Can't see you clearly. Step back so your whole body is in frame."

// praisePhrases are cycled through on completed reps via the detector's
// injectable random source.
var praisePhrases = []string{
	"Great rep!",
	"Nice work, keep it going!",
	"That's the way!",
	"Solid rep, stay with it!",
	"Well done!",
}

func (d *RepDetector) praise() string {
	return praisePhrases[d.rng.Intn(len(praisePhrases))]
}

// nearTargetMargin is how close (degrees) the live angle must be to the
// target before directive coaching switches to encouragement.
const nearTargetMargin = 10

// phaseTexts holds the per-exercise coaching templates. The down templates
// take (current, target), bottom takes (current), up is static.
type phaseTexts struct {
	downFar  string
	downNear string
	bottom   string
	up       string
}

var coaching = map[Kind]phaseTexts{
	KindSquat: {
		downFar:  "Keep lowering: %d° now, aim for %d°.",
		downNear: "Almost at depth, %d° and closing on %d°.",
		bottom:   "Good depth at %d°. Hold it, then drive back up.",
		up:       "Push through your heels back to standing.",
	},
	KindStraightLegRaise: {
		downFar:  "Raise the leg higher: %d° now, aim for %d°.",
		downNear: "Nearly there, %d° and closing on %d°.",
		bottom:   "Strong raise at %d°. Hold, then lower with control.",
		up:       "Lower the leg slowly back down.",
	},
	KindElbowFlexion: {
		downFar:  "Curl further: %d° now, aim for %d°.",
		downNear: "Almost a full curl, %d° and closing on %d°.",
		bottom:   "Full curl at %d°. Squeeze, then extend back out.",
		up:       "Extend the arm back out smoothly.",
	},
}

// feedbackFor maps the current phase, smoothed angle and personalized
// target angle to a short coaching string. Pure function, no side effects.
func feedbackFor(def definition, phase Phase, angle, targetAngle float64) string {
	texts := coaching[def.kind]
	cur := int(math.Round(angle))
	target := int(math.Round(targetAngle))

	switch phase {
	case PhaseDown:
		if angle > targetAngle+nearTargetMargin {
			return fmt.Sprintf(texts.downFar, cur, target)
		}
		return fmt.Sprintf(texts.downNear, cur, target)
	case PhaseBottom:
		return fmt.Sprintf(texts.bottom, cur)
	case PhaseUp:
		return texts.up
	default:
		return def.setup
	}
}
