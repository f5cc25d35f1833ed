package exercise

import (
	"fmt"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
)

// Kind identifies one of the supported exercises.
type Kind string

const (
	KindSquat            Kind = "squat"
	KindStraightLegRaise Kind = "straight_leg_raise"
	KindElbowFlexion     Kind = "elbow_flexion"
)

// Difficulty selects a threshold set for an exercise.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Thresholds are the three angle boundaries delimiting the phase cycle.
// Down is crossed (descending) to enter the down phase, Bottom marks full
// depth, and Up is crossed (ascending) to complete the repetition.
type Thresholds struct {
	Down   float64
	Bottom float64
	Up     float64
}

// definition bundles everything that varies between exercise kinds: the
// threshold table, the joint angle to watch, which landmarks must be
// visible, the ROM floor and the error-spotlight tuning.
type definition struct {
	kind       Kind
	thresholds map[Difficulty]Thresholds
	angle      func(f *pose.Frame, side Side) float64
	required   func(side Side) []int
	romFloor   float64
	spotlight  spotlightParams
	setup      string
}

var definitions = map[Kind]definition{
	KindSquat: {
		kind: KindSquat,
		thresholds: map[Difficulty]Thresholds{
			DifficultyEasy:   {Down: 130, Bottom: 115, Up: 150},
			DifficultyNormal: {Down: 110, Bottom: 95, Up: 160},
			DifficultyHard:   {Down: 100, Bottom: 85, Up: 165},
		},
		angle: KneeFlexionAngle,
		required: func(side Side) []int {
			_, _, _, hip, knee, ankle := side.joints()
			return []int{hip, knee, ankle}
		},
		romFloor: 60,
		spotlight: spotlightParams{
			// Only meaningful on the way down: at rest or at depth a
			// shallow knee angle is not an error.
			phases:       []Phase{PhaseDown},
			margin:       20,
			scale:        40,
			maxMagnitude: 1.0,
			segment:      func(side Side) Segment { return kneeSegment(side) },
			direction:    [2]float64{0, 1},
			verb:         "Sink lower",
		},
		setup: "Stand tall, feet shoulder-width apart, whole body in frame.",
	},
	KindStraightLegRaise: {
		kind: KindStraightLegRaise,
		thresholds: map[Difficulty]Thresholds{
			DifficultyEasy:   {Down: 170, Bottom: 135, Up: 170},
			DifficultyNormal: {Down: 165, Bottom: 110, Up: 165},
			DifficultyHard:   {Down: 160, Bottom: 95, Up: 160},
		},
		angle: HipFlexionAngle,
		required: func(side Side) []int {
			shoulder, _, _, hip, knee, _ := side.joints()
			return []int{shoulder, hip, knee}
		},
		romFloor: 40,
		spotlight: spotlightParams{
			phases:       []Phase{PhaseDown, PhaseBottom, PhaseUp},
			margin:       25,
			scale:        45,
			maxMagnitude: 0.9,
			segment:      func(side Side) Segment { return hipSegment(side) },
			direction:    [2]float64{0, -1},
			verb:         "Lift higher",
		},
		setup: "Lie on your back, keep the leg straight and in view.",
	},
	KindElbowFlexion: {
		kind: KindElbowFlexion,
		thresholds: map[Difficulty]Thresholds{
			DifficultyEasy:   {Down: 160, Bottom: 80, Up: 155},
			DifficultyNormal: {Down: 150, Bottom: 60, Up: 160},
			DifficultyHard:   {Down: 140, Bottom: 45, Up: 165},
		},
		angle: ElbowFlexionAngle,
		required: func(side Side) []int {
			shoulder, elbow, wrist, _, _, _ := side.joints()
			return []int{shoulder, elbow, wrist}
		},
		romFloor: 70,
		spotlight: spotlightParams{
			phases:       []Phase{PhaseDown, PhaseBottom, PhaseUp},
			margin:       15,
			scale:        45,
			maxMagnitude: 0.8,
			segment:      func(side Side) Segment { return elbowSegment(side) },
			direction:    [2]float64{0, -1},
			verb:         "Curl further",
		},
		setup: "Sit or stand with your arm at your side, elbow visible.",
	},
}

// Kinds returns the supported exercise kinds.
func Kinds() []Kind {
	return []Kind{KindSquat, KindStraightLegRaise, KindElbowFlexion}
}

// ParseKind validates an exercise kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := definitions[k]; !ok {
		return "", fmt.Errorf("unknown exercise kind %q", s)
	}
	return k, nil
}

// ParseDifficulty validates a difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}
