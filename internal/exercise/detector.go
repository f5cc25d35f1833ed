package exercise

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
)

// Phase is the position within the repetition cycle. Transitions follow
// the strict cycle ready -> down -> bottom -> up -> ready; an incomplete
// cycle may abort back to ready without counting a rep.
type Phase string

const (
	PhaseReady  Phase = "ready"
	PhaseDown   Phase = "down"
	PhaseBottom Phase = "bottom"
	PhaseUp     Phase = "up"
)

// Detection constants.
const (
	// VisibilityFloor is the minimum visibility for the landmarks a
	// detector depends on. Below it the state machine freezes.
	VisibilityFloor = 0.5
	// MinRepDurationMs filters cycles completed implausibly fast,
	// typically caused by detection spikes.
	MinRepDurationMs = 300
	// AngleSmoothAlpha is the EMA factor for the joint angle signal.
	AngleSmoothAlpha = 0.8
)

// RepRecord describes one counted repetition. Immutable once created.
type RepRecord struct {
	MinAngle    float64 `json:"minAngle"`
	MaxAngle    float64 `json:"maxAngle"`
	FormScore   int     `json:"formScore"`
	TempoScore  int     `json:"tempoScore"`
	ROM         float64 `json:"rom"`
	TargetROM   float64 `json:"targetROM"`
	DurationMs  int64   `json:"durationMs"`
	Compensated bool    `json:"compensated"`
	Segment     Segment `json:"errorSegment,omitempty"`
}

// RepOutput is the per-frame result of RepDetector.Update.
type RepOutput struct {
	RepCount        int             `json:"repCount"`
	Phase           Phase           `json:"phase"`
	Feedback        string          `json:"feedback"`
	CurrentAngle    int             `json:"currentAngle,omitempty"`
	LastRep         *RepRecord      `json:"lastRep,omitempty"`
	PersonalizedROM PersonalizedROM `json:"personalizedROM"`
	Spotlight       *Spotlight      `json:"errorSpotlight,omitempty"`
	Debug           string          `json:"debug,omitempty"`
}

// RepDetector counts repetitions of one exercise from a stream of
// conditioned landmark frames. One instance serves exactly one
// (patient, exercise, camera session) tuple and is not safe for
// concurrent use.
type RepDetector struct {
	def        definition
	side       Side
	difficulty Difficulty

	phase       Phase
	smoother    *EMA
	minAngle    float64
	maxAngle    float64
	cycleStart  int64
	compensated bool
	compSegment Segment
	repCount    int
	rom         PersonalizedROM
	rng         *rand.Rand
}

// Option configures a RepDetector.
type Option func(*RepDetector)

// WithRand injects the random source used for praise phrase selection.
// The default is deterministic so tests can assert exact phrases.
func WithRand(r *rand.Rand) Option {
	return func(d *RepDetector) { d.rng = r }
}

// NewRepDetector creates a detector for the given exercise kind, body side
// and difficulty.
func NewRepDetector(kind Kind, side Side, difficulty Difficulty, opts ...Option) (*RepDetector, error) {
	def, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown exercise kind %q", kind)
	}
	if _, ok := def.thresholds[difficulty]; !ok {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}

	d := &RepDetector{
		def:        def,
		side:       side,
		difficulty: difficulty,
		phase:      PhaseReady,
		smoother:   NewEMA(AngleSmoothAlpha),
		rom:        newPersonalizedROM(def.romFloor),
		rng:        rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Kind returns the exercise kind this detector counts.
func (d *RepDetector) Kind() Kind { return d.def.kind }

// RepCount returns the number of counted repetitions.
func (d *RepDetector) RepCount() int { return d.repCount }

// PersonalizedROM returns the current adaptive ROM model.
func (d *RepDetector) PersonalizedROM() PersonalizedROM { return d.rom }

// SetDifficulty switches the threshold set. It takes effect on the next
// Update and does not reset the phase or the personalized ROM.
func (d *RepDetector) SetDifficulty(level Difficulty) {
	if _, ok := d.def.thresholds[level]; ok {
		d.difficulty = level
	}
}

// Reset clears the phase, angle tracking and counters. The personalized
// ROM model is preserved so learned targets survive a reset within the
// same session.
func (d *RepDetector) Reset() {
	d.phase = PhaseReady
	d.smoother.Reset()
	d.minAngle = 0
	d.maxAngle = 0
	d.cycleStart = 0
	d.compensated = false
	d.compSegment = ""
	d.repCount = 0
}

// Update consumes one conditioned landmark frame with its caller-supplied
// monotonic timestamp and advances the repetition state machine. It never
// fails: low visibility or a missing frame simply freeze progress for that
// frame and prompt the user.
func (d *RepDetector) Update(frame *pose.Frame, timestampMs int64) RepOutput {
	out := RepOutput{
		RepCount:        d.repCount,
		Phase:           d.phase,
		PersonalizedROM: d.rom,
	}

	if frame == nil {
		out.Feedback = visibilityPrompt
		out.Debug = "no pose detected"
		return out
	}

	for _, idx := range d.def.required(d.side) {
		if frame[idx].Visibility < VisibilityFloor {
			out.Feedback = visibilityPrompt
			out.Debug = fmt.Sprintf("landmark %d visibility %.2f below floor", idx, frame[idx].Visibility)
			return out
		}
	}

	angle := d.smoother.Update(d.def.angle(frame, d.side))
	out.CurrentAngle = int(math.Round(angle))

	th := d.def.thresholds[d.difficulty]

	switch d.phase {
	case PhaseReady:
		if angle < th.Down {
			d.phase = PhaseDown
			d.cycleStart = timestampMs
			d.minAngle = angle
			d.maxAngle = angle
			d.compensated = false
		}

	case PhaseDown:
		d.trackExtremes(angle)
		if angle < th.Bottom {
			d.phase = PhaseBottom
		} else if angle > th.Up {
			// Rose back past the starting boundary without reaching
			// depth: silent abort, no rep.
			d.phase = PhaseReady
		}

	case PhaseBottom:
		d.trackExtremes(angle)
		if angle > th.Bottom {
			d.phase = PhaseUp
		}

	case PhaseUp:
		d.trackExtremes(angle)
		if angle > th.Up {
			d.phase = PhaseReady
			if timestampMs-d.cycleStart >= MinRepDurationMs {
				rec := d.completeRep(timestampMs)
				out.LastRep = &rec
			}
			// A faster cycle is a detection spike: discarded silently.
		} else if angle < th.Bottom {
			d.phase = PhaseBottom
		}
	}

	out.Phase = d.phase
	out.RepCount = d.repCount
	out.PersonalizedROM = d.rom

	if sp := d.spotlightFor(angle, th); sp != nil {
		out.Spotlight = sp
		if sp.Segment != "" {
			d.compensated = true
			d.compSegment = sp.Segment
		}
	}

	if out.LastRep != nil {
		out.Feedback = d.praise()
	} else {
		out.Feedback = feedbackFor(d.def, d.phase, angle, d.targetAngle())
	}

	return out
}

// trackExtremes records the extreme angles seen since entering the cycle.
func (d *RepDetector) trackExtremes(angle float64) {
	if angle < d.minAngle {
		d.minAngle = angle
	}
	if angle > d.maxAngle {
		d.maxAngle = angle
	}
}

// completeRep scores the finished cycle, folds it into the personalized
// ROM model and increments the rep counter.
func (d *RepDetector) completeRep(timestampMs int64) RepRecord {
	duration := timestampMs - d.cycleStart
	rom := 180 - d.minAngle
	tempo := tempoScore(duration)

	// Score against the target that was in effect for this rep, then let
	// the rep raise the target for the next one.
	target := d.rom.TargetROM
	form := formScore(rom, target, tempo)
	d.rom.observe(rom, d.def.romFloor)

	d.repCount++

	rec := RepRecord{
		MinAngle:    d.minAngle,
		MaxAngle:    d.maxAngle,
		FormScore:   form,
		TempoScore:  tempo,
		ROM:         rom,
		TargetROM:   target,
		DurationMs:  duration,
		Compensated: d.compensated,
		Segment:     d.compSegment,
	}
	d.compensated = false
	d.compSegment = ""
	return rec
}

// targetAngle converts the target ROM back into the joint angle the user
// should reach.
func (d *RepDetector) targetAngle() float64 {
	return 180 - d.rom.TargetROM
}
