// Package session adapts engine output to the shapes consumed by
// persistence and the audio announcer.
package session

import (
	"math"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/exercise"
)

// FormQuality is the coarse per-rep quality category stored alongside the
// numeric scores.
type FormQuality string

const (
	FormGood        FormQuality = "good"
	FormTooShallow  FormQuality = "too_shallow"
	FormTooFast     FormQuality = "too_fast"
	FormCompensated FormQuality = "compensated"
)

// Classification boundaries.
const (
	// tooFastTempo is the tempo score below which a rep counts as rushed.
	tooFastTempo = 60
	// shallowFraction of the target ROM is the minimum depth for a rep
	// not to count as shallow.
	shallowFraction = 0.9
)

// RepPayload is the wire record sent to persistence once per counted rep.
type RepPayload struct {
	ExerciseID    string      `json:"exerciseId"`
	RepIndex      int         `json:"repIndex"`
	RomMax        int         `json:"romMax"`
	RomTarget     int         `json:"romTarget"`
	AccuracyScore int         `json:"accuracyScore"`
	TempoScore    int         `json:"tempoScore"`
	FormQuality   FormQuality `json:"formQuality"`
	ErrorSegment  string      `json:"errorSegment,omitempty"`
	TimestampMs   int64       `json:"timestampMs"`
}

// MapRep converts an internal rep record into the persistence wire shape.
// RepIndex is one-based within the session.
func MapRep(exerciseID string, repIndex int, rec exercise.RepRecord, timestampMs int64) RepPayload {
	return RepPayload{
		ExerciseID:    exerciseID,
		RepIndex:      repIndex,
		RomMax:        int(math.Round(rec.ROM)),
		RomTarget:     int(math.Round(rec.TargetROM)),
		AccuracyScore: rec.FormScore,
		TempoScore:    rec.TempoScore,
		FormQuality:   classify(rec),
		ErrorSegment:  string(rec.Segment),
		TimestampMs:   timestampMs,
	}
}

// classify reduces a rep to one quality category. A rushed rep outranks a
// shallow one, which outranks a compensated one; a rep is good only when
// none of the three apply.
func classify(rec exercise.RepRecord) FormQuality {
	switch {
	case rec.TempoScore < tooFastTempo:
		return FormTooFast
	case rec.ROM < shallowFraction*rec.TargetROM:
		return FormTooShallow
	case rec.Compensated:
		return FormCompensated
	default:
		return FormGood
	}
}
