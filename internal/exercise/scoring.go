package exercise

import "math"

// tempoScore rates rep duration on a 0-100 scale. A controlled 2-3 second
// rep scores best; both rushed and dragged reps score down.
func tempoScore(durationMs int64) int {
	switch {
	case durationMs < 500:
		return 20
	case durationMs < 1000:
		return 40
	case durationMs < 1500:
		return 60
	case durationMs < 2000:
		return 85
	case durationMs < 3000:
		return 100
	case durationMs < 4000:
		return 80
	case durationMs < 5000:
		return 60
	default:
		return 40
	}
}

// formScore combines range of motion (70%) and tempo (30%) into a 0-100
// score. The ROM contribution is capped at full marks: exceeding the target
// does not score above 70.
func formScore(rom, targetROM float64, tempo int) int {
	ratio := 0.0
	if targetROM > 0 {
		ratio = math.Min(rom/targetROM, 1.2)
	}
	romPart := math.Min(ratio*70, 70)
	tempoPart := float64(tempo) / 100 * 30
	return int(math.Round(romPart + tempoPart))
}
