package exercise

// PersonalizedROM is the adaptive range-of-motion model owned by one
// detector instance. The target tightens toward 80% of the best range the
// user has demonstrated, but never drops below the exercise floor.
type PersonalizedROM struct {
	BestAchieved float64 `json:"bestAchieved"`
	AvgAchieved  float64 `json:"avgAchieved"`
	RepCount     int     `json:"repCount"`
	TargetROM    float64 `json:"targetROM"`
}

// targetFraction of the best demonstrated ROM becomes the working target.
const targetFraction = 0.8

func newPersonalizedROM(floor float64) PersonalizedROM {
	return PersonalizedROM{TargetROM: floor}
}

// observe folds one counted rep's achieved ROM into the model. BestAchieved
// is monotonically non-decreasing and TargetROM never drops below floor.
func (p *PersonalizedROM) observe(rom, floor float64) {
	if rom > p.BestAchieved {
		p.BestAchieved = rom
	}
	p.AvgAchieved = (p.AvgAchieved*float64(p.RepCount) + rom) / float64(p.RepCount+1)
	p.RepCount++

	target := p.BestAchieved * targetFraction
	if target < floor {
		target = floor
	}
	p.TargetROM = target
}
