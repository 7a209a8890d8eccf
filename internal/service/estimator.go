package service

import (
	"english_placement_backend/internal/model"
)

// Ability estimation works on a 0-100 scale. Each scored answer moves the
// skill's estimate toward an anchor just above (correct) or just below
// (incorrect) the answered item's difficulty, with a step size that
// shrinks as responses accumulate. Early answers swing the estimate
// broadly; later ones fine-tune it.
const (
	abilityFloor   = 0.0
	abilityCeiling = 100.0

	// InitialAbility is the B1 band midpoint, the CEFR midpoint every
	// skill starts from.
	InitialAbility = 42.5

	baseStep     = 12.0
	stepDecay    = 0.25
	anchorOffset = 10.0

	// Confidence grows with response count against this prior and shrinks
	// with oscillation over the recent direction window.
	confidencePrior  = 4.0
	directionWindow  = 6
	oscillationCost  = 0.5
	passingThreshold = 0.5
)

// cefrFloors are the lower bounds of each band on the ability scale.
// Bands are contiguous and exhaustive: every estimate maps to exactly one
// level, with A1 and C2 open-ended at the extremes.
var cefrFloors = map[model.CEFRLevel]float64{
	model.LevelA1: 0,
	model.LevelA2: 20,
	model.LevelB1: 35,
	model.LevelB2: 50,
	model.LevelC1: 65,
	model.LevelC2: 80,
}

// NewAbilityState returns the estimator's starting state for a skill.
func NewAbilityState() model.AbilityState {
	return model.AbilityState{Estimate: InitialAbility}
}

// LevelForAbility buckets a continuous estimate into a CEFR band.
func LevelForAbility(estimate float64) model.CEFRLevel {
	level := model.LevelA1
	for _, l := range model.CEFRLevels {
		if estimate >= cefrFloors[l] {
			level = l
		}
	}
	return level
}

// TargetDifficulty returns the ability value the selector aims for when it
// requests an item of the given level: the band midpoint, with the
// open-ended extremes pinned inside the scale.
func TargetDifficulty(level model.CEFRLevel) float64 {
	switch level {
	case model.LevelA1:
		return 10
	case model.LevelA2:
		return 27.5
	case model.LevelB1:
		return 42.5
	case model.LevelB2:
		return 57.5
	case model.LevelC1:
		return 72.5
	default:
		return 90
	}
}

// RecordResponse folds one scored answer into the state and returns the
// updated state. difficulty is the answered item's target difficulty,
// ratio the fraction of points earned.
func RecordResponse(st model.AbilityState, difficulty, ratio float64) model.AbilityState {
	dir := 1
	if ratio < passingThreshold {
		dir = -1
	}

	// Move toward an anchor past the item's difficulty, never overshooting
	// it and never by more than the staircase step for this response count.
	anchor := difficulty + float64(dir)*anchorOffset
	step := baseStep / (1 + stepDecay*float64(st.Responses))
	delta := anchor - st.Estimate
	if delta > step {
		delta = step
	} else if delta < -step {
		delta = -step
	}
	// A correct answer never lowers the estimate, a wrong one never raises
	// it, even when the item was far off the current estimate.
	if dir > 0 && delta < 0 {
		delta = 0
	} else if dir < 0 && delta > 0 {
		delta = 0
	}

	st.Estimate += delta
	if st.Estimate < abilityFloor {
		st.Estimate = abilityFloor
	} else if st.Estimate > abilityCeiling {
		st.Estimate = abilityCeiling
	}

	st.Responses++
	st.Directions = append(st.Directions, dir)
	if len(st.Directions) > directionWindow {
		st.Directions = st.Directions[len(st.Directions)-directionWindow:]
	}
	return st
}

// Confidence reports how settled the estimate is, in [0,1]. It increases
// monotonically with response count and decreases with the flip rate of
// recent step directions: repeated up/down oscillation signals the
// staircase has not converged.
func Confidence(st model.AbilityState) float64 {
	if st.Responses == 0 {
		return 0
	}
	count := float64(st.Responses) / (float64(st.Responses) + confidencePrior)

	flips := 0
	for i := 1; i < len(st.Directions); i++ {
		if st.Directions[i] != st.Directions[i-1] {
			flips++
		}
	}
	flipRatio := 0.0
	if len(st.Directions) > 1 {
		flipRatio = float64(flips) / float64(len(st.Directions)-1)
	}

	c := count * (1 - oscillationCost*flipRatio)
	if c < 0 {
		c = 0
	} else if c > 1 {
		c = 1
	}
	return c
}

// ConfidenceBand is the qualitative label shown next to a confidence
// figure.
func ConfidenceBand(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "Strong"
	case confidence >= 0.5:
		return "Good"
	default:
		return "Developing"
	}
}
