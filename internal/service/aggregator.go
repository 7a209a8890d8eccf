package service

import (
	"english_placement_backend/internal/model"
	"fmt"
	"sort"
)

// AggregateResult is the outcome of folding a session's answers into one
// level: the overall CEFR band, a confidence figure and the per-skill
// breakdown.
type AggregateResult struct {
	Level      model.CEFRLevel
	Confidence float64
	Breakdown  model.LevelBreakdown
}

// Aggregate recomputes every tested skill's ability trajectory from the
// full answer sequence in original order. Reviewer scores, when present,
// replace the automatic ones, so manual grading can change the trajectory
// rather than just the final number. Answers still waiting for review
// contribute nothing.
//
// The overall level is conservative: the lowest band among tested skills.
// Receptive skills set the base; a weak productive skill can pull the
// overall level down but never up. Overall confidence is the minimum
// per-skill confidence.
func Aggregate(sess *model.TestSession, answers []model.PlacementAnswer, questions map[uint]model.Question) AggregateResult {
	ordered := make([]model.PlacementAnswer, len(answers))
	copy(ordered, answers)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].QuestionIndex < ordered[j].QuestionIndex
	})

	states := make(map[model.SkillType]model.AbilityState)
	for _, skill := range sess.TestMode.Skills() {
		states[skill] = NewAbilityState()
	}

	for _, ans := range ordered {
		q, ok := questions[ans.QuestionID]
		if !ok {
			continue
		}
		ratio, scored := ans.ScoreRatio()
		if !scored {
			continue
		}
		states[q.SkillType] = RecordResponse(states[q.SkillType], TargetDifficulty(q.CEFRLevel), ratio)
	}

	breakdown := make(model.LevelBreakdown, len(states))
	overall := model.LevelC2
	minConfidence := 1.0
	for skill, st := range states {
		level := LevelForAbility(st.Estimate)
		conf := Confidence(st)
		breakdown[skill] = model.SkillResult{
			Level:       level,
			Confidence:  conf,
			Ability:     st.Estimate,
			Description: fmt.Sprintf("%s: %s (%s evidence)", level, level.Description(), ConfidenceBand(conf)),
		}
		overall = model.MinLevel(overall, level)
		if conf < minConfidence {
			minConfidence = conf
		}
	}

	return AggregateResult{
		Level:      overall,
		Confidence: minConfidence,
		Breakdown:  breakdown,
	}
}
