package service

import (
	"testing"

	"english_placement_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAnswer(idx int, q model.Question, ratio float64) model.PlacementAnswer {
	ans := model.PlacementAnswer{
		QuestionID:     q.ID,
		QuestionIndex:  idx,
		MaxPoints:      q.MaxPoints,
		RequiresReview: q.RequiresReview,
	}
	if !q.RequiresReview {
		ans.PointsEarned = int(ratio * float64(q.MaxPoints))
		correct := ratio >= 0.5
		ans.IsCorrect = &correct
	}
	return ans
}

func aggregateFixture(t *testing.T, mode model.TestMode, perSkillRatios map[model.SkillType][]float64) (AggregateResult, []model.PlacementAnswer, map[uint]model.Question) {
	t.Helper()
	sess := newTestSession(mode, 1)

	var answers []model.PlacementAnswer
	questions := map[uint]model.Question{}
	id := uint(0)
	idx := 0
	for _, skill := range mode.Skills() {
		for _, ratio := range perSkillRatios[skill] {
			id++
			q := model.Question{
				SkillType:    skill,
				QuestionType: model.QuestionMCQ,
				CEFRLevel:    model.LevelB1,
				MaxPoints:    10,
				Active:       true,
			}
			q.ID = id
			questions[id] = q
			answers = append(answers, buildAnswer(idx, q, ratio))
			idx++
		}
	}
	return Aggregate(sess, answers, questions), answers, questions
}

func TestAggregateOverallIsMinimumAcrossSkills(t *testing.T) {
	res, _, _ := aggregateFixture(t, model.ModeQuick, map[model.SkillType][]float64{
		model.SkillReading:   {1, 1, 1, 1, 1, 1},
		model.SkillListening: {0, 0, 0, 0, 0, 0},
	})

	require.Contains(t, res.Breakdown, model.SkillReading)
	require.Contains(t, res.Breakdown, model.SkillListening)
	assert.Greater(t, res.Breakdown[model.SkillReading].Level.Index(), res.Breakdown[model.SkillListening].Level.Index())
	assert.Equal(t, res.Breakdown[model.SkillListening].Level, res.Level)
}

func TestAggregateConfidenceIsMinimum(t *testing.T) {
	res, _, _ := aggregateFixture(t, model.ModeQuick, map[model.SkillType][]float64{
		model.SkillReading:   {1, 1, 1, 1, 1, 1, 1, 1},
		model.SkillListening: {1},
	})

	minConf := res.Breakdown[model.SkillListening].Confidence
	assert.Equal(t, minConf, res.Confidence)
	assert.Less(t, minConf, res.Breakdown[model.SkillReading].Confidence)
}

func TestAggregateSkipsUngradedReviewAnswers(t *testing.T) {
	sess := newTestSession(model.ModePersonalized, 1)

	q := model.Question{
		SkillType:      model.SkillWriting,
		QuestionType:   model.QuestionOpenResponse,
		CEFRLevel:      model.LevelB1,
		MaxPoints:      10,
		RequiresReview: true,
		Active:         true,
	}
	q.ID = 1
	answers := []model.PlacementAnswer{buildAnswer(0, q, 0)}
	questions := map[uint]model.Question{1: q}

	res := Aggregate(sess, answers, questions)
	// No scored evidence for writing: it stays at the starting state.
	assert.Equal(t, InitialAbility, res.Breakdown[model.SkillWriting].Ability)
	assert.Zero(t, res.Breakdown[model.SkillWriting].Confidence)
}

func TestAggregateUsesAdminScoresWhenPresent(t *testing.T) {
	sess := newTestSession(model.ModePersonalized, 1)

	q := model.Question{
		SkillType:      model.SkillWriting,
		QuestionType:   model.QuestionOpenResponse,
		CEFRLevel:      model.LevelB1,
		MaxPoints:      10,
		RequiresReview: true,
		Active:         true,
	}
	q.ID = 1
	ans := buildAnswer(0, q, 0)
	questions := map[uint]model.Question{1: q}

	full := 10
	ans.AdminScore = &full
	res := Aggregate(sess, []model.PlacementAnswer{ans}, questions)
	assert.Greater(t, res.Breakdown[model.SkillWriting].Ability, InitialAbility)

	zero := 0
	ans.AdminScore = &zero
	res = Aggregate(sess, []model.PlacementAnswer{ans}, questions)
	assert.Less(t, res.Breakdown[model.SkillWriting].Ability, InitialAbility)
}

func TestAggregateReplaysInQuestionOrder(t *testing.T) {
	// The same answers shuffled must produce the same trajectory, because
	// the aggregator sorts by question index before replaying.
	sess := newTestSession(model.ModeQuick, 1)

	questions := map[uint]model.Question{}
	var ordered []model.PlacementAnswer
	for i := 0; i < 6; i++ {
		q := model.Question{
			SkillType:    model.SkillReading,
			QuestionType: model.QuestionMCQ,
			CEFRLevel:    model.LevelB1,
			MaxPoints:    10,
			Active:       true,
		}
		q.ID = uint(i + 1)
		questions[q.ID] = q
		ratio := 1.0
		if i >= 3 {
			ratio = 0.0
		}
		ordered = append(ordered, buildAnswer(i, q, ratio))
	}

	shuffled := []model.PlacementAnswer{ordered[4], ordered[0], ordered[5], ordered[2], ordered[1], ordered[3]}

	a := Aggregate(sess, ordered, questions)
	b := Aggregate(sess, shuffled, questions)
	assert.Equal(t, a.Breakdown[model.SkillReading].Ability, b.Breakdown[model.SkillReading].Ability)
	assert.Equal(t, a.Level, b.Level)
}

func TestAggregateBreakdownDescription(t *testing.T) {
	res, _, _ := aggregateFixture(t, model.ModeQuick, map[model.SkillType][]float64{
		model.SkillReading:   {1, 1, 1, 1, 1, 1},
		model.SkillListening: {1, 1, 1, 1, 1, 1},
	})
	desc := res.Breakdown[model.SkillReading].Description
	assert.Contains(t, desc, string(res.Breakdown[model.SkillReading].Level))
	assert.Contains(t, desc, "evidence")
}
