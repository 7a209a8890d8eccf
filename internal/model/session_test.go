package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionOrderHelpers(t *testing.T) {
	order := QuestionOrder{
		{QuestionID: 1, Skill: SkillReading, Answered: true},
		{QuestionID: 2, Skill: SkillListening, Answered: true},
		{QuestionID: 3, Skill: SkillReading},
		{QuestionID: 4, Skill: SkillWriting},
	}

	assert.Equal(t, 2, order.AnsweredCount())
	assert.Equal(t, 2, order.FirstUnanswered())
	assert.True(t, order.Contains(3))
	assert.False(t, order.Contains(99))
	assert.Equal(t, 2, order.CountForSkill(SkillReading))
	assert.Equal(t, 0, order.CountForSkill(SkillSpeaking))

	done := QuestionOrder{{QuestionID: 1, Skill: SkillReading, Answered: true}}
	assert.Equal(t, -1, done.FirstUnanswered())
}

func TestQuestionOrderRoundTrip(t *testing.T) {
	order := QuestionOrder{
		{QuestionID: 7, Skill: SkillListening, Answered: true},
		{QuestionID: 9, Skill: SkillSpeaking},
	}

	val, err := order.Value()
	require.NoError(t, err)

	var restored QuestionOrder
	require.NoError(t, restored.Scan(val))
	assert.Equal(t, order, restored)
}

func TestAbilityMapRoundTrip(t *testing.T) {
	m := AbilityMap{
		SkillReading: {Estimate: 61.5, Responses: 4, Directions: []int{1, 1, -1, 1}},
	}

	val, err := m.Value()
	require.NoError(t, err)

	var restored AbilityMap
	require.NoError(t, restored.Scan(val))
	assert.Equal(t, m, restored)
}

func TestFinalLevelPrefersAdminOverride(t *testing.T) {
	calc := LevelC1
	sess := &TestSession{CalculatedLevel: &calc}
	assert.Equal(t, LevelC1, sess.FinalLevel())

	override := LevelB2
	sess.AdminAdjustedLevel = &override
	assert.Equal(t, LevelB2, sess.FinalLevel())

	assert.Equal(t, CEFRLevel(""), (&TestSession{}).FinalLevel())
}

func TestMinLevel(t *testing.T) {
	assert.Equal(t, LevelA2, MinLevel(LevelA2, LevelC1))
	assert.Equal(t, LevelA2, MinLevel(LevelC1, LevelA2))
	assert.Equal(t, LevelB1, MinLevel(LevelB1, LevelB1))
}

func TestNeedsManualGrading(t *testing.T) {
	assert.True(t, NeedsManualGrading(SkillWriting, QuestionMCQ))
	assert.True(t, NeedsManualGrading(SkillSpeaking, QuestionInterview))
	assert.True(t, NeedsManualGrading(SkillReading, QuestionOpenResponse))
	assert.False(t, NeedsManualGrading(SkillReading, QuestionMCQ))
	assert.False(t, NeedsManualGrading(SkillListening, QuestionTrueFalse))
}

func TestTestModeBudgetsAndSkills(t *testing.T) {
	assert.Equal(t, 20, ModeQuick.QuestionBudget())
	assert.Equal(t, 48, ModePersonalized.QuestionBudget())
	assert.Equal(t, []SkillType{SkillReading, SkillListening}, ModeQuick.Skills())
	assert.Len(t, ModePersonalized.Skills(), 4)
	assert.Zero(t, ModeQuick.ProductiveSkillCap())
	assert.Equal(t, 3, ModePersonalized.ProductiveSkillCap())
}

func TestScoreRatio(t *testing.T) {
	auto := &PlacementAnswer{PointsEarned: 7, MaxPoints: 10}
	ratio, ok := auto.ScoreRatio()
	assert.True(t, ok)
	assert.InDelta(t, 0.7, ratio, 1e-9)

	pending := &PlacementAnswer{MaxPoints: 10, RequiresReview: true}
	_, ok = pending.ScoreRatio()
	assert.False(t, ok)

	graded := 9
	reviewed := &PlacementAnswer{MaxPoints: 10, RequiresReview: true, AdminScore: &graded}
	ratio, ok = reviewed.ScoreRatio()
	assert.True(t, ok)
	assert.InDelta(t, 0.9, ratio, 1e-9)

	_, ok = (&PlacementAnswer{}).ScoreRatio()
	assert.False(t, ok)
}
