package service

import (
	"english_placement_backend/internal/model"
	"english_placement_backend/internal/util"
	"errors"
	"math/rand"
)

// Selector implements adaptive item selection: the next question for a
// skill is drawn at the level matching the skill's current ability
// estimate, excluding everything already served in the session. Selection
// is deterministic given (ability state, served set, session seed).
type Selector struct {
	Bank *QuestionBank
}

func NewSelector(bank *QuestionBank) *Selector {
	return &Selector{Bank: bank}
}

// Next returns the next item for the skill, or nil when the skill's bank
// is exhausted for this session. Exhaustion is not an error: the session
// simply stops requesting items for that skill.
func (s *Selector) Next(sess *model.TestSession, skill model.SkillType) (*model.Question, error) {
	state, ok := sess.Abilities[skill]
	if !ok {
		state = NewAbilityState()
	}
	target := LevelForAbility(state.Estimate)

	exclude := make(map[uint]bool, len(sess.QuestionOrder))
	for _, e := range sess.QuestionOrder {
		exclude[e.QuestionID] = true
	}

	rng := sessionRNG(sess, skill)

	for _, level := range levelsByProximity(target) {
		q, err := s.Bank.Pick(skill, level, exclude, rng)
		if err != nil {
			if errors.Is(err, util.ErrNoQuestions) {
				continue
			}
			return nil, err
		}
		return q, nil
	}
	return nil, nil
}

// NextSkill picks which tested skill should receive the next item: the one
// with the fewest served items, skipping skills that are capped or listed
// as exhausted. Ties break on the canonical skill order, which interleaves
// reading/listening (and writing/speaking in personalized mode).
func (s *Selector) NextSkill(sess *model.TestSession, exhausted map[model.SkillType]bool) (model.SkillType, bool) {
	productiveCap := sess.TestMode.ProductiveSkillCap()

	var best model.SkillType
	bestCount := -1
	for _, skill := range sess.TestMode.Skills() {
		if exhausted[skill] {
			continue
		}
		count := sess.QuestionOrder.CountForSkill(skill)
		if skill.Productive() && count >= productiveCap {
			continue
		}
		if bestCount == -1 || count < bestCount {
			best, bestCount = skill, count
		}
	}
	return best, bestCount >= 0
}

// levelsByProximity orders the CEFR bands by distance from the target,
// preferring the higher band on equal distance.
func levelsByProximity(target model.CEFRLevel) []model.CEFRLevel {
	ti := target.Index()
	out := []model.CEFRLevel{target}
	for d := 1; d < len(model.CEFRLevels); d++ {
		if ti+d < len(model.CEFRLevels) {
			out = append(out, model.CEFRLevels[ti+d])
		}
		if ti-d >= 0 {
			out = append(out, model.CEFRLevels[ti-d])
		}
	}
	return out
}

// sessionRNG derives a deterministic rng from the session seed, the number
// of items served so far and the skill, so repeated calls at the same
// session position draw the same item.
func sessionRNG(sess *model.TestSession, skill model.SkillType) *rand.Rand {
	var skillIdx int64
	for i, sk := range model.AllSkills {
		if sk == skill {
			skillIdx = int64(i)
			break
		}
	}
	seed := sess.Seed + int64(len(sess.QuestionOrder))*1000003 + skillIdx*7919
	return rand.New(rand.NewSource(seed))
}
