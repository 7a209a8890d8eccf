package service

import (
	"english_placement_backend/internal/model"
	"english_placement_backend/internal/util"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gorm.io/gorm"
)

// QuestionStore is the read-only view of the question bank the engine
// needs. The gorm repository satisfies it; tests use an in-memory fake.
type QuestionStore interface {
	ListBySkillLevel(skill model.SkillType, level model.CEFRLevel) ([]model.Question, error)
	FindByID(id uint) (*model.Question, error)
}

// QuestionBank samples assessment items for the selector. It is
// side-effect free: the bank's import/edit surface lives in the admin
// controller, not here.
type QuestionBank struct {
	Store QuestionStore
}

func NewQuestionBank(store QuestionStore) *QuestionBank {
	return &QuestionBank{Store: store}
}

// ItemsFor returns every eligible item for a skill/level pair, sorted by
// id so downstream sampling is deterministic. Returns ErrNoQuestions when
// the combination is empty and ErrBankUnavailable when the lookup itself
// fails.
func (b *QuestionBank) ItemsFor(skill model.SkillType, level model.CEFRLevel) ([]model.Question, error) {
	items, err := b.Store.ListBySkillLevel(skill, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrBankUnavailable, err)
	}
	if len(items) == 0 {
		return nil, util.ErrNoQuestions
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Pick samples one item at the level, excluding already-served ids. The
// caller supplies the session's seeded rng, which makes the draw
// reproducible from the persisted session record.
func (b *QuestionBank) Pick(skill model.SkillType, level model.CEFRLevel, exclude map[uint]bool, rng *rand.Rand) (*model.Question, error) {
	items, err := b.ItemsFor(skill, level)
	if err != nil {
		return nil, err
	}

	eligible := items[:0:0]
	for _, q := range items {
		if !exclude[q.ID] {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return nil, util.ErrNoQuestions
	}

	q := eligible[rng.Intn(len(eligible))]
	return &q, nil
}

// Get loads a single item by id.
func (b *QuestionBank) Get(id uint) (*model.Question, error) {
	q, err := b.Store.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("%w: %v", util.ErrBankUnavailable, err)
	}
	return q, nil
}
