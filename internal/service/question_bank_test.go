package service

import (
	"math/rand"
	"testing"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionBankItemsForSortsById(t *testing.T) {
	bank := NewQuestionBank(newFullBank(4))

	items, err := bank.ItemsFor(model.SkillReading, model.LevelB1)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i].ID, items[i-1].ID)
	}
}

func TestQuestionBankEmptyCombination(t *testing.T) {
	bank := NewQuestionBank(&fakeQuestionStore{})

	_, err := bank.ItemsFor(model.SkillReading, model.LevelB1)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestQuestionBankStoreFailureIsBankUnavailable(t *testing.T) {
	bank := NewQuestionBank(&fakeQuestionStore{failing: true})

	_, err := bank.ItemsFor(model.SkillReading, model.LevelB1)
	assert.ErrorIs(t, err, util.ErrBankUnavailable)

	_, err = bank.Pick(model.SkillReading, model.LevelB1, nil, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, util.ErrBankUnavailable)
}

func TestQuestionBankPickRespectsExclusions(t *testing.T) {
	store := newFullBank(2)
	bank := NewQuestionBank(store)

	items, err := bank.ItemsFor(model.SkillReading, model.LevelB1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	exclude := map[uint]bool{items[0].ID: true}
	rng := rand.New(rand.NewSource(1))
	q, err := bank.Pick(model.SkillReading, model.LevelB1, exclude, rng)
	require.NoError(t, err)
	assert.Equal(t, items[1].ID, q.ID)

	exclude[items[1].ID] = true
	_, err = bank.Pick(model.SkillReading, model.LevelB1, exclude, rng)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestQuestionBankGet(t *testing.T) {
	bank := NewQuestionBank(newFullBank(1))

	q, err := bank.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), q.ID)

	_, err = bank.Get(9999)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
