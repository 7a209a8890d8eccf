package service

import (
	"errors"
	"fmt"
	"sync"

	"english_placement_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeQuestionStore is an in-memory bank for selector and engine tests.
// failing downs the whole store; listFailing downs only the level listing,
// leaving lookups by id working.
type fakeQuestionStore struct {
	questions   []model.Question
	failing     bool
	listFailing bool
}

var errStoreDown = errors.New("store down")

func (f *fakeQuestionStore) ListBySkillLevel(skill model.SkillType, level model.CEFRLevel) ([]model.Question, error) {
	if f.failing || f.listFailing {
		return nil, errStoreDown
	}
	var out []model.Question
	for _, q := range f.questions {
		if q.SkillType == skill && q.CEFRLevel == level && q.Active {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) FindByID(id uint) (*model.Question, error) {
	if f.failing {
		return nil, errStoreDown
	}
	for _, q := range f.questions {
		if q.ID == id {
			qq := q
			return &qq, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// newFullBank builds a bank with perLevel auto-scored items for every
// skill/level pair, plus manually graded items for the productive skills.
// The correct answer of every auto item is "yes".
func newFullBank(perLevel int) *fakeQuestionStore {
	store := &fakeQuestionStore{}
	id := uint(0)
	yes := "yes"
	for _, skill := range model.AllSkills {
		for _, level := range model.CEFRLevels {
			for i := 0; i < perLevel; i++ {
				id++
				q := model.Question{
					SkillType: skill,
					CEFRLevel: level,
					Prompt:    fmt.Sprintf("%s %s item %d", skill, level, i),
					MaxPoints: 10,
					Active:    true,
				}
				q.ID = id
				if skill.Productive() {
					q.QuestionType = model.QuestionOpenResponse
					q.RequiresReview = true
				} else {
					q.QuestionType = model.QuestionMCQ
					q.CorrectAnswer = &yes
				}
				store.questions = append(store.questions, q)
			}
		}
	}
	return store
}

// fakeStore implements SessionStore and AnswerStore in memory. It hands
// out deep copies, so un-persisted mutations in the service never leak
// back into the stored record.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]model.TestSession
	answers  map[uint][]model.PlacementAnswer
	nextID   uint
}

// cloneSession deep-copies the session's slice- and map-valued fields.
// A shallow struct copy would alias QuestionOrder and Abilities with the
// caller, letting rejected submissions mutate the stored record.
func cloneSession(s model.TestSession) model.TestSession {
	out := s
	out.QuestionOrder = make(model.QuestionOrder, len(s.QuestionOrder))
	copy(out.QuestionOrder, s.QuestionOrder)
	if s.Abilities != nil {
		out.Abilities = make(model.AbilityMap, len(s.Abilities))
		for skill, st := range s.Abilities {
			dirs := make([]int, len(st.Directions))
			copy(dirs, st.Directions)
			st.Directions = dirs
			out.Abilities[skill] = st
		}
	}
	if s.LevelBreakdown != nil {
		out.LevelBreakdown = make(model.LevelBreakdown, len(s.LevelBreakdown))
		for skill, r := range s.LevelBreakdown {
			out.LevelBreakdown[skill] = r
		}
	}
	return out
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]model.TestSession),
		answers:  make(map[uint][]model.PlacementAnswer),
	}
}

func (f *fakeStore) Create(sess *model.TestSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sess.ID = f.nextID
	f.sessions[sess.SessionCode] = cloneSession(*sess)
	return nil
}

func (f *fakeStore) FindByCode(code string) (*model.TestSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := cloneSession(sess)
	return &out, nil
}

func (f *fakeStore) Save(sess *model.TestSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sess.SessionCode] = cloneSession(*sess)
	return nil
}

func (f *fakeStore) CodeInUse(code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[code]
	return ok, nil
}

func (f *fakeStore) ListByStatus(status model.SessionStatus, page, limit int) ([]model.TestSession, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.TestSession
	for _, s := range f.sessions {
		if status == "" || s.Status == status {
			out = append(out, cloneSession(s))
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) SaveSubmission(sess *model.TestSession, ans *model.PlacementAnswer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.answers[sess.ID] {
		if a.QuestionIndex == ans.QuestionIndex {
			return errors.New("duplicate question index")
		}
	}
	if ans.ID == "" {
		ans.ID = uuid.NewString()
	}
	f.answers[sess.ID] = append(f.answers[sess.ID], *ans)
	f.sessions[sess.SessionCode] = cloneSession(*sess)
	return nil
}

func (f *fakeStore) SaveReview(sess *model.TestSession, answers []model.PlacementAnswer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.answers[sess.ID]
	for _, g := range answers {
		for i := range stored {
			if stored[i].ID == g.ID {
				stored[i] = g
			}
		}
	}
	f.answers[sess.ID] = stored
	f.sessions[sess.SessionCode] = cloneSession(*sess)
	return nil
}

func (f *fakeStore) ListBySession(sessionID uint) ([]model.PlacementAnswer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PlacementAnswer, len(f.answers[sessionID]))
	copy(out, f.answers[sessionID])
	return out, nil
}

func (f *fakeStore) CountBySession(sessionID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.answers[sessionID])), nil
}
