package service

import (
	"sync"
	"testing"
	"time"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/util"
	"english_placement_backend/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signalRecorder captures certificate signals from the bus.
type signalRecorder struct {
	mu       sync.Mutex
	payloads []CertificatePayload
}

func (r *signalRecorder) record(data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := data.(CertificatePayload); ok {
		r.payloads = append(r.payloads, p)
	}
}

func (r *signalRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func (r *signalRecorder) last() CertificatePayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payloads[len(r.payloads)-1]
}

type engineFixture struct {
	svc     *PlacementService
	store   *fakeStore
	bank    *fakeQuestionStore
	signals *signalRecorder
	now     time.Time
}

func newEngineFixture(t *testing.T, perLevel int) *engineFixture {
	t.Helper()
	bus := eventbus.New()
	rec := &signalRecorder{}
	bus.Subscribe(EventCertificateEligible, rec.record)

	store := newFakeStore()
	bank := newFullBank(perLevel)
	svc := NewPlacementService(store, store, NewQuestionBank(bank), bus, nil)

	f := &engineFixture{svc: svc, store: store, bank: bank, signals: rec, now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc.Clock = func() time.Time { return f.now }
	return f
}

// waitForSignals blocks until the async bus delivered n signals.
func (f *engineFixture) waitForSignals(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.signals.count() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d certificate signals, got %d", n, f.signals.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// answerAll drives a session to the end of its question order, submitting
// the given text for every item.
func (f *engineFixture) answerAll(t *testing.T, code, answer string) {
	t.Helper()
	for {
		sess, err := f.svc.Sessions.FindByCode(code)
		require.NoError(t, err)
		idx := sess.QuestionOrder.FirstUnanswered()
		if idx < 0 {
			return
		}
		_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: idx, Answer: answer, TimeSpentSeconds: 30})
		require.NoError(t, err)
	}
}

func TestStartQuickSession(t *testing.T) {
	f := newEngineFixture(t, 3)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Dana", StudentEmail: "dana@example.com"})
	require.NoError(t, err)

	assert.Len(t, sess.SessionCode, 8)
	assert.Equal(t, model.StatusInProgress, sess.Status)
	// One opening question per receptive skill.
	assert.Len(t, sess.QuestionOrder, 2)
	assert.Equal(t, 1, sess.QuestionOrder.CountForSkill(model.SkillReading))
	assert.Equal(t, 1, sess.QuestionOrder.CountForSkill(model.SkillListening))
	assert.Contains(t, sess.Abilities, model.SkillReading)
	assert.Equal(t, InitialAbility, sess.Abilities[model.SkillReading].Estimate)
}

func TestStartPersonalizedServesAllSkills(t *testing.T) {
	f := newEngineFixture(t, 3)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Leo", StudentEmail: "leo@example.com"})
	require.NoError(t, err)

	assert.Len(t, sess.QuestionOrder, 4)
	for _, skill := range model.AllSkills {
		assert.Equal(t, 1, sess.QuestionOrder.CountForSkill(skill), "skill %s", skill)
	}
}

func TestStartWithEmptyBankFails(t *testing.T) {
	bus := eventbus.New()
	store := newFakeStore()
	svc := NewPlacementService(store, store, NewQuestionBank(&fakeQuestionStore{}), bus, nil)

	_, err := svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "x", StudentEmail: "x@example.com"})
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestQuickSessionAllCorrectCompletesAtC2(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Ada", StudentEmail: "ada@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")

	done, err := f.svc.Complete(code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)
	require.NotNil(t, done.CalculatedLevel)
	assert.Equal(t, model.LevelC2, *done.CalculatedLevel)
	assert.NotNil(t, done.CompletedAt)

	f.waitForSignals(t, 1)
	payload := f.signals.last()
	assert.Equal(t, code, payload.SessionCode)
	assert.Equal(t, model.LevelC2, payload.Level)
	assert.Contains(t, payload.Breakdown, model.SkillReading)
}

func TestSubmitAnswerAdvancesAndStaysWithinBudget(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Ben", StudentEmail: "ben@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	res, err := f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes", TimeSpentSeconds: 20})
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.False(t, res.IsLast)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, 1, res.NextIndex)

	f.answerAll(t, code, "yes")

	final, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(final.QuestionOrder), model.ModeQuick.QuestionBudget())
	assert.Equal(t, len(final.QuestionOrder), final.QuestionOrder.AnsweredCount())
}

func TestSubmitAnswerIdempotentOnAnsweredIndex(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Ida", StudentEmail: "ida@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	first, err := f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes"})
	require.NoError(t, err)

	// Retrying the same index must not change anything: no new answer row,
	// no ability movement, same next question.
	again, err := f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "no"})
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	assert.Equal(t, first.NextIndex, again.NextIndex)

	count, err := f.store.CountBySession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	assert.Equal(t, first.Session.Abilities[model.SkillReading].Estimate, stored.Abilities[model.SkillReading].Estimate)
}

func TestSubmitAnswerBankFailureLeavesSessionUntouched(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Mia", StudentEmail: "mia@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	// The bank goes down between scoring the answer and selecting the
	// successor: the whole submission must be rejected with nothing
	// persisted, so the client can simply retry.
	f.bank.listFailing = true
	_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes", TimeSpentSeconds: 30})
	assert.ErrorIs(t, err, util.ErrBankUnavailable)

	stored, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.QuestionOrder.FirstUnanswered())
	assert.False(t, stored.QuestionOrder[0].Answered)
	assert.Equal(t, InitialAbility, stored.Abilities[model.SkillReading].Estimate)
	assert.Zero(t, stored.TimeSpentSeconds)

	count, err := f.store.CountBySession(sess.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Once the bank recovers the same submission goes through as a fresh
	// one, not a duplicate.
	f.bank.listFailing = false
	res, err := f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes", TimeSpentSeconds: 30})
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Greater(t, res.Session.Abilities[model.SkillReading].Estimate, InitialAbility)
}

func TestSubmitAnswerRejectsOutOfRangeIndex(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Eve", StudentEmail: "eve@example.com"})
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(sess.SessionCode, SubmitAnswerRequest{Index: 99, Answer: "yes"})
	assert.ErrorIs(t, err, util.ErrInvalidIndex)

	_, err = f.svc.SubmitAnswer(sess.SessionCode, SubmitAnswerRequest{Index: -1, Answer: "yes"})
	assert.ErrorIs(t, err, util.ErrInvalidIndex)
}

func TestSubmitAnswerCaseInsensitiveScoring(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Nia", StudentEmail: "nia@example.com"})
	require.NoError(t, err)

	res, err := f.svc.SubmitAnswer(sess.SessionCode, SubmitAnswerRequest{Index: 0, Answer: "  YES "})
	require.NoError(t, err)
	assert.Greater(t, res.Session.Abilities[model.SkillReading].Estimate, InitialAbility)
}

func TestCompleteRejectsUnansweredSession(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Jo", StudentEmail: "jo@example.com"})
	require.NoError(t, err)

	_, err = f.svc.Complete(sess.SessionCode)
	assert.ErrorIs(t, err, util.ErrInvalidStateTransition)
}

func TestCompleteIsTerminal(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Kim", StudentEmail: "kim@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")
	_, err = f.svc.Complete(code)
	require.NoError(t, err)

	_, err = f.svc.Complete(code)
	assert.ErrorIs(t, err, util.ErrInvalidStateTransition)

	_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes"})
	assert.ErrorIs(t, err, util.ErrInvalidStateTransition)

	f.waitForSignals(t, 1)
	assert.Equal(t, 1, f.signals.count())
}

func TestResumeReturnsSessionState(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Mo", StudentEmail: "mo@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes", TimeSpentSeconds: 45})
	require.NoError(t, err)

	resumed, err := f.svc.Resume(code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, resumed.Status)
	assert.Equal(t, 1, resumed.QuestionOrder.FirstUnanswered())
	assert.Equal(t, 45, resumed.TimeSpentSeconds)
}

func TestResumeUnknownCode(t *testing.T) {
	f := newEngineFixture(t, 2)

	_, err := f.svc.Resume("NOPENOPE")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSessionExpiresAfterWallClockLimit(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Pat", StudentEmail: "pat@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.now = f.now.Add(25 * time.Hour)

	_, err = f.svc.Resume(code)
	assert.ErrorIs(t, err, util.ErrSessionExpired)

	stored, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, stored.Status)

	// Once expired, further submissions are invalid transitions.
	_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes"})
	assert.ErrorIs(t, err, util.ErrInvalidStateTransition)

	_, err = f.svc.Resume(code)
	assert.ErrorIs(t, err, util.ErrSessionExpired)
}

func TestPersonalizedSessionGoesThroughReview(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Ray", StudentEmail: "ray@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")

	done, err := f.svc.Complete(code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, done.Status)
	// The certificate signal must wait for the reviewer.
	assert.Zero(t, f.signals.count())

	queue, err := f.svc.ReviewQueue(code)
	require.NoError(t, err)
	require.NotEmpty(t, queue)
	for _, item := range queue {
		assert.NotEmpty(t, item.AnswerID)
		assert.NotEmpty(t, item.QuestionText)
		assert.Equal(t, 10, item.MaxPoints)
	}

	grades := make([]AnswerGrade, 0, len(queue))
	for _, item := range queue {
		grades = append(grades, AnswerGrade{AnswerID: item.AnswerID, Score: 9, Feedback: "solid"})
	}

	reviewed, err := f.svc.ApplyReview(code, ApplyReviewRequest{Grades: grades, AdminFeedback: "well done"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.CalculatedLevel)

	f.waitForSignals(t, 1)
	payload := f.signals.last()
	assert.Equal(t, reviewed.FinalLevel(), payload.Level)
	assert.Equal(t, "well done", payload.AdminFeedback)

	// A second apply must fail and must not emit another signal.
	_, err = f.svc.ApplyReview(code, ApplyReviewRequest{Grades: grades})
	assert.ErrorIs(t, err, util.ErrAlreadyReviewed)
	assert.Equal(t, 1, f.signals.count())
}

func TestApplyReviewDoesNotResignalAfterEmission(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Kim", StudentEmail: "kim@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")
	_, err = f.svc.Complete(code)
	require.NoError(t, err)

	// A session whose certificate signal already went out stays silent even
	// if the review flow runs again, regardless of its status.
	stored, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	stamp := f.now
	stored.CertificateEmittedAt = &stamp
	require.NoError(t, f.store.Save(stored))

	queue, err := f.svc.ReviewQueue(code)
	require.NoError(t, err)
	grades := make([]AnswerGrade, 0, len(queue))
	for _, item := range queue {
		grades = append(grades, AnswerGrade{AnswerID: item.AnswerID, Score: 8})
	}

	reviewed, err := f.svc.ApplyReview(code, ApplyReviewRequest{Grades: grades})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReviewed, reviewed.Status)
	assert.Equal(t, stamp, *reviewed.CertificateEmittedAt)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, f.signals.count())
}

func TestApplyReviewRequiresAllGrades(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Sam", StudentEmail: "sam@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")
	_, err = f.svc.Complete(code)
	require.NoError(t, err)

	queue, err := f.svc.ReviewQueue(code)
	require.NoError(t, err)
	require.Greater(t, len(queue), 1)

	// Grade all but one open answer.
	grades := []AnswerGrade{{AnswerID: queue[0].AnswerID, Score: 5}}
	_, err = f.svc.ApplyReview(code, ApplyReviewRequest{Grades: grades})
	assert.ErrorIs(t, err, util.ErrReviewIncomplete)

	stored, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, stored.Status)
}

func TestApplyReviewClampsScores(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Tia", StudentEmail: "tia@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")
	_, err = f.svc.Complete(code)
	require.NoError(t, err)

	queue, err := f.svc.ReviewQueue(code)
	require.NoError(t, err)

	grades := make([]AnswerGrade, 0, len(queue))
	for _, item := range queue {
		grades = append(grades, AnswerGrade{AnswerID: item.AnswerID, Score: 999})
	}
	_, err = f.svc.ApplyReview(code, ApplyReviewRequest{Grades: grades})
	require.NoError(t, err)

	answers, err := f.store.ListBySession(sess.ID)
	require.NoError(t, err)
	for _, a := range answers {
		if a.RequiresReview {
			require.NotNil(t, a.AdminScore)
			assert.Equal(t, a.MaxPoints, *a.AdminScore)
		}
	}
}

func TestApplyReviewAdminLevelOverride(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Uma", StudentEmail: "uma@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")
	_, err = f.svc.Complete(code)
	require.NoError(t, err)

	queue, err := f.svc.ReviewQueue(code)
	require.NoError(t, err)
	grades := make([]AnswerGrade, 0, len(queue))
	for _, item := range queue {
		grades = append(grades, AnswerGrade{AnswerID: item.AnswerID, Score: 8})
	}

	override := model.LevelB2
	reviewed, err := f.svc.ApplyReview(code, ApplyReviewRequest{Grades: grades, AdjustedLevel: &override})
	require.NoError(t, err)
	assert.Equal(t, model.LevelB2, reviewed.FinalLevel())

	f.waitForSignals(t, 1)
	assert.Equal(t, model.LevelB2, f.signals.last().Level)
}

func TestApplyReviewRejectsUnknownLevel(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Vic", StudentEmail: "vic@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")
	_, err = f.svc.Complete(code)
	require.NoError(t, err)

	bad := model.CEFRLevel("Z9")
	_, err = f.svc.ApplyReview(code, ApplyReviewRequest{AdjustedLevel: &bad, Grades: []AnswerGrade{}})
	assert.ErrorIs(t, err, util.ErrInvalidLevel)
}

func TestReviewQueueOnlyForReviewableSessions(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Wes", StudentEmail: "wes@example.com"})
	require.NoError(t, err)

	_, err = f.svc.ReviewQueue(sess.SessionCode)
	assert.ErrorIs(t, err, util.ErrInvalidStateTransition)
}

func TestProductiveSkillCapLimitsWritingAndSpeaking(t *testing.T) {
	f := newEngineFixture(t, 6)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Zoe", StudentEmail: "zoe@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	f.answerAll(t, code, "yes")

	final, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	capPerSkill := model.ModePersonalized.ProductiveSkillCap()
	assert.LessOrEqual(t, final.QuestionOrder.CountForSkill(model.SkillWriting), capPerSkill)
	assert.LessOrEqual(t, final.QuestionOrder.CountForSkill(model.SkillSpeaking), capPerSkill)
	assert.LessOrEqual(t, len(final.QuestionOrder), model.ModePersonalized.QuestionBudget())
}

func TestSessionContinuesWhenOneSkillExhausts(t *testing.T) {
	// Bank with a single writing item: the session must keep serving the
	// other skills once writing runs dry, and still finish.
	yes := "yes"
	store := &fakeQuestionStore{}
	id := uint(0)
	for _, skill := range model.AllSkills {
		for _, level := range model.CEFRLevels {
			n := 3
			if skill == model.SkillWriting {
				n = 0
			}
			for i := 0; i < n; i++ {
				id++
				q := model.Question{
					SkillType:     skill,
					QuestionType:  model.QuestionMCQ,
					CEFRLevel:     level,
					CorrectAnswer: &yes,
					MaxPoints:     10,
					Active:        true,
				}
				q.ID = id
				if skill.Productive() {
					q.QuestionType = model.QuestionOpenResponse
					q.CorrectAnswer = nil
					q.RequiresReview = true
				}
				store.questions = append(store.questions, q)
			}
		}
	}

	bus := eventbus.New()
	fs := newFakeStore()
	svc := NewPlacementService(fs, fs, NewQuestionBank(store), bus, nil)

	sess, err := svc.Start(StartRequest{TestMode: model.ModePersonalized, StudentName: "Al", StudentEmail: "al@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode
	assert.Zero(t, sess.QuestionOrder.CountForSkill(model.SkillWriting))

	for {
		cur, err := fs.FindByCode(code)
		require.NoError(t, err)
		idx := cur.QuestionOrder.FirstUnanswered()
		if idx < 0 {
			break
		}
		_, err = svc.SubmitAnswer(code, SubmitAnswerRequest{Index: idx, Answer: "yes"})
		require.NoError(t, err)
	}

	done, err := svc.Complete(code)
	require.NoError(t, err)
	assert.Contains(t, []model.SessionStatus{model.StatusCompleted, model.StatusPendingReview}, done.Status)
}

func TestTimeSpentAccumulates(t *testing.T) {
	f := newEngineFixture(t, 2)

	sess, err := f.svc.Start(StartRequest{TestMode: model.ModeQuick, StudentName: "Gus", StudentEmail: "gus@example.com"})
	require.NoError(t, err)
	code := sess.SessionCode

	_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 0, Answer: "yes", TimeSpentSeconds: 40})
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(code, SubmitAnswerRequest{Index: 1, Answer: "no", TimeSpentSeconds: 25})
	require.NoError(t, err)

	stored, err := f.svc.Sessions.FindByCode(code)
	require.NoError(t, err)
	assert.Equal(t, 65, stored.TimeSpentSeconds)
}
