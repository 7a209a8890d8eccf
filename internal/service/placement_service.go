package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/util"
	"english_placement_backend/pkg/eventbus"
	"english_placement_backend/pkg/logger"
	"english_placement_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventCertificateEligible is published exactly once per session when its
// final level is known. The certificate-issuance system subscribes to it;
// the engine does not mint certificates itself.
const EventCertificateEligible = "placement.certificate_eligible"

// CertificatePayload is the hand-off data for certificate issuance.
type CertificatePayload struct {
	SessionCode   string               `json:"sessionCode"`
	StudentName   string               `json:"studentName"`
	StudentEmail  string               `json:"studentEmail"`
	Level         model.CEFRLevel      `json:"level"`
	Confidence    float64              `json:"confidence"`
	Breakdown     model.LevelBreakdown `json:"breakdown"`
	AdminFeedback string               `json:"adminFeedback,omitempty"`
}

// SessionStore persists test sessions. SaveSubmission and SaveReview are
// transactional: the session row and its answer rows commit together or
// not at all.
type SessionStore interface {
	Create(sess *model.TestSession) error
	FindByCode(code string) (*model.TestSession, error)
	Save(sess *model.TestSession) error
	CodeInUse(code string) (bool, error)
	ListByStatus(status model.SessionStatus, page, limit int) ([]model.TestSession, int64, error)
	SaveSubmission(sess *model.TestSession, ans *model.PlacementAnswer) error
	SaveReview(sess *model.TestSession, answers []model.PlacementAnswer) error
}

// AnswerStore reads back a session's submitted answers.
type AnswerStore interface {
	ListBySession(sessionID uint) ([]model.PlacementAnswer, error)
	CountBySession(sessionID uint) (int64, error)
}

// PlacementService owns the placement session lifecycle. Sessions are
// independent single-writer resources: every operation on a session runs
// under that session's mutex, and the stores persist each step
// transactionally.
type PlacementService struct {
	Sessions SessionStore
	Answers  AnswerStore
	Bank     *QuestionBank
	Selector *Selector
	Bus      *eventbus.Bus
	Redis    *redis.Client

	// Clock is injectable for expiry tests.
	Clock func() time.Time

	locks sync.Map
}

func NewPlacementService(sessions SessionStore, answers AnswerStore, bank *QuestionBank, bus *eventbus.Bus, rdb *redis.Client) *PlacementService {
	return &PlacementService{
		Sessions: sessions,
		Answers:  answers,
		Bank:     bank,
		Selector: NewSelector(bank),
		Bus:      bus,
		Redis:    rdb,
		Clock:    time.Now,
	}
}

// lock serializes all state-machine operations for one session code.
func (s *PlacementService) lock(code string) func() {
	v, _ := s.locks.LoadOrStore(code, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type StartRequest struct {
	TestMode     model.TestMode `json:"testMode" binding:"required"`
	StudentName  string         `json:"studentName" binding:"required"`
	StudentEmail string         `json:"studentEmail" binding:"required,email"`
}

// Start creates a fresh session: allocates a resume code, seeds the
// per-skill ability states at the CEFR midpoint and serves one opening
// item per tested skill.
func (s *PlacementService) Start(req StartRequest) (*model.TestSession, error) {
	if !req.TestMode.Valid() {
		return nil, fmt.Errorf("unknown test mode %q", req.TestMode)
	}

	code, err := s.allocateCode()
	if err != nil {
		return nil, err
	}
	seed, err := util.GenerateSeed()
	if err != nil {
		return nil, err
	}

	sess := &model.TestSession{
		SessionCode:  code,
		TestMode:     req.TestMode,
		Status:       model.StatusInProgress,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Seed:         seed,
		Abilities:    model.AbilityMap{},
		StartedAt:    s.Clock(),
	}
	for _, skill := range req.TestMode.Skills() {
		sess.Abilities[skill] = NewAbilityState()
	}

	for _, skill := range req.TestMode.Skills() {
		q, err := s.Selector.Next(sess, skill)
		if err != nil {
			return nil, err
		}
		if q == nil {
			// Empty bank for this skill; the session degrades to the
			// remaining skills.
			continue
		}
		sess.QuestionOrder = append(sess.QuestionOrder, model.QuestionOrderEntry{
			QuestionID: q.ID,
			Skill:      skill,
		})
	}
	if len(sess.QuestionOrder) == 0 {
		return nil, util.ErrNoQuestions
	}

	if err := s.Sessions.Create(sess); err != nil {
		return nil, err
	}

	monitoring.PlacementSessionsStarted.WithLabelValues(string(req.TestMode)).Inc()
	logger.Log.Info("placement session started",
		zap.String("sessionCode", sess.SessionCode),
		zap.String("mode", string(sess.TestMode)),
		zap.Int("openingQuestions", len(sess.QuestionOrder)))
	return sess, nil
}

func (s *PlacementService) allocateCode() (string, error) {
	for i := 0; i < 5; i++ {
		code, err := util.GenerateSessionCode()
		if err != nil {
			return "", err
		}
		inUse, err := s.Sessions.CodeInUse(code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique session code")
}

// Resume returns the session for a code so a paused test can continue,
// possibly on a different device. Expiry is evaluated lazily here against
// the 24-hour wall clock from started_at; cumulative time_spent_seconds is
// part of the returned session so the client timer continues instead of
// resetting.
func (s *PlacementService) Resume(code string) (*model.TestSession, error) {
	if err := s.throttleResume(code); err != nil {
		return nil, err
	}

	unlock := s.lock(code)
	defer unlock()

	sess, err := s.findSession(code)
	if err != nil {
		return nil, err
	}

	switch sess.Status {
	case model.StatusExpired:
		return nil, util.ErrSessionExpired
	case model.StatusInProgress:
		if err := s.expireIfStale(sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// expireIfStale flips an in_progress session to expired once the wall
// clock limit has passed, persisting the transition before reporting it.
func (s *PlacementService) expireIfStale(sess *model.TestSession) error {
	if s.Clock().Sub(sess.StartedAt) <= util.SessionWallClockLimit {
		return nil
	}
	sess.Status = model.StatusExpired
	if err := s.Sessions.Save(sess); err != nil {
		return err
	}
	monitoring.PlacementSessionsFinished.WithLabelValues(string(sess.TestMode), string(model.StatusExpired)).Inc()
	return util.ErrSessionExpired
}

func (s *PlacementService) throttleResume(code string) error {
	if s.Redis == nil {
		return nil
	}
	ctx := context.Background()
	key := "placement:resume:" + code
	n, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not lock students out.
		return nil
	}
	if n == 1 {
		s.Redis.Expire(ctx, key, util.ResumeAttemptWindow)
	}
	if n > int64(util.ResumeAttemptLimit) {
		return util.ErrTooManyResumeAttempts
	}
	return nil
}

type SubmitAnswerRequest struct {
	Index            int    `json:"index"`
	Answer           string `json:"answer"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

// SubmitResult reports what the client should do next after an answer.
type SubmitResult struct {
	Session      *model.TestSession
	NextIndex    int // -1 when nothing is left to answer
	NextQuestion *model.Question
	IsLast       bool
	Duplicate    bool
}

// SubmitAnswer records one response: scores it (auto-gradable types),
// updates the skill's ability state and selects the next item, all
// persisted in one transaction. Resubmitting an already-answered index is
// a benign no-op so client retries cannot double-apply; a genuinely
// out-of-range index is an error.
func (s *PlacementService) SubmitAnswer(code string, req SubmitAnswerRequest) (*SubmitResult, error) {
	unlock := s.lock(code)
	defer unlock()

	sess, err := s.findSession(code)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusInProgress {
		return nil, util.ErrInvalidStateTransition
	}
	if err := s.expireIfStale(sess); err != nil {
		return nil, err
	}

	if req.Index < 0 || req.Index >= len(sess.QuestionOrder) {
		return nil, util.ErrInvalidIndex
	}
	if sess.QuestionOrder[req.Index].Answered {
		return s.buildSubmitResult(sess, true)
	}

	entry := sess.QuestionOrder[req.Index]
	q, err := s.Bank.Get(entry.QuestionID)
	if err != nil {
		return nil, err
	}

	ans := &model.PlacementAnswer{
		SessionID:        sess.ID,
		QuestionID:       q.ID,
		QuestionIndex:    req.Index,
		StudentAnswer:    req.Answer,
		MaxPoints:        q.MaxPoints,
		TimeSpentSeconds: req.TimeSpentSeconds,
		RequiresReview:   q.RequiresReview,
	}
	if !q.RequiresReview && q.CorrectAnswer != nil {
		correct := answersMatch(req.Answer, *q.CorrectAnswer)
		ans.IsCorrect = &correct
		if correct {
			ans.PointsEarned = q.MaxPoints
		}
		ratio := 0.0
		if correct {
			ratio = 1.0
		}
		sess.Abilities[entry.Skill] = RecordResponse(sess.Abilities[entry.Skill], TargetDifficulty(q.CEFRLevel), ratio)
	}

	sess.QuestionOrder[req.Index].Answered = true
	sess.TimeSpentSeconds += req.TimeSpentSeconds

	// Select the next item before persisting anything: if the bank is
	// unavailable the whole submission is rejected and the client retries,
	// rather than leaving an answer without a successor question.
	if len(sess.QuestionOrder) < sess.TestMode.QuestionBudget() {
		if err := s.appendNextQuestion(sess); err != nil {
			return nil, err
		}
	}

	if err := s.Sessions.SaveSubmission(sess, ans); err != nil {
		return nil, err
	}

	monitoring.PlacementAnswersSubmitted.Inc()
	return s.buildSubmitResult(sess, false)
}

// appendNextQuestion walks the interleaving order until a skill yields an
// item. Skills whose bank is exhausted simply stop contributing.
func (s *PlacementService) appendNextQuestion(sess *model.TestSession) error {
	exhausted := map[model.SkillType]bool{}
	for {
		skill, ok := s.Selector.NextSkill(sess, exhausted)
		if !ok {
			return nil
		}
		q, err := s.Selector.Next(sess, skill)
		if err != nil {
			return err
		}
		if q == nil {
			exhausted[skill] = true
			continue
		}
		sess.QuestionOrder = append(sess.QuestionOrder, model.QuestionOrderEntry{
			QuestionID: q.ID,
			Skill:      skill,
		})
		return nil
	}
}

func (s *PlacementService) buildSubmitResult(sess *model.TestSession, duplicate bool) (*SubmitResult, error) {
	res := &SubmitResult{
		Session:   sess,
		NextIndex: sess.QuestionOrder.FirstUnanswered(),
		Duplicate: duplicate,
	}
	res.IsLast = res.NextIndex == -1
	if res.NextIndex >= 0 {
		q, err := s.Bank.Get(sess.QuestionOrder[res.NextIndex].QuestionID)
		if err != nil {
			return nil, err
		}
		res.NextQuestion = q
	}
	return res, nil
}

// Complete finalizes a session once every served item is answered: the
// aggregator computes the provisional level, and the session either closes
// immediately (fully auto-scored) or parks in pending_review until a human
// grades the open answers.
func (s *PlacementService) Complete(code string) (*model.TestSession, error) {
	unlock := s.lock(code)
	defer unlock()

	sess, err := s.findSession(code)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusInProgress {
		return nil, util.ErrInvalidStateTransition
	}
	if sess.QuestionOrder.FirstUnanswered() != -1 {
		return nil, util.ErrInvalidStateTransition
	}

	answers, questions, err := s.loadAnswers(sess)
	if err != nil {
		return nil, err
	}

	result := Aggregate(sess, answers, questions)
	sess.CalculatedLevel = &result.Level
	sess.LevelConfidence = result.Confidence
	sess.LevelBreakdown = result.Breakdown
	now := s.Clock()
	sess.CompletedAt = &now

	needsReview := false
	for _, a := range answers {
		if a.RequiresReview {
			needsReview = true
			break
		}
	}

	if needsReview {
		sess.Status = model.StatusPendingReview
		if err := s.Sessions.Save(sess); err != nil {
			return nil, err
		}
	} else {
		sess.Status = model.StatusCompleted
		// CertificateEmittedAt persists with the terminal status, so a
		// session that already signalled never signals again.
		emit := sess.CertificateEmittedAt == nil
		if emit {
			sess.CertificateEmittedAt = &now
		}
		if err := s.Sessions.Save(sess); err != nil {
			return nil, err
		}
		if emit {
			s.emitCertificate(sess)
		}
	}

	monitoring.PlacementSessionsFinished.WithLabelValues(string(sess.TestMode), string(sess.Status)).Inc()
	logger.Log.Info("placement session finished",
		zap.String("sessionCode", sess.SessionCode),
		zap.String("status", string(sess.Status)),
		zap.String("level", string(result.Level)))
	return sess, nil
}

// ReviewItem is what the human grading UI consumes for one open answer.
type ReviewItem struct {
	AnswerID      string `json:"answerId"`
	QuestionIndex int    `json:"questionIndex"`
	QuestionText  string `json:"questionText"`
	StudentAnswer string `json:"studentAnswer"`
	MaxPoints     int    `json:"maxPoints"`
	AdminScore    *int   `json:"adminScore,omitempty"`
	AdminFeedback string `json:"adminFeedback,omitempty"`
}

// ReviewQueue lists every answer in the session that needs (or received)
// manual grading.
func (s *PlacementService) ReviewQueue(code string) ([]ReviewItem, error) {
	sess, err := s.findSession(code)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusPendingReview && sess.Status != model.StatusReviewed {
		return nil, util.ErrInvalidStateTransition
	}

	answers, questions, err := s.loadAnswers(sess)
	if err != nil {
		return nil, err
	}

	items := []ReviewItem{}
	for _, a := range answers {
		if !a.RequiresReview {
			continue
		}
		prompt := ""
		if q, ok := questions[a.QuestionID]; ok {
			prompt = q.Prompt
		}
		items = append(items, ReviewItem{
			AnswerID:      a.ID,
			QuestionIndex: a.QuestionIndex,
			QuestionText:  prompt,
			StudentAnswer: a.StudentAnswer,
			MaxPoints:     a.MaxPoints,
			AdminScore:    a.AdminScore,
			AdminFeedback: a.AdminFeedback,
		})
	}
	return items, nil
}

type AnswerGrade struct {
	AnswerID string `json:"answerId" binding:"required"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type ApplyReviewRequest struct {
	Grades        []AnswerGrade    `json:"grades" binding:"required"`
	AdminFeedback string           `json:"adminFeedback"`
	AdjustedLevel *model.CEFRLevel `json:"adjustedLevel"`
}

// ApplyReview writes the reviewer's scores onto the open answers, re-runs
// the aggregator with those scores substituted into each skill's
// trajectory, transitions to reviewed and emits the certificate signal.
// A second call finds status reviewed and fails with ErrAlreadyReviewed,
// so the signal fires at most once per session.
func (s *PlacementService) ApplyReview(code string, req ApplyReviewRequest) (*model.TestSession, error) {
	unlock := s.lock(code)
	defer unlock()

	sess, err := s.findSession(code)
	if err != nil {
		return nil, err
	}
	if sess.Status == model.StatusReviewed {
		return nil, util.ErrAlreadyReviewed
	}
	if sess.Status != model.StatusPendingReview {
		return nil, util.ErrInvalidStateTransition
	}
	if req.AdjustedLevel != nil && !req.AdjustedLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown level %q", util.ErrInvalidLevel, *req.AdjustedLevel)
	}

	answers, questions, err := s.loadAnswers(sess)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.PlacementAnswer, len(answers))
	for i := range answers {
		byID[answers[i].ID] = &answers[i]
	}
	for _, g := range req.Grades {
		a, ok := byID[g.AnswerID]
		if !ok || !a.RequiresReview {
			return nil, fmt.Errorf("%w: unknown answer %s", util.ErrInvalidIndex, g.AnswerID)
		}
		score := g.Score
		if score < 0 {
			score = 0
		} else if score > a.MaxPoints {
			score = a.MaxPoints
		}
		a.AdminScore = &score
		a.AdminFeedback = g.Feedback
	}
	graded := []model.PlacementAnswer{}
	for _, a := range answers {
		if a.RequiresReview {
			if a.AdminScore == nil {
				return nil, util.ErrReviewIncomplete
			}
			graded = append(graded, a)
		}
	}

	result := Aggregate(sess, answers, questions)
	sess.CalculatedLevel = &result.Level
	sess.LevelConfidence = result.Confidence
	sess.LevelBreakdown = result.Breakdown
	sess.AdminFeedback = req.AdminFeedback
	sess.AdminAdjustedLevel = req.AdjustedLevel
	sess.Status = model.StatusReviewed
	now := s.Clock()
	emit := sess.CertificateEmittedAt == nil
	if emit {
		sess.CertificateEmittedAt = &now
	}

	if err := s.Sessions.SaveReview(sess, graded); err != nil {
		return nil, err
	}

	if emit {
		s.emitCertificate(sess)
	}
	monitoring.PlacementSessionsFinished.WithLabelValues(string(sess.TestMode), string(model.StatusReviewed)).Inc()
	logger.Log.Info("placement review applied",
		zap.String("sessionCode", sess.SessionCode),
		zap.String("finalLevel", string(sess.FinalLevel())))
	return sess, nil
}

// ListByStatus pages sessions for the reviewer dashboard.
func (s *PlacementService) ListByStatus(status model.SessionStatus, page, limit int) ([]model.TestSession, int64, error) {
	return s.Sessions.ListByStatus(status, page, limit)
}

func (s *PlacementService) emitCertificate(sess *model.TestSession) {
	payload := CertificatePayload{
		SessionCode:   sess.SessionCode,
		StudentName:   sess.StudentName,
		StudentEmail:  sess.StudentEmail,
		Level:         sess.FinalLevel(),
		Confidence:    sess.LevelConfidence,
		Breakdown:     sess.LevelBreakdown,
		AdminFeedback: sess.AdminFeedback,
	}
	monitoring.PlacementCertificatesSignaled.Inc()
	s.Bus.Publish(EventCertificateEligible, payload)
}

func (s *PlacementService) findSession(code string) (*model.TestSession, error) {
	sess, err := s.Sessions.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if sess == nil {
		return nil, util.ErrSessionNotFound
	}
	return sess, nil
}

func (s *PlacementService) loadAnswers(sess *model.TestSession) ([]model.PlacementAnswer, map[uint]model.Question, error) {
	answers, err := s.Answers.ListBySession(sess.ID)
	if err != nil {
		return nil, nil, err
	}
	questions := make(map[uint]model.Question, len(answers))
	for _, a := range answers {
		if _, ok := questions[a.QuestionID]; ok {
			continue
		}
		q, err := s.Bank.Get(a.QuestionID)
		if err != nil {
			return nil, nil, err
		}
		questions[a.QuestionID] = *q
	}
	return answers, questions, nil
}

// answersMatch compares case- and whitespace-insensitively; gap-fill
// answers should not fail on a stray space or capital.
func answersMatch(given, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(correct))
}
