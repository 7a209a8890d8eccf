package controller

import (
	"encoding/json"
	"os"
	"path/filepath"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/service"
	"english_placement_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PlacementController struct {
	Placement *service.PlacementService
	Storage   *service.StorageService
}

func NewPlacementController(placement *service.PlacementService, storage *service.StorageService) *PlacementController {
	return &PlacementController{Placement: placement, Storage: storage}
}

// QuestionView is the student-facing shape of an item: no correct answer
// and no level, so the client cannot infer the adaptive trajectory.
// swagger:model QuestionView
type QuestionView struct {
	Index        int                `json:"index"`
	QuestionID   uint               `json:"questionId"`
	SkillType    model.SkillType    `json:"skillType"`
	QuestionType model.QuestionType `json:"questionType"`
	Prompt       string             `json:"prompt"`
	Options      json.RawMessage    `json:"options,omitempty"`
	AudioURL     string             `json:"audioUrl,omitempty"`
	MaxPoints    int                `json:"maxPoints"`
}

func questionView(index int, q *model.Question) *QuestionView {
	if q == nil {
		return nil
	}
	return &QuestionView{
		Index:        index,
		QuestionID:   q.ID,
		SkillType:    q.SkillType,
		QuestionType: q.QuestionType,
		Prompt:       q.Prompt,
		Options:      q.Options,
		AudioURL:     q.AudioURL,
		MaxPoints:    q.MaxPoints,
	}
}

// SessionView is the student-facing shape of a session.
// swagger:model SessionView
type SessionView struct {
	SessionCode      string               `json:"sessionCode"`
	TestMode         model.TestMode       `json:"testMode"`
	Status           model.SessionStatus  `json:"status"`
	AnsweredCount    int                  `json:"answeredCount"`
	ServedCount      int                  `json:"servedCount"`
	TimeSpentSeconds int                  `json:"timeSpentSeconds"`
	Level            model.CEFRLevel      `json:"level,omitempty"`
	Confidence       float64              `json:"confidence,omitempty"`
	Breakdown        model.LevelBreakdown `json:"breakdown,omitempty"`
	AdminFeedback    string               `json:"adminFeedback,omitempty"`
}

// sessionView withholds the result while a review is still pending; the
// student sees it only once the session is completed or reviewed.
func sessionView(sess *model.TestSession) SessionView {
	v := SessionView{
		SessionCode:      sess.SessionCode,
		TestMode:         sess.TestMode,
		Status:           sess.Status,
		AnsweredCount:    sess.QuestionOrder.AnsweredCount(),
		ServedCount:      len(sess.QuestionOrder),
		TimeSpentSeconds: sess.TimeSpentSeconds,
	}
	if sess.Status == model.StatusCompleted || sess.Status == model.StatusReviewed {
		v.Level = sess.FinalLevel()
		v.Confidence = sess.LevelConfidence
		v.Breakdown = sess.LevelBreakdown
		v.AdminFeedback = sess.AdminFeedback
	}
	return v
}

// StartSession godoc
// @Summary Start a placement session
// @Description Creates a session in the chosen mode and serves the opening questions
// @Tags placement
// @Accept json
// @Produce json
// @Param body body service.StartRequest true "student info and test mode"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "invalid request"
// @Failure 503 {object} util.Response "question bank unavailable"
// @Router /api/placement/sessions [post]
func (c *PlacementController) StartSession(ctx *gin.Context) {
	var req service.StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !req.TestMode.Valid() {
		util.BadRequest(ctx, "testMode must be quick or personalized")
		return
	}

	sess, err := c.Placement.Start(req)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	first := sess.QuestionOrder.FirstUnanswered()
	q, err := c.Placement.Bank.Get(sess.QuestionOrder[first].QuestionID)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"session":  sessionView(sess),
		"question": questionView(first, q),
	})
}

// ResumeSession godoc
// @Summary Resume a session by its code
// @Description Returns the session state and, while in progress, the current question
// @Tags placement
// @Produce json
// @Param code path string true "session code"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "unknown code"
// @Failure 410 {object} util.Response "session expired"
// @Failure 429 {object} util.Response "too many resume attempts"
// @Router /api/placement/sessions/{code} [get]
func (c *PlacementController) ResumeSession(ctx *gin.Context) {
	code := ctx.Param("code")

	sess, err := c.Placement.Resume(code)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	resp := gin.H{"session": sessionView(sess)}
	if sess.Status == model.StatusInProgress {
		if idx := sess.QuestionOrder.FirstUnanswered(); idx >= 0 {
			q, err := c.Placement.Bank.Get(sess.QuestionOrder[idx].QuestionID)
			if err != nil {
				util.EngineError(ctx, err)
				return
			}
			resp["question"] = questionView(idx, q)
		}
	}
	util.Success(ctx, resp)
}

// SubmitAnswer godoc
// @Summary Submit one answer
// @Description Records the answer and returns the next question; resubmitting an answered index is a no-op
// @Tags placement
// @Accept json
// @Produce json
// @Param code path string true "session code"
// @Param body body service.SubmitAnswerRequest true "answer payload"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "index out of range"
// @Failure 409 {object} util.Response "session not in progress"
// @Failure 410 {object} util.Response "session expired"
// @Failure 503 {object} util.Response "question bank unavailable"
// @Router /api/placement/sessions/{code}/answers [post]
func (c *PlacementController) SubmitAnswer(ctx *gin.Context) {
	code := ctx.Param("code")

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Placement.SubmitAnswer(code, req)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"session":   sessionView(res.Session),
		"nextIndex": res.NextIndex,
		"question":  questionView(res.NextIndex, res.NextQuestion),
		"isLast":    res.IsLast,
		"duplicate": res.Duplicate,
	})
}

// CompleteSession godoc
// @Summary Complete a session
// @Description Finalizes the session once every served question is answered
// @Tags placement
// @Produce json
// @Param code path string true "session code"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "unknown code"
// @Failure 409 {object} util.Response "unanswered questions remain or session not in progress"
// @Router /api/placement/sessions/{code}/complete [post]
func (c *PlacementController) CompleteSession(ctx *gin.Context) {
	code := ctx.Param("code")

	sess, err := c.Placement.Complete(code)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"session": sessionView(sess)})
}

// UploadSpeakingAudio godoc
// @Summary Upload a recorded speaking response
// @Description Validates the recording and stores it; the returned URL is submitted as the answer text for the speaking question
// @Tags placement
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "session code"
// @Param file formData file true "audio recording"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "bad or oversized recording"
// @Router /api/placement/sessions/{code}/speaking-audio [post]
func (c *PlacementController) UploadSpeakingAudio(ctx *gin.Context) {
	code := ctx.Param("code")

	// Only sessions still in progress accept uploads.
	sess, err := c.Placement.Resume(code)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}
	if sess.Status != model.StatusInProgress {
		util.EngineError(ctx, util.ErrInvalidStateTransition)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	if file.Size > util.MaxSpeakingUploadBytes {
		util.BadRequest(ctx, "recording too large")
		return
	}

	tmp := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmp); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmp)

	url, info, err := c.Storage.UploadSpeakingResponse(ctx.Request.Context(), tmp, file.Filename)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{
		"audioUrl": url,
		"duration": info.Duration,
		"format":   info.Format,
	})
}
