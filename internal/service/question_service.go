package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/repository"
	"english_placement_backend/internal/util"

	"gorm.io/gorm"
)

// QuestionService is the admin-facing bank management surface. The
// placement engine itself only reads the bank through QuestionBank.
type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionRequest struct {
	SkillType     model.SkillType    `json:"skillType" binding:"required"`
	QuestionType  model.QuestionType `json:"questionType" binding:"required"`
	CEFRLevel     model.CEFRLevel    `json:"cefrLevel" binding:"required"`
	Prompt        string             `json:"prompt" binding:"required"`
	Options       json.RawMessage    `json:"options"`
	CorrectAnswer *string            `json:"correctAnswer"`
	AudioURL      string             `json:"audioUrl"`
	MaxPoints     int                `json:"maxPoints"`
}

func (r *QuestionRequest) validate() error {
	if !r.SkillType.Valid() {
		return fmt.Errorf("unknown skill type %q", r.SkillType)
	}
	if !r.QuestionType.Valid() {
		return fmt.Errorf("unknown question type %q", r.QuestionType)
	}
	if !r.CEFRLevel.Valid() {
		return fmt.Errorf("%w: %q", util.ErrInvalidLevel, r.CEFRLevel)
	}
	if !model.NeedsManualGrading(r.SkillType, r.QuestionType) && (r.CorrectAnswer == nil || *r.CorrectAnswer == "") {
		return errors.New("auto-scored questions need a correct answer")
	}
	if r.SkillType == model.SkillListening && r.AudioURL == "" {
		return errors.New("listening questions need an audio clip")
	}
	return nil
}

func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	maxPoints := req.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 1
	}
	q := &model.Question{
		SkillType:      req.SkillType,
		QuestionType:   req.QuestionType,
		CEFRLevel:      req.CEFRLevel,
		Prompt:         req.Prompt,
		Options:        req.Options,
		CorrectAnswer:  req.CorrectAnswer,
		AudioURL:       req.AudioURL,
		MaxPoints:      maxPoints,
		RequiresReview: model.NeedsManualGrading(req.SkillType, req.QuestionType),
		Active:         true,
	}
	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) List(skill model.SkillType, level model.CEFRLevel, page, limit int) ([]model.Question, int64, error) {
	return s.Repo.List(skill, level, page, limit)
}

func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	q.SkillType = req.SkillType
	q.QuestionType = req.QuestionType
	q.CEFRLevel = req.CEFRLevel
	q.Prompt = req.Prompt
	q.Options = req.Options
	q.CorrectAnswer = req.CorrectAnswer
	q.AudioURL = req.AudioURL
	if req.MaxPoints > 0 {
		q.MaxPoints = req.MaxPoints
	}
	q.RequiresReview = model.NeedsManualGrading(req.SkillType, req.QuestionType)
	if err := s.Repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Retire deactivates the item; past answers keep resolving to it.
func (s *QuestionService) Retire(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
