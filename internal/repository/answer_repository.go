package repository

import (
	"english_placement_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) ListBySession(sessionID uint) ([]model.PlacementAnswer, error) {
	var answers []model.PlacementAnswer
	err := r.DB.Where("session_id = ?", sessionID).Order("question_index asc").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) CountBySession(sessionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PlacementAnswer{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}

func (r *AnswerRepository) FindByID(id string) (*model.PlacementAnswer, error) {
	var ans model.PlacementAnswer
	err := r.DB.Where("id = ?", id).First(&ans).Error
	return &ans, err
}
