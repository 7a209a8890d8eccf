package repository

import (
	"english_placement_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) ListBySkillLevel(skill model.SkillType, level model.CEFRLevel) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("skill_type = ? AND cefr_level = ? AND active = ?", skill, level, true).Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) List(skill model.SkillType, level model.CEFRLevel, page, limit int) ([]model.Question, int64, error) {
	var qs []model.Question
	var total int64
	query := r.DB.Model(&model.Question{})
	if skill != "" {
		query = query.Where("skill_type = ?", skill)
	}
	if level != "" {
		query = query.Where("cefr_level = ?", level)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("skill_type asc, cefr_level asc, id asc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

// Delete deactivates the item rather than removing the row; past answers
// keep a valid foreign reference.
func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Model(&model.Question{}).Where("id = ?", id).Update("active", false).Error
}

func (r *QuestionRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Question{}).Count(&total).Error
	return total, err
}
