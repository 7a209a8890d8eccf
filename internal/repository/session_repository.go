package repository

import (
	"errors"

	"english_placement_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(sess *model.TestSession) error {
	return r.DB.Create(sess).Error
}

func (r *SessionRepository) FindByCode(code string) (*model.TestSession, error) {
	var sess model.TestSession
	err := r.DB.Where("session_code = ?", code).First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *SessionRepository) Save(sess *model.TestSession) error {
	return r.DB.Save(sess).Error
}

func (r *SessionRepository) CodeInUse(code string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.TestSession{}).Where("session_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *SessionRepository) ListByStatus(status model.SessionStatus, page, limit int) ([]model.TestSession, int64, error) {
	var sessions []model.TestSession
	var total int64
	query := r.DB.Model(&model.TestSession{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

// SaveSubmission commits one answer together with the session row that
// references it. A duplicate (session, index) pair aborts the transaction,
// so a racing double-submit can never double-apply.
func (r *SessionRepository) SaveSubmission(sess *model.TestSession, ans *model.PlacementAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ans).Error; err != nil {
			return err
		}
		return tx.Save(sess).Error
	})
}

// SaveReview commits the reviewer's grades and the session's transition to
// reviewed in one transaction.
func (r *SessionRepository) SaveReview(sess *model.TestSession, answers []model.PlacementAnswer) error {
	if sess == nil {
		return errors.New("nil session")
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Save(&answers[i]).Error; err != nil {
				return err
			}
		}
		return tx.Save(sess).Error
	})
}
