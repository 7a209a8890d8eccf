package model

// PlacementAnswer records one submitted response. There is exactly one row
// per (session, question index); resubmission of an answered index is an
// idempotent no-op in the service layer, backed by the unique index here.
// swagger:model PlacementAnswer
type PlacementAnswer struct {
	UUIDBase
	SessionID     uint `gorm:"not null;index;uniqueIndex:idx_session_qindex" json:"sessionId"`
	QuestionID    uint `gorm:"not null;index" json:"questionId"`
	QuestionIndex int  `gorm:"not null;uniqueIndex:idx_session_qindex" json:"questionIndex"`
	// StudentAnswer is free text, a choice id, or an audio object key for
	// speaking responses.
	StudentAnswer string `gorm:"type:text" json:"studentAnswer"`
	// IsCorrect is only meaningful for auto-scored items.
	IsCorrect        *bool `json:"isCorrect,omitempty"`
	PointsEarned     int   `json:"pointsEarned"`
	MaxPoints        int   `json:"maxPoints"`
	TimeSpentSeconds int   `json:"timeSpentSeconds"`
	RequiresReview   bool  `gorm:"index" json:"requiresReview"`

	// Set only by the review collaborator.
	AdminScore    *int   `json:"adminScore,omitempty"`
	AdminFeedback string `gorm:"type:text" json:"adminFeedback,omitempty"`
}

func (PlacementAnswer) TableName() string {
	return "placement_answers"
}

// ScoreRatio returns the fraction of available points earned, preferring
// the reviewer's score when present. ok is false while a manually graded
// answer is still waiting for review.
func (a *PlacementAnswer) ScoreRatio() (ratio float64, ok bool) {
	if a.MaxPoints <= 0 {
		return 0, false
	}
	if a.AdminScore != nil {
		return float64(*a.AdminScore) / float64(a.MaxPoints), true
	}
	if a.RequiresReview {
		return 0, false
	}
	return float64(a.PointsEarned) / float64(a.MaxPoints), true
}
