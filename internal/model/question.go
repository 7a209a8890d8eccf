package model

import "encoding/json"

// Question is an immutable assessment item in the bank. Items are created
// and edited only through the admin CRUD; the placement engine reads them.
// swagger:model Question
type Question struct {
	BaseModel
	SkillType    SkillType    `gorm:"size:20;not null;index:idx_skill_level" json:"skillType"`
	QuestionType QuestionType `gorm:"size:30;not null" json:"questionType"`
	CEFRLevel    CEFRLevel    `gorm:"size:2;not null;index:idx_skill_level" json:"cefrLevel"`
	Prompt       string       `gorm:"type:text;not null" json:"prompt"`
	// Options holds choice lists, matching pairs or form fields depending on
	// the question type.
	Options json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	// CorrectAnswer is nil for manually graded types.
	CorrectAnswer *string `gorm:"type:text" json:"-"`
	// AudioURL points at the listening clip for listening items.
	AudioURL       string `gorm:"size:512" json:"audioUrl,omitempty"`
	MaxPoints      int    `gorm:"default:1" json:"maxPoints"`
	RequiresReview bool   `gorm:"default:false" json:"requiresReview"`
	// Active items are eligible for selection. Retiring an item keeps the
	// row so past answers still resolve.
	Active bool `gorm:"default:true" json:"active"`
}

func (Question) TableName() string {
	return "placement_questions"
}

// NeedsManualGrading decides requires_review for an item: productive skills
// and open-ended types always go to a human reviewer.
func NeedsManualGrading(skill SkillType, qType QuestionType) bool {
	return skill.Productive() || qType.OpenEnded()
}
