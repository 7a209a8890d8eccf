package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// QuestionOrderEntry is one served item in a session. Skill is denormalized
// from the question so the selector can interleave without loading every
// item back from the bank.
type QuestionOrderEntry struct {
	QuestionID uint      `json:"questionId"`
	Skill      SkillType `json:"skill"`
	Answered   bool      `json:"answered"`
}

// QuestionOrder is the ordered sequence of served items, stored as a JSON
// column on the session row.
type QuestionOrder []QuestionOrderEntry

func (o QuestionOrder) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *QuestionOrder) Scan(value interface{}) error {
	return scanJSON(value, o)
}

// AnsweredCount returns how many entries have been answered.
func (o QuestionOrder) AnsweredCount() int {
	n := 0
	for _, e := range o {
		if e.Answered {
			n++
		}
	}
	return n
}

// FirstUnanswered returns the lowest unanswered index, or -1 when every
// entry is answered.
func (o QuestionOrder) FirstUnanswered() int {
	for i, e := range o {
		if !e.Answered {
			return i
		}
	}
	return -1
}

// Contains reports whether the question id was already served.
func (o QuestionOrder) Contains(questionID uint) bool {
	for _, e := range o {
		if e.QuestionID == questionID {
			return true
		}
	}
	return false
}

// CountForSkill returns how many entries were served for the skill.
func (o QuestionOrder) CountForSkill(skill SkillType) int {
	n := 0
	for _, e := range o {
		if e.Skill == skill {
			n++
		}
	}
	return n
}

// AbilityState is the per-skill estimator state: a scalar estimate on the
// 0-100 ability scale, the number of scored responses, and the directions
// of the most recent steps (+1 up, -1 down), newest last.
type AbilityState struct {
	Estimate   float64 `json:"estimate"`
	Responses  int     `json:"responses"`
	Directions []int   `json:"directions"`
}

// AbilityMap keys estimator state by skill, stored as JSON on the session.
type AbilityMap map[SkillType]AbilityState

func (m AbilityMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *AbilityMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// SkillResult is the per-skill slice of the final level breakdown.
type SkillResult struct {
	Level       CEFRLevel `json:"level"`
	Confidence  float64   `json:"confidence"`
	Ability     float64   `json:"ability"`
	Description string    `json:"description"`
}

type LevelBreakdown map[SkillType]SkillResult

func (b LevelBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *LevelBreakdown) Scan(value interface{}) error {
	return scanJSON(value, b)
}

// TestSession is one student's placement attempt. Sessions are never
// deleted; completed, reviewed and expired are terminal states.
// swagger:model TestSession
type TestSession struct {
	BaseModel
	SessionCode  string        `gorm:"size:12;not null;uniqueIndex" json:"sessionCode"`
	TestMode     TestMode      `gorm:"size:20;not null" json:"testMode"`
	Status       SessionStatus `gorm:"size:20;not null;index" json:"status"`
	StudentName  string        `gorm:"size:255" json:"studentName"`
	StudentEmail string        `gorm:"size:255;index" json:"studentEmail"`
	// Seed fixes the bank sampling for this session so selection is
	// reproducible from the persisted record.
	Seed             int64         `json:"-"`
	QuestionOrder    QuestionOrder `gorm:"type:json" json:"questionOrder"`
	Abilities        AbilityMap    `gorm:"type:json" json:"-"`
	StartedAt        time.Time     `json:"startedAt"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	TimeSpentSeconds int           `json:"timeSpentSeconds"`

	CalculatedLevel    *CEFRLevel     `gorm:"size:2" json:"calculatedLevel,omitempty"`
	LevelConfidence    float64        `json:"levelConfidence"`
	LevelBreakdown     LevelBreakdown `gorm:"type:json" json:"levelBreakdown,omitempty"`
	AdminAdjustedLevel *CEFRLevel     `gorm:"size:2" json:"adminAdjustedLevel,omitempty"`
	AdminFeedback      string         `gorm:"type:text" json:"adminFeedback,omitempty"`

	// CertificateEmittedAt guards the certificate-eligible signal: it is set
	// in the same transaction as the terminal status so the signal cannot be
	// published twice across retries.
	CertificateEmittedAt *time.Time `json:"-"`
}

func (TestSession) TableName() string {
	return "test_sessions"
}

// FinalLevel is the level the certificate is issued for: the reviewer
// override when present, otherwise the computed one.
func (s *TestSession) FinalLevel() CEFRLevel {
	if s.AdminAdjustedLevel != nil {
		return *s.AdminAdjustedLevel
	}
	if s.CalculatedLevel != nil {
		return *s.CalculatedLevel
	}
	return ""
}

func scanJSON(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	}
	return errors.New("unsupported column type for JSON scan")
}
