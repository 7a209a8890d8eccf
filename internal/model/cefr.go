package model

// CEFRLevel is one of the six proficiency bands of the Common European
// Framework of Reference, ordered A1 (beginner) through C2 (mastery).
type CEFRLevel string

const (
	LevelA1 CEFRLevel = "A1"
	LevelA2 CEFRLevel = "A2"
	LevelB1 CEFRLevel = "B1"
	LevelB2 CEFRLevel = "B2"
	LevelC1 CEFRLevel = "C1"
	LevelC2 CEFRLevel = "C2"
)

// CEFRLevels lists the bands in ascending order.
var CEFRLevels = []CEFRLevel{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// Index returns the position of the level within CEFRLevels, -1 for an
// unknown token.
func (l CEFRLevel) Index() int {
	for i, v := range CEFRLevels {
		if v == l {
			return i
		}
	}
	return -1
}

func (l CEFRLevel) Valid() bool {
	return l.Index() >= 0
}

// Description returns the conventional name of the band.
func (l CEFRLevel) Description() string {
	switch l {
	case LevelA1:
		return "Beginner"
	case LevelA2:
		return "Elementary"
	case LevelB1:
		return "Intermediate"
	case LevelB2:
		return "Upper Intermediate"
	case LevelC1:
		return "Advanced"
	case LevelC2:
		return "Mastery"
	}
	return ""
}

// MinLevel returns the lower of two bands.
func MinLevel(a, b CEFRLevel) CEFRLevel {
	if b.Index() < a.Index() {
		return b
	}
	return a
}

type SkillType string

const (
	SkillReading   SkillType = "reading"
	SkillListening SkillType = "listening"
	SkillWriting   SkillType = "writing"
	SkillSpeaking  SkillType = "speaking"
)

// AllSkills is the canonical skill order, receptive skills first. The
// selector uses this order to break interleaving ties, so it must stay
// stable.
var AllSkills = []SkillType{SkillReading, SkillListening, SkillWriting, SkillSpeaking}

func (s SkillType) Valid() bool {
	for _, v := range AllSkills {
		if v == s {
			return true
		}
	}
	return false
}

// Productive reports whether the skill produces open-ended output that a
// human has to grade.
func (s SkillType) Productive() bool {
	return s == SkillWriting || s == SkillSpeaking
}

type QuestionType string

const (
	QuestionMCQ                QuestionType = "mcq"
	QuestionTrueFalse          QuestionType = "true_false"
	QuestionGapFill            QuestionType = "gap_fill"
	QuestionMatching           QuestionType = "matching"
	QuestionOpenResponse       QuestionType = "open_response"
	QuestionFormFilling        QuestionType = "form_filling"
	QuestionShortMessage       QuestionType = "short_message"
	QuestionPictureDescription QuestionType = "picture_description"
	QuestionInterview          QuestionType = "interview"
)

var AllQuestionTypes = []QuestionType{
	QuestionMCQ, QuestionTrueFalse, QuestionGapFill, QuestionMatching,
	QuestionOpenResponse, QuestionFormFilling, QuestionShortMessage,
	QuestionPictureDescription, QuestionInterview,
}

func (t QuestionType) Valid() bool {
	for _, v := range AllQuestionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// OpenEnded reports whether the type has no single correct answer and
// therefore always needs human review.
func (t QuestionType) OpenEnded() bool {
	switch t {
	case QuestionOpenResponse, QuestionShortMessage, QuestionPictureDescription, QuestionInterview:
		return true
	}
	return false
}

type TestMode string

const (
	ModeQuick        TestMode = "quick"
	ModePersonalized TestMode = "personalized"
)

func (m TestMode) Valid() bool {
	return m == ModeQuick || m == ModePersonalized
}

// Skills returns the set of skills tested in this mode.
func (m TestMode) Skills() []SkillType {
	if m == ModeQuick {
		return []SkillType{SkillReading, SkillListening}
	}
	return AllSkills
}

// QuestionBudget is the maximum number of items served in a session.
func (m TestMode) QuestionBudget() int {
	if m == ModeQuick {
		return 20
	}
	return 48
}

// ProductiveSkillCap limits writing/speaking items per skill; grading them
// is expensive, so convergence speed does not raise the count.
func (m TestMode) ProductiveSkillCap() int {
	if m == ModeQuick {
		return 0
	}
	return 3
}

type SessionStatus string

const (
	StatusInProgress    SessionStatus = "in_progress"
	StatusCompleted     SessionStatus = "completed"
	StatusPendingReview SessionStatus = "pending_review"
	StatusReviewed      SessionStatus = "reviewed"
	StatusExpired       SessionStatus = "expired"
)

// Terminal reports whether no further answer submissions are legal.
func (s SessionStatus) Terminal() bool {
	return s != StatusInProgress
}
