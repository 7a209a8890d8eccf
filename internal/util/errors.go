package util

import "errors"

// Engine error kinds. These are sentinel values so callers can branch with
// errors.Is; controllers map them onto HTTP status codes. The engine never
// retries on its own; retry policy belongs to the caller.
var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionExpired         = errors.New("session expired")
	ErrInvalidStateTransition = errors.New("operation not allowed in current session status")
	ErrInvalidIndex           = errors.New("question index out of range")
	ErrBankUnavailable        = errors.New("question bank unavailable")
	ErrAlreadyReviewed        = errors.New("session already reviewed")
	ErrReviewIncomplete       = errors.New("all answers requiring review must be graded")
	ErrNoQuestions            = errors.New("no questions for skill/level")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrTooManyResumeAttempts  = errors.New("too many resume attempts for this code")
	ErrInvalidLevel           = errors.New("unknown CEFR level")

	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
)
