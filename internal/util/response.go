package util

import (
	"english_placement_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the unified JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse wraps paginated listings.
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// EngineError maps the engine's sentinel errors onto HTTP responses.
// Unknown errors are logged and reported as 500.
func EngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrQuestionNotFound), errors.Is(err, ErrUserNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionExpired):
		Error(c, http.StatusGone, err.Error())
	case errors.Is(err, ErrInvalidStateTransition), errors.Is(err, ErrAlreadyReviewed):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidIndex), errors.Is(err, ErrReviewIncomplete), errors.Is(err, ErrInvalidLevel):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBankUnavailable), errors.Is(err, ErrNoQuestions):
		Error(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrTooManyResumeAttempts):
		Error(c, http.StatusTooManyRequests, err.Error())
	default:
		LogInternalError(c, err)
	}
}
