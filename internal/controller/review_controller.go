package controller

import (
	"strconv"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/service"
	"english_placement_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Placement *service.PlacementService
}

func NewReviewController(placement *service.PlacementService) *ReviewController {
	return &ReviewController{Placement: placement}
}

// ListSessions godoc
// @Summary List placement sessions
// @Description Pages sessions for the reviewer dashboard, optionally filtered by status
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param status query string false "session status filter"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/review/sessions [get]
func (c *ReviewController) ListSessions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	status := model.SessionStatus(ctx.Query("status"))

	sessions, total, err := c.Placement.ListByStatus(status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  sessions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetReviewQueue godoc
// @Summary List the answers awaiting manual grading for a session
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param code path string true "session code"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "unknown code"
// @Failure 409 {object} util.Response "session has nothing to review"
// @Router /api/review/sessions/{code} [get]
func (c *ReviewController) GetReviewQueue(ctx *gin.Context) {
	code := ctx.Param("code")

	items, err := c.Placement.ReviewQueue(code)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": items})
}

// ApplyReview godoc
// @Summary Apply reviewer grades to a session
// @Description Scores every open answer, recomputes the final level and closes the session
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "session code"
// @Param body body service.ApplyReviewRequest true "grades and optional level override"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "incomplete grades or unknown answer id"
// @Failure 409 {object} util.Response "already reviewed or not pending review"
// @Router /api/review/sessions/{code} [post]
func (c *ReviewController) ApplyReview(ctx *gin.Context) {
	code := ctx.Param("code")

	var req service.ApplyReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sess, err := c.Placement.ApplyReview(code, req)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}

	util.Success(ctx, sess)
}
