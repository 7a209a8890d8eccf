package controller

import (
	"os"
	"path/filepath"
	"strconv"

	"english_placement_backend/internal/model"
	"english_placement_backend/internal/service"
	"english_placement_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuestionController struct {
	Service *service.QuestionService
	Storage *service.StorageService
}

func NewQuestionController(svc *service.QuestionService, storage *service.StorageService) *QuestionController {
	return &QuestionController{Service: svc, Storage: storage}
}

// CreateQuestion godoc
// @Summary Create a bank question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "question definition"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "invalid definition"
// @Router /api/admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.Create(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, q)
}

// ListQuestions godoc
// @Summary List bank questions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param skill query string false "skill filter"
// @Param level query string false "CEFR level filter"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	qs, total, err := c.Service.List(
		model.SkillType(ctx.Query("skill")),
		model.CEFRLevel(ctx.Query("level")),
		page, limit,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  qs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetQuestion godoc
// @Summary Get one bank question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "unknown id"
// @Router /api/admin/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	q, err := c.Service.Get(uint(id))
	if err != nil {
		util.EngineError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// UpdateQuestion godoc
// @Summary Update a bank question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Param body body service.QuestionRequest true "question definition"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "invalid definition"
// @Failure 404 {object} util.Response "unknown id"
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.Update(uint(id), req)
	if err != nil {
		util.EngineError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// RetireQuestion godoc
// @Summary Retire a bank question
// @Description Deactivates the item so new sessions stop drawing it; existing answers keep it
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "unknown id"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) RetireQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Service.Retire(uint(id)); err != nil {
		util.EngineError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// UploadListeningClip godoc
// @Summary Upload a listening clip
// @Description Validates the audio and stores it; the returned URL goes into the question's audioUrl
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "audio clip"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "bad audio file"
// @Router /api/admin/questions/audio [post]
func (c *QuestionController) UploadListeningClip(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	tmp := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmp); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmp)

	info, err := util.GetAudioInfo(tmp)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	key := "clips/" + uuid.NewString() + filepath.Ext(file.Filename)
	f, err := os.Open(tmp)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	url, err := c.Storage.Upload(ctx.Request.Context(), key, f, info.Size, "audio/mpeg")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"audioUrl": url,
		"duration": info.Duration,
	})
}
