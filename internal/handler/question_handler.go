package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/validator"
)

// QuestionService is the question business logic used by QuestionHandler.
type QuestionService interface {
	List(ctx context.Context, pageIndex, pageSize int) (model.PagedResponse[model.Question], error)
	GetByID(ctx context.Context, id int) (*model.Question, error)
	Create(ctx context.Context, req model.QuestionCreate) (*model.Question, error)
	Update(ctx context.Context, id int, req model.QuestionUpdate) (*model.Question, error)
	Delete(ctx context.Context, id int) error
}

// QuestionHandler handles question management endpoints.
type QuestionHandler struct {
	questionService QuestionService
	log             zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService QuestionService, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		log:             log.With().Str("component", "question_handler").Logger(),
	}
}

// ListQuestions godoc
// GET /api/questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var q pageQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, fields)
		return
	}

	page, err := h.questionService.List(c.Request.Context(), q.PageIndex, q.PageSize)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// GetQuestion godoc
// GET /api/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	q, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// CreateQuestion godoc
// POST /api/questions
// Creates a question under an existing exam.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req model.QuestionCreate
	if !bindBody(c, &req) {
		return
	}

	q, err := h.questionService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

// UpdateQuestion godoc
// PUT /api/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.QuestionUpdate
	if !bindBody(c, &req) {
		return
	}

	q, err := h.questionService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// DeleteQuestion godoc
// DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.NoContent(c)
}
