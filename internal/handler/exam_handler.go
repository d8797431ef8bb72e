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

// ExamService is the exam business logic used by ExamHandler.
type ExamService interface {
	List(ctx context.Context, filter model.ExamFilter, pageIndex, pageSize int) (model.PagedResponse[model.Exam], error)
	GetByID(ctx context.Context, id int) (*model.Exam, error)
	Create(ctx context.Context, req model.ExamCreate) (*model.Exam, error)
	Update(ctx context.Context, id int, req model.ExamUpdate) (*model.Exam, error)
	Delete(ctx context.Context, id int) error
}

// ExamHandler handles exam management endpoints.
type ExamHandler struct {
	examService ExamService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService ExamService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		log:         log.With().Str("component", "exam_handler").Logger(),
	}
}

type examListQuery struct {
	PageIndex int `form:"pageIndex"`
	PageSize  int `form:"pageSize"`
	model.ExamFilter
}

// ListExams godoc
// GET /api/exams
// Lists exams newest first, narrowed by the optional filters.
func (h *ExamHandler) ListExams(c *gin.Context) {
	var q examListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, fields)
		return
	}

	page, err := h.examService.List(c.Request.Context(), q.ExamFilter, q.PageIndex, q.PageSize)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// GetExam godoc
// GET /api/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// CreateExam godoc
// POST /api/exams
// Creates an exam and returns the stored record.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.ExamCreate
	if !bindBody(c, &req) {
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, exam)
}

// UpdateExam godoc
// PUT /api/exams/:id
// Applies the fields present in the body.
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.ExamUpdate
	if !bindBody(c, &req) {
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// DeleteExam godoc
// DELETE /api/exams/:id
// Deletes an exam and its questions.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.NoContent(c)
}
