package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/service"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/response"
)

// ExamHandler exposes exam endpoints.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler constructs the handler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// Create godoc
// @Summary Create an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.CreateExamRequest true "Exam"
// @Success 201 {object} response.Envelope
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req service.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	exam, err := h.exams.CreateExam(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// SubmitScores godoc
// @Summary Submit exam scores in bulk
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param payload body service.SubmitScoresRequest true "Scores"
// @Success 201 {object} response.Envelope
// @Router /exams/{id}/scores [post]
func (h *ExamHandler) SubmitScores(c *gin.Context) {
	var req service.SubmitScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	scores, err := h.exams.SubmitScores(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scores)
}
