package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/service"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/response"
)

// BatchHandler exposes batch and roster endpoints.
type BatchHandler struct {
	roster *service.RosterService
}

// NewBatchHandler constructs the handler.
func NewBatchHandler(roster *service.RosterService) *BatchHandler {
	return &BatchHandler{roster: roster}
}

// List godoc
// @Summary List batches
// @Tags Batches
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.roster.ListBatches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, map[string]interface{}{"total": len(batches)})
}

// Create godoc
// @Summary Create a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body service.CreateBatchRequest true "Batch"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	batch, err := h.roster.CreateBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// Students godoc
// @Summary List the active roster of a batch
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/students [get]
func (h *BatchHandler) Students(c *gin.Context) {
	students, err := h.roster.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Enroll godoc
// @Summary Enroll a student in a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body service.EnrollStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Router /batches/{id}/students [post]
func (h *BatchHandler) Enroll(c *gin.Context) {
	var req service.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	student, err := h.roster.Enroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}
