package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/dto"
	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/internal/service"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/response"
)

type monthlyResultService interface {
	Generate(ctx context.Context, req service.GenerateMonthlyResultsRequest) (*models.MonthlyResultSet, error)
	Enqueue(ctx context.Context, req service.GenerateMonthlyResultsRequest) (*dto.GenerationTicket, error)
	List(ctx context.Context, batchID string, year, month int) (*models.MonthlyResultSet, error)
	Export(ctx context.Context, batchID string, year, month int, format string) (*service.ExportFile, error)
	StudentHistory(ctx context.Context, studentID string, limit int) ([]models.MonthlyResult, error)
}

// ResultHandler exposes monthly result endpoints.
type ResultHandler struct {
	results monthlyResultService
}

// NewResultHandler constructs the handler.
func NewResultHandler(results monthlyResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Generate godoc
// @Summary Generate monthly results for a batch
// @Description Computes, ranks and stores every enrolled student's result, replacing earlier output for the period.
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.GenerateMonthlyResultsRequest true "Cohort"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /results/generate [post]
func (h *ResultHandler) Generate(c *gin.Context) {
	var req service.GenerateMonthlyResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	set, err := h.results.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, set, map[string]interface{}{"total": len(set.Results)})
}

// GenerateAsync godoc
// @Summary Queue monthly result generation
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.GenerateMonthlyResultsRequest true "Cohort"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /results/generate/async [post]
func (h *ResultHandler) GenerateAsync(c *gin.Context) {
	var req service.GenerateMonthlyResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	ticket, err := h.results.Enqueue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, ticket)
}

// List godoc
// @Summary Stored results of a cohort in rank order
// @Tags Results
// @Produce json
// @Param batchId path string true "Batch ID"
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{batchId}/{year}/{month} [get]
func (h *ResultHandler) List(c *gin.Context) {
	year, month, err := periodParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	set, err := h.results.List(c.Request.Context(), c.Param("batchId"), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, set, map[string]interface{}{"total": len(set.Results)})
}

// Export godoc
// @Summary Download cohort results
// @Tags Results
// @Produce text/csv
// @Produce application/pdf
// @Param batchId path string true "Batch ID"
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /results/{batchId}/{year}/{month}/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	year, month, err := periodParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.results.Export(c.Request.Context(), c.Param("batchId"), year, month, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// StudentHistory godoc
// @Summary A student's monthly results, newest first
// @Tags Results
// @Produce json
// @Param id path string true "Student ID"
// @Param limit query int false "Number of periods" default(12)
// @Success 200 {object} response.Envelope
// @Router /students/{id}/results [get]
func (h *ResultHandler) StudentHistory(c *gin.Context) {
	limit := 12
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = v
	}
	results, err := h.results.StudentHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, map[string]interface{}{"total": len(results)})
}

func periodParams(c *gin.Context) (int, int, error) {
	year, errYear := strconv.Atoi(c.Param("year"))
	month, errMonth := strconv.Atoi(c.Param("month"))
	if errYear != nil || errMonth != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year and month must be numeric")
	}
	return year, month, nil
}
