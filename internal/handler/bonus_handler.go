package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/service"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/response"
)

// BonusHandler exposes teacher-entered monthly bonuses.
type BonusHandler struct {
	bonuses *service.BonusService
}

// NewBonusHandler constructs the handler.
func NewBonusHandler(bonuses *service.BonusService) *BonusHandler {
	return &BonusHandler{bonuses: bonuses}
}

// Set godoc
// @Summary Set a student's monthly bonus percentage
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SetBonusRequest true "Bonus"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/bonus [put]
func (h *BonusHandler) Set(c *gin.Context) {
	var req service.SetBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	bonus, err := h.bonuses.Set(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bonus)
}
