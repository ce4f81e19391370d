package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// AwardHandler wires comparison and award endpoints.
type AwardHandler struct {
	awards      *service.AwardService
	comparisons *service.ComparisonService
}

// NewAwardHandler creates a new handler.
func NewAwardHandler(awards *service.AwardService, comparisons *service.ComparisonService) *AwardHandler {
	return &AwardHandler{awards: awards, comparisons: comparisons}
}

// Comparison godoc
// @Summary Compare proposals
// @Description Ranks all proposals of a request and derives price statistics
// @Tags Awards
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quotations/{id}/comparison [get]
func (h *AwardHandler) Comparison(c *gin.Context) {
	result, fromCache, err := h.comparisons.Compare(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{"from_cache": fromCache})
}

// SelectWinner godoc
// @Summary Award quotation request
// @Description Declares the winning proposal, closes the request and rejects the others
// @Tags Awards
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.AwardRequest true "Award payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /quotations/{id}/award [post]
func (h *AwardHandler) SelectWinner(c *gin.Context) {
	var req dto.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid award payload"))
		return
	}

	decidedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		decidedBy = claims.UserID
	}

	decision, err := h.awards.SelectWinner(c.Request.Context(), c.Param("id"), req, decidedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, decision)
}

// GetDecision godoc
// @Summary Get award decision
// @Tags Awards
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quotations/{id}/award [get]
func (h *AwardHandler) GetDecision(c *gin.Context) {
	decision, err := h.awards.GetByRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, decision, nil)
}
