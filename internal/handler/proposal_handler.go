package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// ProposalHandler wires HTTP endpoints to the proposal service.
type ProposalHandler struct {
	service *service.ProposalService
}

// NewProposalHandler creates a new handler.
func NewProposalHandler(svc *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{service: svc}
}

// Submit godoc
// @Summary Submit supplier proposal
// @Description Records a supplier proposal against an open quotation request
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.SubmitProposalRequest true "Proposal payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /quotations/{id}/proposals [post]
func (h *ProposalHandler) Submit(c *gin.Context) {
	var req dto.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proposal payload"))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// ListByRequest godoc
// @Summary List proposals for a request
// @Description Proposals ordered by total value ascending
// @Tags Proposals
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quotations/{id}/proposals [get]
func (h *ProposalHandler) ListByRequest(c *gin.Context) {
	proposals, err := h.service.ListByRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, proposals, nil)
}

// Get godoc
// @Summary Get proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /proposals/{id} [get]
func (h *ProposalHandler) Get(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
