package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// QuotationHandler wires HTTP endpoints to the quotation service.
type QuotationHandler struct {
	service *service.QuotationService
}

// NewQuotationHandler creates a new handler.
func NewQuotationHandler(svc *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: svc}
}

// Create godoc
// @Summary Open quotation request
// @Description Opens a new quotation request with its line items
// @Tags Quotations
// @Accept json
// @Produce json
// @Param payload body dto.CreateQuotationRequest true "Quotation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req dto.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid quotation payload"))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// List godoc
// @Summary List quotation requests
// @Tags Quotations
// @Produce json
// @Param status query string false "Filter by status (open|closed)"
// @Param tender_reference query string false "Filter by tender reference"
// @Success 200 {object} response.Envelope
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	query := dto.QuotationQuery{
		Status:          strings.TrimSpace(c.Query("status")),
		TenderReference: strings.TrimSpace(c.Query("tender_reference")),
		Limit:           queryInt(c, "limit"),
		Offset:          queryInt(c, "offset"),
	}

	requests, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// Get godoc
// @Summary Get quotation request
// @Tags Quotations
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Stats godoc
// @Summary Quotation statistics
// @Tags Quotations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /quotations/stats [get]
func (h *QuotationHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}
