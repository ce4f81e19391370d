package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// PaymentHandler wires HTTP endpoints to the payment service.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Create godoc
// @Summary Register payment
// @Description Registers a payment and spreads it over monthly installments
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	detail, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, detail)
}

// Get godoc
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// PayInstallment godoc
// @Summary Settle installment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Installment ID"
// @Param payload body dto.PayInstallmentRequest true "Settlement payload"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments/installments/{id}/pay [post]
func (h *PaymentHandler) PayInstallment(c *gin.Context) {
	var req dto.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	if err := h.service.PayInstallment(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Due godoc
// @Summary List installments due soon
// @Tags Payments
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /payments/due [get]
func (h *PaymentHandler) Due(c *gin.Context) {
	installments, err := h.service.DueWithin(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, installments, nil)
}

// Overdue godoc
// @Summary List overdue installments
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payments/overdue [get]
func (h *PaymentHandler) Overdue(c *gin.Context) {
	installments, err := h.service.Overdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, installments, nil)
}
