package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// DeliveryHandler wires HTTP endpoints to the delivery service.
type DeliveryHandler struct {
	service *service.DeliveryService
}

// NewDeliveryHandler creates a new handler.
func NewDeliveryHandler(svc *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: svc}
}

// Create godoc
// @Summary Open delivery order
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param payload body dto.CreateDeliveryRequest true "Delivery payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /deliveries [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delivery payload"))
		return
	}

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, order)
}

// Get godoc
// @Summary Get delivery order
// @Description Returns the order with its tracking history
// @Tags Deliveries
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Schedule godoc
// @Summary Schedule delivery
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body dto.ScheduleDeliveryRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /deliveries/{id}/schedule [post]
func (h *DeliveryHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	detail, err := h.service.Schedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// UpdateStatus godoc
// @Summary Update delivery status
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body dto.UpdateDeliveryStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /deliveries/{id}/status [patch]
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	detail, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Tracking godoc
// @Summary Delivery tracking history
// @Tags Deliveries
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /deliveries/{id}/tracking [get]
func (h *DeliveryHandler) Tracking(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail.Events, nil)
}

// ListPending godoc
// @Summary List undelivered orders
// @Tags Deliveries
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /deliveries/pending [get]
func (h *DeliveryHandler) ListPending(c *gin.Context) {
	orders, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, orders, nil)
}
