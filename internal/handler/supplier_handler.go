package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// SupplierHandler wires HTTP endpoints to the supplier service.
type SupplierHandler struct {
	service *service.SupplierService
}

// NewSupplierHandler creates a new handler.
func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: svc}
}

// Create godoc
// @Summary Register supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param payload body dto.CreateSupplierRequest true "Supplier payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid supplier payload"))
		return
	}

	supplier, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, supplier)
}

// List godoc
// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param category query string false "Filter by category"
// @Param search query string false "Search by name or CNPJ"
// @Success 200 {object} response.Envelope
// @Router /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	filter := models.SupplierFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be true or false"))
			return
		}
		filter.Active = &active
	}

	suppliers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, suppliers, nil)
}

// Get godoc
// @Summary Get supplier
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, supplier, nil)
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID"
// @Param payload body dto.UpdateSupplierRequest true "Supplier payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid supplier payload"))
		return
	}

	supplier, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, supplier, nil)
}

func queryInt(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
