package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/service"
	"github.com/hospshop/procurement-api/pkg/response"
)

// ContractHandler wires contract generation endpoints.
type ContractHandler struct {
	service *service.ContractService
}

// NewContractHandler creates a new handler.
func NewContractHandler(svc *service.ContractService) *ContractHandler {
	return &ContractHandler{service: svc}
}

// Generate godoc
// @Summary Generate supply contract
// @Description Renders the contract PDF for an awarded quotation request
// @Tags Contracts
// @Produce application/pdf
// @Param id path string true "Request ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /quotations/{id}/contract [post]
func (h *ContractHandler) Generate(c *gin.Context) {
	contract, pdf, err := h.service.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", contract.FileName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetByRequest godoc
// @Summary Get contract metadata
// @Tags Contracts
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quotations/{id}/contract [get]
func (h *ContractHandler) GetByRequest(c *gin.Context) {
	contract, err := h.service.GetByRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, contract, nil)
}
