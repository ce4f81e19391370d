package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hospshop/procurement-api/internal/service"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/response"
)

// ReportHandler wires export endpoints to the report service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Quotations godoc
// @Summary Export quotation register
// @Description Downloads the quotation request register as CSV or PDF
// @Tags Reports
// @Produce application/octet-stream
// @Param format query string false "Export format (csv|pdf), default csv"
// @Success 200 {file} binary
// @Router /reports/quotations [get]
func (h *ReportHandler) Quotations(c *gin.Context) {
	format := service.FormatCSV
	switch c.Query("format") {
	case "", "csv":
	case "pdf":
		format = service.FormatPDF
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	file, err := h.service.Quotations(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.send(c, file)
}

// Savings godoc
// @Summary Export savings report
// @Description Downloads the per-award savings report as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /reports/savings [get]
func (h *ReportHandler) Savings(c *gin.Context) {
	file, err := h.service.Savings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.send(c, file)
}

func (h *ReportHandler) send(c *gin.Context, file *service.ReportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
