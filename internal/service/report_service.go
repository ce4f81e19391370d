package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
	"github.com/hospshop/procurement-api/pkg/export"
)

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

type reportQuotationStore interface {
	List(ctx context.Context, filter models.QuotationFilter) ([]models.QuotationRequest, error)
	GetByID(ctx context.Context, id string) (*models.QuotationRequest, error)
}

type reportAwardStore interface {
	List(ctx context.Context) ([]models.AwardDecision, error)
}

// ReportFile is a rendered report ready to download.
type ReportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService renders CSV and PDF exports of the procurement data.
type ReportService struct {
	quotations reportQuotationStore
	awards     reportAwardStore
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	files      contractFileStore
	logger     *zap.Logger
	now        func() time.Time
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Quotations reportQuotationStore
	Awards     reportAwardStore
	Files      contractFileStore
	Logger     *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		quotations: params.Quotations,
		awards:     params.Awards,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		files:      params.Files,
		logger:     logger,
		now:        time.Now,
	}
}

// Quotations exports the quotation request register.
func (s *ReportService) Quotations(ctx context.Context, format ReportFormat) (*ReportFile, error) {
	requests, err := s.quotations.List(ctx, models.QuotationFilter{Limit: 200})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list quotation requests")
	}

	dataset := export.Dataset{
		Headers: []string{"Número", "Referência", "Descrição", "Status", "Prazo", "Criada em"},
	}
	for _, request := range requests {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Número":     request.Number,
			"Referência": request.TenderReference,
			"Descrição":  request.Description,
			"Status":     string(request.Status),
			"Prazo":      request.ResponseDeadline.Format("02/01/2006"),
			"Criada em":  request.CreatedAt.Format("02/01/2006"),
		})
	}
	return s.render("cotacoes", "Relatório de Cotações", dataset, format)
}

// Savings exports the award decisions with their realised savings.
func (s *ReportService) Savings(ctx context.Context) (*ReportFile, error) {
	decisions, err := s.awards.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list award decisions")
	}

	dataset := export.Dataset{
		Headers: []string{"Cotação", "Proposta vencedora", "Critério", "Economia (R$)", "Decidida em"},
	}
	total := 0.0
	for _, decision := range decisions {
		total += decision.Savings
		number := decision.RequestID
		if request, err := s.quotations.GetByID(ctx, decision.RequestID); err == nil {
			number = request.Number
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Cotação":            number,
			"Proposta vencedora": decision.WinningProposalID,
			"Critério":           string(decision.Criterion),
			"Economia (R$)":      fmt.Sprintf("%.2f", decision.Savings),
			"Decidida em":        decision.DecidedAt.Format("02/01/2006"),
		})
	}
	dataset.Rows = append(dataset.Rows, map[string]string{
		"Cotação":       "TOTAL",
		"Economia (R$)": fmt.Sprintf("%.2f", total),
	})
	return s.render("economia", "Relatório de Economia", dataset, FormatCSV)
}

func (s *ReportService) render(slug, title string, dataset export.Dataset, format ReportFormat) (*ReportFile, error) {
	timestamp := s.now().UTC().Format("20060102-150405")

	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)
	switch strings.ToLower(string(format)) {
	case string(FormatPDF):
		data, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
		ext = "pdf"
	case string(FormatCSV), "":
		data, err = s.csv.Render(dataset)
		contentType = "text/csv"
		ext = "csv"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	fileName := fmt.Sprintf("%s-%s.%s", slug, timestamp, ext)
	if s.files != nil {
		if _, err := s.files.Save(fileName, data); err != nil {
			s.logger.Warn("report archive write failed", zap.String("file", fileName), zap.Error(err))
		}
	}
	return &ReportFile{FileName: fileName, ContentType: contentType, Data: data}, nil
}
