package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type contractStore interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByRequest(ctx context.Context, requestID string) (*models.Contract, error)
}

type contractAwardStore interface {
	GetByRequest(ctx context.Context, requestID string) (*models.AwardDecision, error)
}

type contractProposalStore interface {
	GetByID(ctx context.Context, id string) (*models.SupplierProposal, error)
	GetItems(ctx context.Context, proposalID string) ([]models.ProposalItem, error)
}

type contractFileStore interface {
	Save(filename string, data []byte) (string, error)
}

// ContractService renders supply contracts for awarded requests.
type ContractService struct {
	contracts contractStore
	awards    contractAwardStore
	requests  proposalRequestStore
	proposals contractProposalStore
	suppliers supplierGetter
	files     contractFileStore
	logger    *zap.Logger
	now       func() time.Time
}

// ContractServiceParams groups constructor dependencies.
type ContractServiceParams struct {
	Contracts contractStore
	Awards    contractAwardStore
	Requests  proposalRequestStore
	Proposals contractProposalStore
	Suppliers supplierGetter
	Files     contractFileStore
	Logger    *zap.Logger
}

// NewContractService constructs a ContractService.
func NewContractService(params ContractServiceParams) *ContractService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		contracts: params.Contracts,
		awards:    params.Awards,
		requests:  params.Requests,
		proposals: params.Proposals,
		suppliers: params.Suppliers,
		files:     params.Files,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate builds the supply contract PDF for an awarded request and
// persists both the file and its metadata. Requests without an award
// decision are rejected.
func (s *ContractService) Generate(ctx context.Context, requestID string) (*models.Contract, []byte, error) {
	decision, err := s.awards.GetByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotAwarded, "")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load award decision")
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotation request")
	}
	winner, err := s.proposals.GetByID(ctx, decision.WinningProposalID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load winning proposal")
	}
	supplier, err := s.suppliers.GetByID(ctx, winner.SupplierID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}
	requestItems, err := s.requests.GetItems(ctx, requestID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request items")
	}
	proposalItems, err := s.proposals.GetItems(ctx, winner.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal items")
	}

	now := s.now().UTC()
	number := "CONT-" + now.Format("20060102150405")
	data, err := s.render(number, request, winner, supplier, requestItems, proposalItems, now)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render contract")
	}

	fileName := fmt.Sprintf("%s.pdf", number)
	if s.files != nil {
		if _, err := s.files.Save(fileName, data); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store contract file")
		}
	}

	contract := &models.Contract{
		Number:      number,
		RequestID:   requestID,
		ProposalID:  winner.ID,
		SupplierID:  supplier.ID,
		TotalValue:  winner.TotalValue,
		FileName:    fileName,
		GeneratedAt: now,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store contract metadata")
	}

	s.logger.Info("contract generated",
		zap.String("request_id", requestID),
		zap.String("number", number),
		zap.String("supplier_id", supplier.ID))
	return contract, data, nil
}

// GetByRequest returns the stored contract metadata of a request.
func (s *ContractService) GetByRequest(ctx context.Context, requestID string) (*models.Contract, error) {
	contract, err := s.contracts.GetByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no contract for this request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	return contract, nil
}

func (s *ContractService) render(number string, request *models.QuotationRequest, winner *models.SupplierProposal, supplier *models.Supplier, requestItems []models.RequestItem, proposalItems []models.ProposalItem, now time.Time) ([]byte, error) {
	itemsByID := make(map[string]models.RequestItem, len(requestItems))
	for _, item := range requestItems {
		itemsByID[item.ID] = item
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "CONTRATO DE FORNECIMENTO", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, number, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "CONTRATANTE", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "hospshop Produtos Hospitalares", "", 1, "", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "CONTRATADA", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, supplier.Name, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("CNPJ: %s", supplier.CNPJ), "", 1, "", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "OBJETO", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Fornecimento referente à cotação %s (%s): %s",
		request.Number, request.TenderReference, request.Description), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qtd", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Preço unit. (R$)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Total (R$)", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range proposalItems {
		item := itemsByID[line.RequestItemID]
		pdf.CellFormat(80, 7, item.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", line.LineTotal), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "VALOR TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", winner.TotalValue), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Prazo de entrega: %s", winner.DeliveryTime), "", 1, "", false, 0, "")
	if winner.PaymentTerms != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Condições de pagamento: %s", *winner.PaymentTerms), "", 1, "", false, 0, "")
	}
	pdf.Ln(10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Emitido em %s", now.Format("02/01/2006")), "", 1, "", false, 0, "")
	pdf.Ln(14)
	pdf.CellFormat(90, 6, "_______________________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(90, 6, "_______________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(90, 6, "CONTRATANTE", "", 0, "C", false, 0, "")
	pdf.CellFormat(90, 6, "CONTRATADA", "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render contract pdf: %w", err)
	}
	return buf.Bytes(), nil
}
