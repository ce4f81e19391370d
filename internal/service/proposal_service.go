package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type proposalStore interface {
	CreateWithItems(ctx context.Context, proposal *models.SupplierProposal, items []models.ProposalItem) error
	GetByID(ctx context.Context, id string) (*models.SupplierProposal, error)
	GetItems(ctx context.Context, proposalID string) ([]models.ProposalItem, error)
	ListByRequest(ctx context.Context, requestID string) ([]models.SupplierProposal, error)
	ExistsForSupplier(ctx context.Context, requestID, supplierID string) (bool, error)
}

type proposalRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.QuotationRequest, error)
	GetItems(ctx context.Context, requestID string) ([]models.RequestItem, error)
}

// ProposalConfig tunes proposal defaults.
type ProposalConfig struct {
	DefaultValidityDays int
}

// ProposalService registers and reads supplier proposals.
type ProposalService struct {
	proposals proposalStore
	requests  proposalRequestStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       ProposalConfig
}

// ProposalServiceParams groups constructor dependencies.
type ProposalServiceParams struct {
	Proposals proposalStore
	Requests  proposalRequestStore
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ProposalConfig
}

// NewProposalService constructs a ProposalService.
func NewProposalService(params ProposalServiceParams) *ProposalService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.DefaultValidityDays <= 0 {
		cfg.DefaultValidityDays = 30
	}
	return &ProposalService{
		proposals: params.Proposals,
		requests:  params.Requests,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Submit registers a supplier proposal against an open request. Line
// totals are always recomputed from the stored request quantities, so a
// caller cannot smuggle in a different total.
func (s *ProposalService) Submit(ctx context.Context, requestID string, req dto.SubmitProposalRequest) (*dto.SubmitProposalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal payload")
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quotation request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotation request")
	}
	if request.Status != models.QuotationStatusOpen {
		return nil, appErrors.Clone(appErrors.ErrRequestClosed, "quotation request no longer accepts proposals")
	}

	// The supplier id is stored as given. The registry is a sibling
	// module, not a gatekeeper for incoming proposals.
	exists, err := s.proposals.ExistsForSupplier(ctx, requestID, req.SupplierID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing proposals")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateProposal, "")
	}

	requestItems, err := s.requests.GetItems(ctx, requestID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request items")
	}
	itemsByID := make(map[string]models.RequestItem, len(requestItems))
	for _, item := range requestItems {
		itemsByID[item.ID] = item
	}

	seen := make(map[string]struct{}, len(req.LinePrices))
	proposalItems := make([]models.ProposalItem, 0, len(req.LinePrices))
	total := 0.0
	for _, line := range req.LinePrices {
		item, ok := itemsByID[line.RequestItemID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("item %s does not belong to this request", line.RequestItemID))
		}
		if _, dup := seen[line.RequestItemID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("item %s is priced more than once", line.RequestItemID))
		}
		seen[line.RequestItemID] = struct{}{}

		lineTotal := round2(line.UnitPrice * float64(item.Quantity))
		total += lineTotal
		proposalItems = append(proposalItems, models.ProposalItem{
			RequestItemID: line.RequestItemID,
			UnitPrice:     line.UnitPrice,
			LineTotal:     lineTotal,
			Brand:         optionalString(line.Brand),
			Model:         optionalString(line.Model),
		})
	}

	now := s.now().UTC()
	validityDays := req.ValidityDays
	if validityDays <= 0 {
		validityDays = s.cfg.DefaultValidityDays
	}

	proposal := &models.SupplierProposal{
		RequestID:    requestID,
		SupplierID:   req.SupplierID,
		Number:       fmt.Sprintf("PROP-%s-%s", req.SupplierID, now.Format("20060102150405")),
		TotalValue:   round2(total),
		DeliveryTime: req.DeliveryTime,
		PaymentTerms: optionalString(req.PaymentTerms),
		Status:       models.ProposalStatusReceived,
		SubmittedAt:  now,
		ValidUntil:   now.AddDate(0, 0, validityDays),
		Notes:        optionalString(req.Notes),
	}

	if err := s.proposals.CreateWithItems(ctx, proposal, proposalItems); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store proposal")
	}

	s.metrics.CountProposal()
	s.invalidateComparison(ctx, requestID)

	s.logger.Info("proposal registered",
		zap.String("request_id", requestID),
		zap.String("proposal_id", proposal.ID),
		zap.String("supplier_id", req.SupplierID),
		zap.Float64("total_value", proposal.TotalValue))

	return &dto.SubmitProposalResponse{
		SupplierProposal: *proposal,
		Items:            proposalItems,
		Incomplete:       len(proposalItems) < len(requestItems),
		PricedItems:      len(proposalItems),
		TotalItems:       len(requestItems),
	}, nil
}

// ListByRequest returns the proposals of a request, cheapest first.
func (s *ProposalService) ListByRequest(ctx context.Context, requestID string) ([]models.SupplierProposal, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quotation request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotation request")
	}

	proposals, err := s.proposals.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}
	return proposals, nil
}

// Get returns one proposal with its priced items.
func (s *ProposalService) Get(ctx context.Context, proposalID string) (*dto.SubmitProposalResponse, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal")
	}
	items, err := s.proposals.GetItems(ctx, proposalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal items")
	}
	return &dto.SubmitProposalResponse{SupplierProposal: *proposal, Items: items, PricedItems: len(items)}, nil
}

func (s *ProposalService) invalidateComparison(ctx context.Context, requestID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("comparison:%s*", requestID)); err != nil {
		s.logger.Warn("comparison cache invalidation failed", zap.String("request_id", requestID), zap.Error(err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
