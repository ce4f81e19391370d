package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type comparisonRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.QuotationRequest, error)
}

type comparisonProposalStore interface {
	ListByRequest(ctx context.Context, requestID string) ([]models.SupplierProposal, error)
}

// ComparisonConfig tunes comparison caching.
type ComparisonConfig struct {
	CacheTTL time.Duration
}

// ComparisonService ranks the proposals of a request and derives savings
// statistics.
type ComparisonService struct {
	requests  comparisonRequestStore
	proposals comparisonProposalStore
	suppliers supplierGetter
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       ComparisonConfig
}

// NewComparisonService constructs a ComparisonService.
func NewComparisonService(requests comparisonRequestStore, proposals comparisonProposalStore, suppliers supplierGetter, cache *CacheService, logger *zap.Logger, cfg ComparisonConfig) *ComparisonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	return &ComparisonService{
		requests:  requests,
		proposals: proposals,
		suppliers: suppliers,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Compare builds the price comparison for a request. The second return
// value reports whether the payload was served from cache.
func (s *ComparisonService) Compare(ctx context.Context, requestID string) (*models.ComparisonResult, bool, error) {
	if requestID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "request id is required")
	}

	cacheKey := fmt.Sprintf("comparison:%s", requestID)
	if s.cache != nil {
		var cached models.ComparisonResult
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "quotation request not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotation request")
	}

	proposals, err := s.proposals.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}

	result := s.build(ctx, requestID, proposals)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("comparison cache write failed", zap.String("request_id", requestID), zap.Error(err))
		}
	}
	return result, false, nil
}

// build derives the ranking and statistics. Proposals arrive pre-sorted
// cheapest first with ties broken by submission time.
func (s *ComparisonService) build(ctx context.Context, requestID string, proposals []models.SupplierProposal) *models.ComparisonResult {
	result := &models.ComparisonResult{
		RequestID:      requestID,
		TotalProposals: len(proposals),
		GeneratedAt:    s.now().UTC(),
	}
	if len(proposals) == 0 {
		return result
	}

	names := s.supplierNames(ctx, proposals)

	ranked := make([]models.RankedProposal, 0, len(proposals))
	sum := 0.0
	for i, proposal := range proposals {
		sum += proposal.TotalValue
		ranked = append(ranked, models.RankedProposal{
			Rank:         i + 1,
			ProposalID:   proposal.ID,
			SupplierID:   proposal.SupplierID,
			SupplierName: names[proposal.SupplierID],
			Number:       proposal.Number,
			TotalValue:   proposal.TotalValue,
			DeliveryTime: proposal.DeliveryTime,
			Status:       proposal.Status,
			SubmittedAt:  proposal.SubmittedAt,
		})
	}
	result.Proposals = ranked

	cheapest := proposals[0]
	mostExpensive := proposals[len(proposals)-1]
	result.Cheapest = &models.ProposalSummary{
		ProposalID:   cheapest.ID,
		SupplierID:   cheapest.SupplierID,
		SupplierName: names[cheapest.SupplierID],
		TotalValue:   cheapest.TotalValue,
	}
	result.MostExpensive = &models.ProposalSummary{
		ProposalID:   mostExpensive.ID,
		SupplierID:   mostExpensive.SupplierID,
		SupplierName: names[mostExpensive.SupplierID],
		TotalValue:   mostExpensive.TotalValue,
	}
	result.AveragePrice = sum / float64(len(proposals))
	result.PotentialSavings = mostExpensive.TotalValue - cheapest.TotalValue
	if len(proposals) > 1 && mostExpensive.TotalValue > 0 {
		result.PriceVariationPct = result.PotentialSavings / mostExpensive.TotalValue * 100
	}
	return result
}

// supplierNames resolves display names; a missing supplier degrades to
// an empty name rather than failing the comparison.
func (s *ComparisonService) supplierNames(ctx context.Context, proposals []models.SupplierProposal) map[string]string {
	names := make(map[string]string, len(proposals))
	if s.suppliers == nil {
		return names
	}
	for _, proposal := range proposals {
		if _, ok := names[proposal.SupplierID]; ok {
			continue
		}
		supplier, err := s.suppliers.GetByID(ctx, proposal.SupplierID)
		if err != nil {
			s.logger.Warn("supplier lookup failed during comparison", zap.String("supplier_id", proposal.SupplierID), zap.Error(err))
			names[proposal.SupplierID] = ""
			continue
		}
		names[proposal.SupplierID] = supplier.Name
	}
	return names
}
