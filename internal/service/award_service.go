package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	"github.com/hospshop/procurement-api/internal/repository"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type awardStore interface {
	CreateAward(ctx context.Context, params repository.AwardParams) (*models.AwardDecision, error)
	GetByRequest(ctx context.Context, requestID string) (*models.AwardDecision, error)
}

type awardProposalStore interface {
	GetByID(ctx context.Context, id string) (*models.SupplierProposal, error)
	ListByRequest(ctx context.Context, requestID string) ([]models.SupplierProposal, error)
}

// awardAnnouncer is notified after an award lands; failures are logged,
// never surfaced to the caller.
type awardAnnouncer interface {
	AwardDecided(ctx context.Context, request *models.QuotationRequest, winner *models.SupplierProposal, decision *models.AwardDecision)
}

// AwardService selects winning proposals and closes requests.
type AwardService struct {
	awards    awardStore
	requests  comparisonRequestStore
	proposals awardProposalStore
	announcer awardAnnouncer
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// AwardServiceParams groups constructor dependencies.
type AwardServiceParams struct {
	Awards    awardStore
	Requests  comparisonRequestStore
	Proposals awardProposalStore
	Announcer awardAnnouncer
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewAwardService constructs an AwardService.
func NewAwardService(params AwardServiceParams) *AwardService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AwardService{
		awards:    params.Awards,
		requests:  params.Requests,
		proposals: params.Proposals,
		announcer: params.Announcer,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
	}
}

// SelectWinner awards the request to the given proposal. The repository
// applies the whole award in one guarded transaction, so when two awards
// race only the first one lands; the loser surfaces a conflict.
func (s *AwardService) SelectWinner(ctx context.Context, requestID string, req dto.AwardRequest, decidedBy string) (*models.AwardDecision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid award payload")
	}
	switch req.Criterion {
	case models.CriterionLowestPrice, models.CriterionBestValue, models.CriterionFastestDelivery:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown criterion %q", req.Criterion))
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quotation request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotation request")
	}
	if request.Status != models.QuotationStatusOpen {
		return nil, appErrors.Clone(appErrors.ErrRequestClosed, "quotation request is already closed")
	}

	winner, err := s.proposals.GetByID(ctx, req.ProposalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal")
	}
	if winner.RequestID != requestID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "proposal does not belong to this request")
	}
	if winner.Status != models.ProposalStatusReceived {
		return nil, appErrors.Clone(appErrors.ErrProposalDecided, "")
	}

	savings, err := s.computeSavings(ctx, requestID, winner)
	if err != nil {
		return nil, err
	}

	decision, err := s.awards.CreateAward(ctx, repository.AwardParams{
		RequestID:         requestID,
		WinningProposalID: winner.ID,
		Criterion:         req.Criterion,
		Justification:     optionalString(req.Justification),
		Savings:           savings,
		DecidedBy:         optionalString(decidedBy),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRequestClosed, "quotation request was awarded concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record award")
	}

	s.metrics.CountAward()
	s.invalidate(ctx, requestID)

	s.logger.Info("award decided",
		zap.String("request_id", requestID),
		zap.String("proposal_id", winner.ID),
		zap.String("criterion", string(req.Criterion)),
		zap.Float64("savings", savings))

	if s.announcer != nil {
		s.announcer.AwardDecided(ctx, request, winner, decision)
	}
	return decision, nil
}

// GetByRequest fetches the award decision of a request.
func (s *AwardService) GetByRequest(ctx context.Context, requestID string) (*models.AwardDecision, error) {
	decision, err := s.awards.GetByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no award decision for this request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load award decision")
	}
	return decision, nil
}

// computeSavings measures the gap between the most expensive proposal and
// the winner; a single proposal yields zero.
func (s *AwardService) computeSavings(ctx context.Context, requestID string, winner *models.SupplierProposal) (float64, error) {
	proposals, err := s.proposals.ListByRequest(ctx, requestID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}
	max := winner.TotalValue
	for _, proposal := range proposals {
		if proposal.TotalValue > max {
			max = proposal.TotalValue
		}
	}
	return max - winner.TotalValue, nil
}

func (s *AwardService) invalidate(ctx context.Context, requestID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("comparison:%s*", requestID)); err != nil {
		s.logger.Warn("comparison cache invalidation failed", zap.String("request_id", requestID), zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
