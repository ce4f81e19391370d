package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	"github.com/hospshop/procurement-api/internal/repository"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type stubAwardRepo struct {
	decisions map[string]models.AwardDecision
	createErr error
	params    *repository.AwardParams
}

func (m *stubAwardRepo) CreateAward(ctx context.Context, params repository.AwardParams) (*models.AwardDecision, error) {
	m.params = &params
	if m.createErr != nil {
		return nil, m.createErr
	}
	decision := models.AwardDecision{
		ID:                "award-1",
		RequestID:         params.RequestID,
		WinningProposalID: params.WinningProposalID,
		Criterion:         params.Criterion,
		Justification:     params.Justification,
		Savings:           params.Savings,
		DecidedBy:         params.DecidedBy,
		DecidedAt:         time.Now().UTC(),
	}
	if m.decisions == nil {
		m.decisions = make(map[string]models.AwardDecision)
	}
	m.decisions[params.RequestID] = decision
	return &decision, nil
}

func (m *stubAwardRepo) GetByRequest(ctx context.Context, requestID string) (*models.AwardDecision, error) {
	if decision, ok := m.decisions[requestID]; ok {
		return &decision, nil
	}
	return nil, sql.ErrNoRows
}

func awardFixture() (*stubAwardRepo, *stubRequestReader, *stubProposalRepo) {
	awards := &stubAwardRepo{}
	requests := &stubRequestReader{
		requests: map[string]models.QuotationRequest{
			"req-1": {ID: "req-1", Number: "SOL-1700000000", Status: models.QuotationStatusOpen},
		},
	}
	proposals := &stubProposalRepo{
		proposals: map[string]models.SupplierProposal{
			"prop-1": {ID: "prop-1", RequestID: "req-1", SupplierID: "sup-1", TotalValue: 78500, Status: models.ProposalStatusReceived},
			"prop-2": {ID: "prop-2", RequestID: "req-1", SupplierID: "sup-2", TotalValue: 73500, Status: models.ProposalStatusReceived},
			"prop-3": {ID: "prop-3", RequestID: "req-1", SupplierID: "sup-3", TotalValue: 84000, Status: models.ProposalStatusReceived},
			"prop-x": {ID: "prop-x", RequestID: "req-9", SupplierID: "sup-1", TotalValue: 100, Status: models.ProposalStatusReceived},
		},
		byRequest: map[string][]models.SupplierProposal{
			"req-1": {
				{ID: "prop-2", RequestID: "req-1", TotalValue: 73500},
				{ID: "prop-1", RequestID: "req-1", TotalValue: 78500},
				{ID: "prop-3", RequestID: "req-1", TotalValue: 84000},
			},
		},
	}
	return awards, requests, proposals
}

func newAwardServiceFixture(awards *stubAwardRepo, requests *stubRequestReader, proposals *stubProposalRepo) *AwardService {
	return NewAwardService(AwardServiceParams{
		Awards:    awards,
		Requests:  requests,
		Proposals: proposals,
	})
}

func TestAwardServiceSelectWinner(t *testing.T) {
	awards, requests, proposals := awardFixture()
	svc := newAwardServiceFixture(awards, requests, proposals)

	decision, err := svc.SelectWinner(context.Background(), "req-1", dto.AwardRequest{
		ProposalID: "prop-2",
		Criterion:  models.CriterionLowestPrice,
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "prop-2", decision.WinningProposalID)
	// Gap between the most expensive proposal and the winner.
	assert.InDelta(t, 10500, decision.Savings, 0.001)
	require.NotNil(t, awards.params)
	require.NotNil(t, awards.params.DecidedBy)
	assert.Equal(t, "user-1", *awards.params.DecidedBy)
}

func TestAwardServiceSelectWinnerClosedRequest(t *testing.T) {
	awards, requests, proposals := awardFixture()
	closed := requests.requests["req-1"]
	closed.Status = models.QuotationStatusClosed
	requests.requests["req-1"] = closed
	svc := newAwardServiceFixture(awards, requests, proposals)

	_, err := svc.SelectWinner(context.Background(), "req-1", dto.AwardRequest{
		ProposalID: "prop-2",
		Criterion:  models.CriterionLowestPrice,
	}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRequestClosed.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestAwardServiceSelectWinnerConcurrentAward(t *testing.T) {
	awards, requests, proposals := awardFixture()
	// Another transaction closed the request between the status check and
	// the guarded update.
	awards.createErr = sql.ErrNoRows
	svc := newAwardServiceFixture(awards, requests, proposals)

	_, err := svc.SelectWinner(context.Background(), "req-1", dto.AwardRequest{
		ProposalID: "prop-2",
		Criterion:  models.CriterionLowestPrice,
	}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRequestClosed.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestAwardServiceSelectWinnerForeignProposal(t *testing.T) {
	awards, requests, proposals := awardFixture()
	svc := newAwardServiceFixture(awards, requests, proposals)

	_, err := svc.SelectWinner(context.Background(), "req-1", dto.AwardRequest{
		ProposalID: "prop-x",
		Criterion:  models.CriterionLowestPrice,
	}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestAwardServiceSelectWinnerDecidedProposal(t *testing.T) {
	awards, requests, proposals := awardFixture()
	decided := proposals.proposals["prop-2"]
	decided.Status = models.ProposalStatusRejected
	proposals.proposals["prop-2"] = decided
	svc := newAwardServiceFixture(awards, requests, proposals)

	_, err := svc.SelectWinner(context.Background(), "req-1", dto.AwardRequest{
		ProposalID: "prop-2",
		Criterion:  models.CriterionLowestPrice,
	}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrProposalDecided.Code, appErr.Code)
}

func TestAwardServiceSelectWinnerUnknownCriterion(t *testing.T) {
	awards, requests, proposals := awardFixture()
	svc := newAwardServiceFixture(awards, requests, proposals)

	_, err := svc.SelectWinner(context.Background(), "req-1", dto.AwardRequest{
		ProposalID: "prop-2",
		Criterion:  models.AwardCriterion("cheapest"),
	}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAwardServiceGetByRequestNotAwarded(t *testing.T) {
	awards, requests, proposals := awardFixture()
	svc := newAwardServiceFixture(awards, requests, proposals)

	_, err := svc.GetByRequest(context.Background(), "req-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
