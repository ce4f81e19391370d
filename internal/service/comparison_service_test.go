package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

func comparisonFixture(proposals []models.SupplierProposal) *ComparisonService {
	requests := &stubRequestReader{
		requests: map[string]models.QuotationRequest{
			"req-1": {ID: "req-1", Status: models.QuotationStatusOpen},
		},
	}
	repo := &stubProposalRepo{byRequest: map[string][]models.SupplierProposal{"req-1": proposals}}
	suppliers := &stubSupplierReader{
		suppliers: map[string]models.Supplier{
			"sup-1": {ID: "sup-1", Name: "MedSupply"},
			"sup-2": {ID: "sup-2", Name: "HospTech"},
			"sup-3": {ID: "sup-3", Name: "Vitalcare"},
		},
	}
	return NewComparisonService(requests, repo, suppliers, nil, nil, ComparisonConfig{})
}

func TestComparisonServiceRanksAndDerivesStats(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	// Repository delivers cheapest first.
	svc := comparisonFixture([]models.SupplierProposal{
		{ID: "prop-2", SupplierID: "sup-2", TotalValue: 73500, SubmittedAt: base.Add(time.Hour)},
		{ID: "prop-1", SupplierID: "sup-1", TotalValue: 78500, SubmittedAt: base},
		{ID: "prop-3", SupplierID: "sup-3", TotalValue: 84000, SubmittedAt: base.Add(2 * time.Hour)},
	})

	result, fromCache, err := svc.Compare(context.Background(), "req-1")
	require.NoError(t, err)
	assert.False(t, fromCache)

	assert.Equal(t, 3, result.TotalProposals)
	require.Len(t, result.Proposals, 3)
	assert.Equal(t, 1, result.Proposals[0].Rank)
	assert.Equal(t, "prop-2", result.Proposals[0].ProposalID)
	assert.Equal(t, "HospTech", result.Proposals[0].SupplierName)
	assert.Equal(t, "prop-3", result.Proposals[2].ProposalID)

	require.NotNil(t, result.Cheapest)
	require.NotNil(t, result.MostExpensive)
	assert.InDelta(t, 73500, result.Cheapest.TotalValue, 0.001)
	assert.InDelta(t, 84000, result.MostExpensive.TotalValue, 0.001)
	assert.InDelta(t, 78666.67, result.AveragePrice, 0.01)
	assert.InDelta(t, 10500, result.PotentialSavings, 0.001)
	assert.InDelta(t, 12.5, result.PriceVariationPct, 0.001)
}

func TestComparisonServiceEmptyRequest(t *testing.T) {
	svc := comparisonFixture(nil)

	result, _, err := svc.Compare(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalProposals)
	assert.Empty(t, result.Proposals)
	assert.Nil(t, result.Cheapest)
	assert.Nil(t, result.MostExpensive)
	assert.Zero(t, result.AveragePrice)
	assert.Zero(t, result.PotentialSavings)
	assert.Zero(t, result.PriceVariationPct)
}

func TestComparisonServiceSingleProposalHasNoVariation(t *testing.T) {
	svc := comparisonFixture([]models.SupplierProposal{
		{ID: "prop-1", SupplierID: "sup-1", TotalValue: 78500},
	})

	result, _, err := svc.Compare(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalProposals)
	assert.Zero(t, result.PotentialSavings)
	assert.Zero(t, result.PriceVariationPct)
	assert.InDelta(t, 78500, result.AveragePrice, 0.001)
}

func TestComparisonServiceUnknownRequest(t *testing.T) {
	svc := comparisonFixture(nil)

	_, _, err := svc.Compare(context.Background(), "req-missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
