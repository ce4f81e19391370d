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
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type stubRequestReader struct {
	requests map[string]models.QuotationRequest
	items    map[string][]models.RequestItem
}

func (m *stubRequestReader) GetByID(ctx context.Context, id string) (*models.QuotationRequest, error) {
	if request, ok := m.requests[id]; ok {
		return &request, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubRequestReader) GetItems(ctx context.Context, requestID string) ([]models.RequestItem, error) {
	return m.items[requestID], nil
}

type stubProposalRepo struct {
	proposals    map[string]models.SupplierProposal
	items        map[string][]models.ProposalItem
	byRequest    map[string][]models.SupplierProposal
	existing     map[string]bool
	created      *models.SupplierProposal
	createdItems []models.ProposalItem
}

func (m *stubProposalRepo) CreateWithItems(ctx context.Context, proposal *models.SupplierProposal, items []models.ProposalItem) error {
	if proposal.ID == "" {
		proposal.ID = "prop-new"
	}
	if m.proposals == nil {
		m.proposals = make(map[string]models.SupplierProposal)
	}
	m.proposals[proposal.ID] = *proposal
	m.created = proposal
	m.createdItems = items
	return nil
}

func (m *stubProposalRepo) GetByID(ctx context.Context, id string) (*models.SupplierProposal, error) {
	if proposal, ok := m.proposals[id]; ok {
		return &proposal, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubProposalRepo) GetItems(ctx context.Context, proposalID string) ([]models.ProposalItem, error) {
	return m.items[proposalID], nil
}

func (m *stubProposalRepo) ListByRequest(ctx context.Context, requestID string) ([]models.SupplierProposal, error) {
	return m.byRequest[requestID], nil
}

func (m *stubProposalRepo) ExistsForSupplier(ctx context.Context, requestID, supplierID string) (bool, error) {
	return m.existing[requestID+":"+supplierID], nil
}

type stubSupplierReader struct {
	suppliers map[string]models.Supplier
}

func (m *stubSupplierReader) GetByID(ctx context.Context, id string) (*models.Supplier, error) {
	if supplier, ok := m.suppliers[id]; ok {
		return &supplier, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubSupplierReader) List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, error) {
	var result []models.Supplier
	for _, supplier := range m.suppliers {
		result = append(result, supplier)
	}
	return result, nil
}

func openRequestFixture() (*stubRequestReader, *stubProposalRepo) {
	requests := &stubRequestReader{
		requests: map[string]models.QuotationRequest{
			"req-1": {
				ID:     "req-1",
				Number: "SOL-1700000000",
				Status: models.QuotationStatusOpen,
			},
		},
		items: map[string][]models.RequestItem{
			"req-1": {
				{ID: "item-1", RequestID: "req-1", Code: "MON-01", Quantity: 5, Position: 1},
				{ID: "item-2", RequestID: "req-1", Code: "CAB-02", Quantity: 10, Position: 2},
			},
		},
	}
	proposals := &stubProposalRepo{}
	return requests, proposals
}

func newProposalServiceFixture(requests *stubRequestReader, proposals *stubProposalRepo) *ProposalService {
	return NewProposalService(ProposalServiceParams{
		Proposals: proposals,
		Requests:  requests,
	})
}

func TestProposalServiceSubmitRecomputesLineTotals(t *testing.T) {
	requests, proposals := openRequestFixture()
	svc := newProposalServiceFixture(requests, proposals)

	resp, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID: "sup-1",
		LinePrices: []dto.ProposalLineInput{
			{RequestItemID: "item-1", UnitPrice: 15700},
			{RequestItemID: "item-2", UnitPrice: 10},
		},
		DeliveryTime: "15 dias",
	})
	require.NoError(t, err)

	// 15700 x 5 + 10 x 10, quantities come from the stored request.
	assert.InDelta(t, 78600, resp.TotalValue, 0.001)
	assert.InDelta(t, 78500, resp.Items[0].LineTotal, 0.001)
	assert.InDelta(t, 100, resp.Items[1].LineTotal, 0.001)
	assert.Equal(t, models.ProposalStatusReceived, resp.Status)
	assert.False(t, resp.Incomplete)
	assert.Equal(t, 2, resp.PricedItems)
	require.NotNil(t, proposals.created)
	assert.Contains(t, proposals.created.Number, "PROP-sup-1-")
}

func TestProposalServiceSubmitFlagsIncompleteProposal(t *testing.T) {
	requests, proposals := openRequestFixture()
	svc := newProposalServiceFixture(requests, proposals)

	resp, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID:   "sup-1",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-1", UnitPrice: 14700}},
		DeliveryTime: "20 dias",
	})
	require.NoError(t, err)
	assert.True(t, resp.Incomplete)
	assert.Equal(t, 1, resp.PricedItems)
	assert.Equal(t, 2, resp.TotalItems)
	assert.InDelta(t, 73500, resp.TotalValue, 0.001)
}

func TestProposalServiceSubmitRejectsClosedRequest(t *testing.T) {
	requests, proposals := openRequestFixture()
	closed := requests.requests["req-1"]
	closed.Status = models.QuotationStatusClosed
	requests.requests["req-1"] = closed
	svc := newProposalServiceFixture(requests, proposals)

	_, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID:   "sup-1",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-1", UnitPrice: 100}},
		DeliveryTime: "10 dias",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRequestClosed.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestProposalServiceSubmitRejectsForeignItem(t *testing.T) {
	requests, proposals := openRequestFixture()
	svc := newProposalServiceFixture(requests, proposals)

	_, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID:   "sup-1",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-other", UnitPrice: 100}},
		DeliveryTime: "10 dias",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestProposalServiceSubmitRejectsDuplicateSupplier(t *testing.T) {
	requests, proposals := openRequestFixture()
	proposals.existing = map[string]bool{"req-1:sup-1": true}
	svc := newProposalServiceFixture(requests, proposals)

	_, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID:   "sup-1",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-1", UnitPrice: 100}},
		DeliveryTime: "10 dias",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateProposal.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestProposalServiceSubmitUnknownRequest(t *testing.T) {
	requests, proposals := openRequestFixture()
	svc := newProposalServiceFixture(requests, proposals)

	_, err := svc.Submit(context.Background(), "req-missing", dto.SubmitProposalRequest{
		SupplierID:   "sup-1",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-1", UnitPrice: 100}},
		DeliveryTime: "10 dias",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestProposalServiceSubmitStoresUnregisteredSupplierReference(t *testing.T) {
	requests, proposals := openRequestFixture()
	svc := newProposalServiceFixture(requests, proposals)

	resp, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID:   "sup-999",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-1", UnitPrice: 100}},
		DeliveryTime: "10 dias",
	})
	require.NoError(t, err)
	assert.Equal(t, "sup-999", resp.SupplierID)
	require.NotNil(t, proposals.created)
	assert.Equal(t, "sup-999", proposals.created.SupplierID)
}

func TestProposalServiceSubmitAppliesValidityDefault(t *testing.T) {
	requests, proposals := openRequestFixture()
	svc := newProposalServiceFixture(requests, proposals)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	resp, err := svc.Submit(context.Background(), "req-1", dto.SubmitProposalRequest{
		SupplierID:   "sup-1",
		LinePrices:   []dto.ProposalLineInput{{RequestItemID: "item-1", UnitPrice: 100}},
		DeliveryTime: "10 dias",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), resp.ValidUntil)
}
