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

type stubQuotationRepo struct {
	requests     map[string]models.QuotationRequest
	items        map[string][]models.RequestItem
	created      *models.QuotationRequest
	createdItems []models.RequestItem
	listFilter   *models.QuotationFilter
	stats        models.QuotationStats
}

func (m *stubQuotationRepo) CreateWithItems(ctx context.Context, request *models.QuotationRequest, items []models.RequestItem) error {
	if request.ID == "" {
		request.ID = "req-new"
	}
	for i := range items {
		items[i].RequestID = request.ID
		items[i].Position = i + 1
	}
	if m.requests == nil {
		m.requests = make(map[string]models.QuotationRequest)
	}
	m.requests[request.ID] = *request
	m.created = request
	m.createdItems = items
	return nil
}

func (m *stubQuotationRepo) GetByID(ctx context.Context, id string) (*models.QuotationRequest, error) {
	if request, ok := m.requests[id]; ok {
		return &request, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubQuotationRepo) GetItems(ctx context.Context, requestID string) ([]models.RequestItem, error) {
	return m.items[requestID], nil
}

func (m *stubQuotationRepo) List(ctx context.Context, filter models.QuotationFilter) ([]models.QuotationRequest, error) {
	m.listFilter = &filter
	var result []models.QuotationRequest
	for _, request := range m.requests {
		result = append(result, request)
	}
	return result, nil
}

func (m *stubQuotationRepo) Stats(ctx context.Context) (*models.QuotationStats, error) {
	stats := m.stats
	return &stats, nil
}

type stubQuotationAnnouncer struct {
	opened []string
}

func (m *stubQuotationAnnouncer) QuotationOpened(ctx context.Context, request *models.QuotationRequest, items []models.RequestItem) {
	m.opened = append(m.opened, request.ID)
}

func TestQuotationServiceCreateAppliesDefaults(t *testing.T) {
	repo := &stubQuotationRepo{}
	announcer := &stubQuotationAnnouncer{}
	svc := NewQuotationService(repo, announcer, nil, nil, QuotationConfig{DefaultResponseDays: 7})
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	resp, err := svc.Create(context.Background(), dto.CreateQuotationRequest{
		TenderReference: "PE-2024-001",
		Description:     "monitores multiparametricos",
		Items: []dto.QuotationItemInput{
			{Code: "MON-01", Description: "monitor 12\"", Quantity: 5, Unit: "un"},
			{Code: "CAB-02", Description: "cabo ECG", Quantity: 10, Unit: "un"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "SOL-20240601090000", resp.Number)
	assert.Equal(t, models.QuotationStatusOpen, resp.Status)
	assert.Equal(t, time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC), resp.ResponseDeadline)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Items[0].Position)
	assert.Equal(t, 2, resp.Items[1].Position)
	assert.Equal(t, []string{resp.ID}, announcer.opened)
}

func TestQuotationServiceCreateRequiresItems(t *testing.T) {
	svc := NewQuotationService(&stubQuotationRepo{}, nil, nil, nil, QuotationConfig{})

	_, err := svc.Create(context.Background(), dto.CreateQuotationRequest{
		TenderReference: "PE-2024-001",
		Description:     "sem itens",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestQuotationServiceCreateRejectsZeroQuantity(t *testing.T) {
	svc := NewQuotationService(&stubQuotationRepo{}, nil, nil, nil, QuotationConfig{})

	_, err := svc.Create(context.Background(), dto.CreateQuotationRequest{
		TenderReference: "PE-2024-001",
		Description:     "item inválido",
		Items:           []dto.QuotationItemInput{{Code: "X", Description: "x", Quantity: 0, Unit: "un"}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestQuotationServiceGetNotFound(t *testing.T) {
	svc := NewQuotationService(&stubQuotationRepo{}, nil, nil, nil, QuotationConfig{})

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestQuotationServiceListRejectsUnknownStatus(t *testing.T) {
	svc := NewQuotationService(&stubQuotationRepo{}, nil, nil, nil, QuotationConfig{})

	_, err := svc.List(context.Background(), dto.QuotationQuery{Status: "archived"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestQuotationServiceListMapsStatusFilter(t *testing.T) {
	repo := &stubQuotationRepo{}
	svc := NewQuotationService(repo, nil, nil, nil, QuotationConfig{})

	_, err := svc.List(context.Background(), dto.QuotationQuery{Status: "open"})
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter)
	assert.Equal(t, models.QuotationStatusOpen, repo.listFilter.Status)
}
