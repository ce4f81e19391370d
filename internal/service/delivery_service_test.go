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

type stubDeliveryRepo struct {
	orders      map[string]models.DeliveryOrder
	events      map[string][]models.DeliveryEvent
	scheduleErr error
	updated     *models.DeliveryEvent
}

func (m *stubDeliveryRepo) Create(ctx context.Context, order *models.DeliveryOrder) error {
	if order.ID == "" {
		order.ID = "del-new"
	}
	if m.orders == nil {
		m.orders = make(map[string]models.DeliveryOrder)
	}
	m.orders[order.ID] = *order
	return nil
}

func (m *stubDeliveryRepo) GetByID(ctx context.Context, id string) (*models.DeliveryOrder, error) {
	if order, ok := m.orders[id]; ok {
		return &order, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubDeliveryRepo) UpdateStatus(ctx context.Context, id string, from, to models.DeliveryStatus, event models.DeliveryEvent) error {
	order, ok := m.orders[id]
	if !ok || order.Status != from {
		return sql.ErrNoRows
	}
	order.Status = to
	m.orders[id] = order
	m.updated = &event
	m.events[id] = append(m.events[id], event)
	return nil
}

func (m *stubDeliveryRepo) Schedule(ctx context.Context, id string, date time.Time, carrier string) error {
	if m.scheduleErr != nil {
		return m.scheduleErr
	}
	order, ok := m.orders[id]
	if !ok || order.Status != models.DeliveryStatusPending {
		return sql.ErrNoRows
	}
	order.Status = models.DeliveryStatusScheduled
	m.orders[id] = order
	return nil
}

func (m *stubDeliveryRepo) ListEvents(ctx context.Context, orderID string) ([]models.DeliveryEvent, error) {
	return m.events[orderID], nil
}

func (m *stubDeliveryRepo) ListPending(ctx context.Context) ([]models.DeliveryOrder, error) {
	var result []models.DeliveryOrder
	for _, order := range m.orders {
		if order.Status != models.DeliveryStatusDelivered && order.Status != models.DeliveryStatusCancelled {
			result = append(result, order)
		}
	}
	return result, nil
}

func deliveryFixture(status models.DeliveryStatus) (*stubDeliveryRepo, *DeliveryService) {
	repo := &stubDeliveryRepo{
		orders: map[string]models.DeliveryOrder{
			"del-1": {ID: "del-1", Number: "PED-1700000000", SupplierID: "sup-1", Status: status},
		},
		events: map[string][]models.DeliveryEvent{},
	}
	suppliers := &stubSupplierReader{
		suppliers: map[string]models.Supplier{
			"sup-1": {ID: "sup-1", Name: "MedSupply LTDA", Active: true},
		},
	}
	return repo, NewDeliveryService(repo, suppliers, nil, nil)
}

func TestDeliveryServiceCreate(t *testing.T) {
	repo, svc := deliveryFixture(models.DeliveryStatusPending)

	order, err := svc.Create(context.Background(), dto.CreateDeliveryRequest{
		SupplierID: "sup-1",
		Address:    "Rua das Flores, 100",
		City:       "São Paulo",
		State:      "SP",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DeliveryStatusPending, order.Status)
	assert.Contains(t, order.Number, "PED-")
	_, ok := repo.orders[order.ID]
	assert.True(t, ok)
}

func TestDeliveryServiceCreateUnknownSupplier(t *testing.T) {
	_, svc := deliveryFixture(models.DeliveryStatusPending)

	_, err := svc.Create(context.Background(), dto.CreateDeliveryRequest{
		SupplierID: "sup-missing",
		Address:    "Rua das Flores, 100",
		City:       "São Paulo",
		State:      "SP",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDeliveryServiceSchedulePendingOrder(t *testing.T) {
	repo, svc := deliveryFixture(models.DeliveryStatusPending)

	detail, err := svc.Schedule(context.Background(), "del-1", dto.ScheduleDeliveryRequest{
		ScheduledDate: time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC),
		Carrier:       "Transportadora Rápida",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusScheduled, detail.Status)
	assert.Equal(t, models.DeliveryStatusScheduled, repo.orders["del-1"].Status)
}

func TestDeliveryServiceScheduleNonPendingOrder(t *testing.T) {
	_, svc := deliveryFixture(models.DeliveryStatusInTransit)

	_, err := svc.Schedule(context.Background(), "del-1", dto.ScheduleDeliveryRequest{
		ScheduledDate: time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC),
		Carrier:       "Transportadora Rápida",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestDeliveryServiceScheduleUnknownOrder(t *testing.T) {
	_, svc := deliveryFixture(models.DeliveryStatusPending)

	_, err := svc.Schedule(context.Background(), "del-missing", dto.ScheduleDeliveryRequest{
		ScheduledDate: time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC),
		Carrier:       "Transportadora Rápida",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDeliveryServiceUpdateStatusAllowedTransition(t *testing.T) {
	repo, svc := deliveryFixture(models.DeliveryStatusScheduled)

	detail, err := svc.UpdateStatus(context.Background(), "del-1", dto.UpdateDeliveryStatusRequest{
		Status:   models.DeliveryStatusInTransit,
		Location: "CD Campinas",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusInTransit, detail.Status)
	require.NotNil(t, repo.updated)
	require.NotNil(t, repo.updated.Location)
	assert.Equal(t, "CD Campinas", *repo.updated.Location)
}

func TestDeliveryServiceUpdateStatusRejectsSkippedStep(t *testing.T) {
	_, svc := deliveryFixture(models.DeliveryStatusPending)

	_, err := svc.UpdateStatus(context.Background(), "del-1", dto.UpdateDeliveryStatusRequest{
		Status: models.DeliveryStatusDelivered,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestDeliveryServiceUpdateStatusRejectsLateCancellation(t *testing.T) {
	_, svc := deliveryFixture(models.DeliveryStatusInTransit)

	_, err := svc.UpdateStatus(context.Background(), "del-1", dto.UpdateDeliveryStatusRequest{
		Status: models.DeliveryStatusCancelled,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestDeliveryServiceUpdateStatusUnknownOrder(t *testing.T) {
	_, svc := deliveryFixture(models.DeliveryStatusPending)

	_, err := svc.UpdateStatus(context.Background(), "del-missing", dto.UpdateDeliveryStatusRequest{
		Status: models.DeliveryStatusScheduled,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
