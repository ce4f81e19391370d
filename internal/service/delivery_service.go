package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type deliveryStore interface {
	Create(ctx context.Context, order *models.DeliveryOrder) error
	GetByID(ctx context.Context, id string) (*models.DeliveryOrder, error)
	UpdateStatus(ctx context.Context, id string, from, to models.DeliveryStatus, event models.DeliveryEvent) error
	Schedule(ctx context.Context, id string, date time.Time, carrier string) error
	ListEvents(ctx context.Context, orderID string) ([]models.DeliveryEvent, error)
	ListPending(ctx context.Context) ([]models.DeliveryOrder, error)
}

// DeliveryDetail is a delivery order with its tracking history.
type DeliveryDetail struct {
	models.DeliveryOrder
	Events []models.DeliveryEvent `json:"events"`
}

// deliveryTransitions maps each status to the statuses it may move to.
// Cancellation is only possible before the goods are on the road.
var deliveryTransitions = map[models.DeliveryStatus][]models.DeliveryStatus{
	models.DeliveryStatusPending:   {models.DeliveryStatusScheduled, models.DeliveryStatusCancelled},
	models.DeliveryStatusScheduled: {models.DeliveryStatusInTransit, models.DeliveryStatusCancelled},
	models.DeliveryStatusInTransit: {models.DeliveryStatusDelivered},
}

// DeliveryService tracks delivery orders through their lifecycle.
type DeliveryService struct {
	deliveries deliveryStore
	suppliers  supplierGetter
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewDeliveryService constructs a DeliveryService.
func NewDeliveryService(deliveries deliveryStore, suppliers supplierGetter, validate *validator.Validate, logger *zap.Logger) *DeliveryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryService{deliveries: deliveries, suppliers: suppliers, validator: validate, logger: logger, now: time.Now}
}

// Create opens a delivery order in pending state.
func (s *DeliveryService) Create(ctx context.Context, req dto.CreateDeliveryRequest) (*models.DeliveryOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delivery payload")
	}

	if _, err := s.suppliers.GetByID(ctx, req.SupplierID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supplier not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}

	now := s.now().UTC()
	order := &models.DeliveryOrder{
		Number:     "PED-" + now.Format("20060102150405"),
		RequestID:  optionalString(req.RequestID),
		SupplierID: req.SupplierID,
		Status:     models.DeliveryStatusPending,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		CreatedAt:  now,
	}
	if err := s.deliveries.Create(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create delivery order")
	}

	s.logger.Info("delivery order created", zap.String("order_id", order.ID), zap.String("number", order.Number))
	return order, nil
}

// Get fetches an order with its tracking events.
func (s *DeliveryService) Get(ctx context.Context, id string) (*DeliveryDetail, error) {
	order, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delivery order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery order")
	}
	events, err := s.deliveries.ListEvents(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery events")
	}
	return &DeliveryDetail{DeliveryOrder: *order, Events: events}, nil
}

// Schedule books a date and carrier on a pending order.
func (s *DeliveryService) Schedule(ctx context.Context, id string, req dto.ScheduleDeliveryRequest) (*DeliveryDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	if err := s.deliveries.Schedule(ctx, id, req.ScheduledDate.UTC(), req.Carrier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.scheduleConflict(ctx, id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule delivery")
	}
	return s.Get(ctx, id)
}

// UpdateStatus advances an order along the allowed transitions.
func (s *DeliveryService) UpdateStatus(ctx context.Context, id string, req dto.UpdateDeliveryStatusRequest) (*DeliveryDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	order, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delivery order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery order")
	}

	if !transitionAllowed(order.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot move delivery from %s to %s", order.Status, req.Status))
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("status changed to %s", req.Status)
	}
	event := models.DeliveryEvent{
		Description: description,
		Location:    optionalString(req.Location),
	}
	if err := s.deliveries.UpdateStatus(ctx, id, order.Status, req.Status, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "delivery order changed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update delivery status")
	}

	s.logger.Info("delivery status updated",
		zap.String("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(req.Status)))
	return s.Get(ctx, id)
}

// ListPending returns undelivered orders.
func (s *DeliveryService) ListPending(ctx context.Context) ([]models.DeliveryOrder, error) {
	orders, err := s.deliveries.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deliveries")
	}
	return orders, nil
}

// scheduleConflict distinguishes a missing order from one that already
// left the pending state.
func (s *DeliveryService) scheduleConflict(ctx context.Context, id string) error {
	if _, err := s.deliveries.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "delivery order not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery order")
	}
	return appErrors.Clone(appErrors.ErrConflict, "delivery order is no longer pending")
}

func transitionAllowed(from, to models.DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
