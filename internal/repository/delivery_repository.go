package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospshop/procurement-api/internal/models"
)

// DeliveryRepository persists delivery orders and tracking events.
type DeliveryRepository struct {
	db *sqlx.DB
}

// NewDeliveryRepository constructs the repository.
func NewDeliveryRepository(db *sqlx.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Create inserts a delivery order plus its opening tracking event.
func (r *DeliveryRepository) Create(ctx context.Context, order *models.DeliveryOrder) error {
	now := time.Now().UTC()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = models.DeliveryStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delivery tx: %w", err)
	}

	const orderQuery = `INSERT INTO delivery_orders
	(id, number, request_id, supplier_id, status, address, city, state, carrier, scheduled_date, created_at, updated_at)
	VALUES (:id, :number, :request_id, :supplier_id, :status, :address, :city, :state, :carrier, :scheduled_date, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, orderQuery, order); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create delivery order: %w", err)
	}

	event := models.DeliveryEvent{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		Status:      order.Status,
		Description: "delivery order created",
		CreatedAt:   now,
	}
	const eventQuery = `INSERT INTO delivery_events
	(id, order_id, status, description, location, created_at)
	VALUES (:id, :order_id, :status, :description, :location, :created_at)`
	if _, err := tx.NamedExecContext(ctx, eventQuery, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create delivery event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delivery order: %w", err)
	}
	return nil
}

// GetByID fetches a delivery order by identifier.
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*models.DeliveryOrder, error) {
	const query = `SELECT id, number, request_id, supplier_id, status, address, city, state, carrier, scheduled_date, created_at, updated_at
	FROM delivery_orders WHERE id = $1`
	var order models.DeliveryOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order to the given status and appends the
// tracking event, guarded on the expected current status.
func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id string, from, to models.DeliveryStatus, event models.DeliveryEvent) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delivery status tx: %w", err)
	}

	const updateQuery = `UPDATE delivery_orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := tx.ExecContext(ctx, updateQuery, id, from, to, now)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update delivery status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("check delivery status rows: %w", err)
	}
	if rows == 0 {
		tx.Rollback() //nolint:errcheck
		return sql.ErrNoRows
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.OrderID = id
	event.Status = to
	event.CreatedAt = now
	const eventQuery = `INSERT INTO delivery_events
	(id, order_id, status, description, location, created_at)
	VALUES (:id, :order_id, :status, :description, :location, :created_at)`
	if _, err := tx.NamedExecContext(ctx, eventQuery, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create delivery event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delivery status: %w", err)
	}
	return nil
}

// Schedule books a date and carrier on a pending order and moves it to
// scheduled.
func (r *DeliveryRepository) Schedule(ctx context.Context, id string, date time.Time, carrier string) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delivery schedule tx: %w", err)
	}

	const updateQuery = `UPDATE delivery_orders
	SET status = 'scheduled', scheduled_date = $2, carrier = $3, updated_at = $4
	WHERE id = $1 AND status = 'pending'`
	result, err := tx.ExecContext(ctx, updateQuery, id, date, carrier, now)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("schedule delivery: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("check delivery schedule rows: %w", err)
	}
	if rows == 0 {
		tx.Rollback() //nolint:errcheck
		return sql.ErrNoRows
	}

	event := models.DeliveryEvent{
		ID:          uuid.NewString(),
		OrderID:     id,
		Status:      models.DeliveryStatusScheduled,
		Description: fmt.Sprintf("delivery scheduled with %s", carrier),
		CreatedAt:   now,
	}
	const eventQuery = `INSERT INTO delivery_events
	(id, order_id, status, description, location, created_at)
	VALUES (:id, :order_id, :status, :description, :location, :created_at)`
	if _, err := tx.NamedExecContext(ctx, eventQuery, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create delivery event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delivery schedule: %w", err)
	}
	return nil
}

// ListEvents returns tracking events of an order, oldest first.
func (r *DeliveryRepository) ListEvents(ctx context.Context, orderID string) ([]models.DeliveryEvent, error) {
	const query = `SELECT id, order_id, status, description, location, created_at
	FROM delivery_events WHERE order_id = $1 ORDER BY created_at ASC`
	var events []models.DeliveryEvent
	if err := r.db.SelectContext(ctx, &events, query, orderID); err != nil {
		return nil, fmt.Errorf("list delivery events: %w", err)
	}
	return events, nil
}

// ListPending returns orders not yet delivered or cancelled.
func (r *DeliveryRepository) ListPending(ctx context.Context) ([]models.DeliveryOrder, error) {
	const query = `SELECT id, number, request_id, supplier_id, status, address, city, state, carrier, scheduled_date, created_at, updated_at
	FROM delivery_orders
	WHERE status IN ('pending', 'scheduled', 'in_transit')
	ORDER BY created_at ASC`
	var orders []models.DeliveryOrder
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list pending deliveries: %w", err)
	}
	return orders, nil
}

// CountPending returns the number of undelivered orders.
func (r *DeliveryRepository) CountPending(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM delivery_orders WHERE status IN ('pending', 'scheduled', 'in_transit')`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count pending deliveries: %w", err)
	}
	return count, nil
}
